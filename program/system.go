package program

import (
	sgo "github.com/gagliardetto/solana-go"
	sgotkn2 "github.com/gagliardetto/solana-go/programs/associated-token-account"
	sgosys "github.com/gagliardetto/solana-go/programs/system"
	sgotkn "github.com/gagliardetto/solana-go/programs/token"
)

type TransferArgs struct {
	From     sgo.PublicKey
	To       sgo.PublicKey
	Lamports uint64
}

func buildTransfer(args interface{}) (sgo.Instruction, error) {
	a, ok := args.(TransferArgs)
	if !ok {
		return nil, badArgs(KIND_SYSTEM_TRANSFER, args)
	}
	b := sgosys.NewTransferInstructionBuilder()
	b.SetFundingAccount(a.From)
	b.SetRecipientAccount(a.To)
	b.SetLamports(a.Lamports)
	return b.Build(), nil
}

type TokenTransferArgs struct {
	Source      sgo.PublicKey
	Mint        sgo.PublicKey
	Destination sgo.PublicKey
	Owner       sgo.PublicKey
	Amount      uint64
	Decimals    uint8
}

func buildTokenTransfer(args interface{}) (sgo.Instruction, error) {
	a, ok := args.(TokenTransferArgs)
	if !ok {
		return nil, badArgs(KIND_TOKEN_TRANSFER, args)
	}
	ix, err := sgotkn.NewTransferCheckedInstruction(
		a.Amount,
		a.Decimals,
		a.Source,
		a.Mint,
		a.Destination,
		a.Owner,
		nil,
	).ValidateAndBuild()
	if err != nil {
		return nil, err
	}
	return ix, nil
}

type CreateAssociatedAccountArgs struct {
	Payer  sgo.PublicKey
	Wallet sgo.PublicKey
	Mint   sgo.PublicKey
}

func buildCreateAssociatedAccount(args interface{}) (sgo.Instruction, error) {
	a, ok := args.(CreateAssociatedAccountArgs)
	if !ok {
		return nil, badArgs(KIND_ATA_CREATE, args)
	}
	b := sgotkn2.NewCreateInstructionBuilder()
	b.SetPayer(a.Payer)
	b.SetWallet(a.Wallet)
	b.SetMint(a.Mint)
	return b.Build(), nil
}
