package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	bin "github.com/gagliardetto/binary"
	sgo "github.com/gagliardetto/solana-go"
	sgotkn "github.com/gagliardetto/solana-go/programs/token"
	sgorpc "github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/layout"
	"github.com/solpipe/solpipe-scripts/program"
)

type MintResult struct {
	Id        *sgo.PublicKey  `json:"id"`
	Decimals  uint8           `json:"decimals"`
	Supply    uint64          `json:"supply"`
	Authority *sgo.PrivateKey `json:"authority,omitempty"`
}

// LoadMint reads decimals and supply of an existing mint.
func LoadMint(ctx context.Context, rpcClient Rpc, mintId sgo.PublicKey, commitment sgorpc.CommitmentType) (*MintResult, error) {
	mr := new(MintResult)
	mr.Id = mintId.ToPointer()
	err := mr.Fill(ctx, rpcClient, commitment)
	if err != nil {
		return nil, err
	}
	return mr, nil
}

// download the account data defining the Mint
func (mr *MintResult) Fill(ctx context.Context, rpcClient Rpc, commitment sgorpc.CommitmentType) error {
	if mr == nil {
		return errors.New("blank mint result")
	}
	if mr.Id == nil {
		return errors.New("no id")
	}
	_, data, err := FetchAccount(ctx, rpcClient, *mr.Id, commitment)
	if err != nil {
		return err
	}
	decimals, err := layout.Mint.Uint64(data, layout.FIELD_DECIMALS)
	if err != nil {
		return err
	}
	mr.Decimals = uint8(decimals)
	mr.Supply, err = layout.Mint.Uint64(data, layout.FIELD_SUPPLY)
	return err
}

// save the Mint data to disk, including the authority private key
func (mr *MintResult) Save(fp string) error {
	f, err := os.OpenFile(fp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(mr)
}

// load the Mint data from disk, including the authority private key
func LoadMintFromFile(fp string) (*MintResult, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ans := new(MintResult)
	err = json.NewDecoder(f).Decode(ans)
	if err != nil {
		return nil, err
	}
	if ans.Id == nil {
		return nil, fmt.Errorf("%s: no mint id", fp)
	}
	return ans, nil
}

func (e1 *Script) CreateMint(payer sgo.PrivateKey, authority sgo.PrivateKey, decimals uint8) (*MintResult, error) {
	mint, err := sgo.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	return e1.CreateMintDirect(mint, payer, authority, decimals)
}

func (e1 *Script) CreateMintDirect(mint sgo.PrivateKey, payer sgo.PrivateKey, authority sgo.PrivateKey, decimals uint8) (*MintResult, error) {
	if e1.txBuilder == nil {
		return nil, ErrNoTxBuilder
	}
	err := e1.CreateAccount(layout.MINT_SIZE, mint, sgotkn.ProgramID, payer)
	if err != nil {
		return nil, err
	}
	e1.txBuilder.AddInstruction(sgotkn.NewInitializeMintInstructionBuilder().
		SetDecimals(decimals).
		SetMintAccount(mint.PublicKey()).
		SetMintAuthority(authority.PublicKey()).
		SetFreezeAuthority(authority.PublicKey()).
		Build())
	id := mint.PublicKey()
	auth := authority
	return &MintResult{
		Id:        &id,
		Decimals:  decimals,
		Authority: &auth,
	}, nil
}

func (e1 *Script) CreateTokenAccount(payer sgo.PrivateKey, owner sgo.PublicKey, mint sgo.PublicKey) error {
	if e1.txBuilder == nil {
		return ErrNoTxBuilder
	}
	e1.AppendKey(payer)
	return e1.AppendBuilt(program.KIND_ATA_CREATE, program.CreateAssociatedAccountArgs{
		Payer:  payer.PublicKey(),
		Wallet: owner,
		Mint:   mint,
	})
}

// GetTokenAccount reads the associated token account of owner for mint.
func GetTokenAccount(ctx context.Context, rpcClient Rpc, owner sgo.PublicKey, mint sgo.PublicKey, commitment sgorpc.CommitmentType) (sgo.PublicKey, *sgotkn.Account, error) {
	accountId, _, err := sgo.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return sgo.PublicKey{}, nil, err
	}
	_, data, err := FetchAccount(ctx, rpcClient, accountId, commitment)
	if err != nil {
		return accountId, nil, err
	}
	a := new(sgotkn.Account)
	err = bin.UnmarshalBorsh(a, data)
	if err != nil {
		return accountId, nil, err
	}
	return accountId, a, nil
}

// EnsureTokenAccount appends an ATA create instruction when owner has no
// token account for mint.
func (e1 *Script) EnsureTokenAccount(payer sgo.PrivateKey, owner sgo.PublicKey, mint sgo.PublicKey) (sgo.PublicKey, bool, error) {
	accountId, _, err := GetTokenAccount(e1.ctx, e1.rpc, owner, mint, e1.config.Commitment)
	if err == nil {
		return accountId, false, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return accountId, false, err
	}
	log.Debugf("creating token account %s for owner=%s", accountId, owner)
	err = e1.CreateTokenAccount(payer, owner, mint)
	if err != nil {
		return accountId, false, err
	}
	return accountId, true, nil
}

func (e1 *Script) MintIssue(mr *MintResult, owner sgo.PublicKey, amount uint64) error {
	if e1.txBuilder == nil {
		return ErrNoTxBuilder
	}
	if mr == nil {
		return errors.New("no mint result")
	}
	if mr.Id == nil {
		return errors.New("no mint id")
	}
	if mr.Authority == nil {
		return errors.New("no mint authority")
	}
	destination, _, err := sgo.FindAssociatedTokenAddress(owner, *mr.Id)
	if err != nil {
		return err
	}

	b := sgotkn.NewMintToInstructionBuilder()
	b.SetAmount(amount)
	b.SetAuthorityAccount(mr.Authority.PublicKey())
	e1.AppendKey(*mr.Authority)
	b.SetDestinationAccount(destination)
	b.SetMintAccount(*mr.Id)

	e1.txBuilder.AddInstruction(b.Build())
	return nil
}

// TransferToken moves amount base units of mint from the owner's ATA to the
// destination wallet's ATA, creating the latter when missing.
func (e1 *Script) TransferToken(owner sgo.PrivateKey, mint *MintResult, destination sgo.PublicKey, amount uint64) error {
	if e1.txBuilder == nil {
		return ErrNoTxBuilder
	}
	if mint == nil || mint.Id == nil {
		return errors.New("no mint")
	}
	source, _, err := GetTokenAccount(e1.ctx, e1.rpc, owner.PublicKey(), *mint.Id, e1.config.Commitment)
	if err != nil {
		return fmt.Errorf("source token account: %w", err)
	}
	target, _, err := e1.EnsureTokenAccount(owner, destination, *mint.Id)
	if err != nil {
		return err
	}
	e1.AppendKey(owner)
	return e1.AppendBuilt(program.KIND_TOKEN_TRANSFER, program.TokenTransferArgs{
		Source:      source,
		Mint:        *mint.Id,
		Destination: target,
		Owner:       owner.PublicKey(),
		Amount:      amount,
		Decimals:    mint.Decimals,
	})
}
