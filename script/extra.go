package script

import (
	"context"
	"errors"
	"fmt"

	sgo "github.com/gagliardetto/solana-go"
	sgosys "github.com/gagliardetto/solana-go/programs/system"
	sgorpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/solpipe/solpipe-scripts/layout"
)

// FetchAccount returns the account at id. Absent and empty accounts are
// reported as *AccountNotFoundError.
func FetchAccount(ctx context.Context, rpcClient Rpc, id sgo.PublicKey, commitment sgorpc.CommitmentType) (*sgorpc.Account, []byte, error) {
	result, err := rpcClient.GetAccountInfoWithOpts(ctx, id, &sgorpc.GetAccountInfoOpts{
		Commitment: commitment,
		Encoding:   sgo.EncodingBase64,
	})
	if errors.Is(err, sgorpc.ErrNotFound) {
		return nil, nil, &AccountNotFoundError{Address: id}
	} else if err != nil {
		return nil, nil, fmt.Errorf("account %s: %w", id, err)
	}
	if result == nil || result.Value == nil || result.Value.Data == nil {
		return nil, nil, &AccountNotFoundError{Address: id}
	}
	data := result.Value.Data.GetBinary()
	if len(data) == 0 {
		return nil, nil, &AccountNotFoundError{Address: id}
	}
	return result.Value, data, nil
}

func ProgramDataAccount(programId sgo.PublicKey) (sgo.PublicKey, error) {
	id, _, err := sgo.FindProgramAddress([][]byte{programId.Bytes()}, sgo.BPFLoaderUpgradeableProgramID)
	return id, err
}

type UpgradeAuthorityResult struct {
	Program     sgo.PublicKey
	ProgramData sgo.PublicKey
	// Authority is bytes [13,45) of the program data, read whatever the
	// option tag says.
	Authority sgo.PublicKey
	// Immutable is set when the option tag before Authority is not 1.
	Immutable bool
}

func UpgradeAuthority(ctx context.Context, rpcClient Rpc, programId sgo.PublicKey, commitment sgorpc.CommitmentType) (*UpgradeAuthorityResult, error) {
	programData, err := ProgramDataAccount(programId)
	if err != nil {
		return nil, err
	}
	_, data, err := FetchAccount(ctx, rpcClient, programData, commitment)
	if err != nil {
		return nil, err
	}
	ans := &UpgradeAuthorityResult{Program: programId, ProgramData: programData}
	ans.Authority, err = layout.ProgramData.PublicKey(data, layout.FIELD_UPGRADE_AUTHORITY)
	if err != nil {
		return nil, err
	}
	tag, err := layout.ProgramData.Uint64(data, layout.FIELD_HAS_UPGRADE_AUTHORITY)
	if err != nil {
		return nil, err
	}
	ans.Immutable = tag != 1
	return ans, nil
}

func CollectionAuthority(ctx context.Context, rpcClient Rpc, collection sgo.PublicKey, commitment sgorpc.CommitmentType) (sgo.PublicKey, error) {
	_, data, err := FetchAccount(ctx, rpcClient, collection, commitment)
	if err != nil {
		return sgo.PublicKey{}, err
	}
	return layout.CoreCollection.PublicKey(data, layout.FIELD_UPDATE_AUTHORITY)
}

// provide space=x bytes to create an empty account
func (e1 *Script) CreateAccount(size uint64, account sgo.PrivateKey, owner sgo.PublicKey, payer sgo.PrivateKey) error {
	if e1.txBuilder == nil {
		return ErrNoTxBuilder
	}
	lamports, err := e1.rpc.GetMinimumBalanceForRentExemption(e1.ctx, size, e1.config.Commitment)
	if err != nil {
		return err
	}
	b := sgosys.NewCreateAccountInstructionBuilder()
	b.SetFundingAccount(payer.PublicKey())
	e1.AppendKey(payer)
	b.SetLamports(lamports)
	b.SetNewAccount(account.PublicKey())
	e1.AppendKey(account)
	b.SetOwner(owner)
	b.SetSpace(size)
	e1.txBuilder.AddInstruction(b.Build())
	return nil
}

func Airdrop(ctx context.Context, rpcClient Rpc, confirmer Confirmer, destination sgo.PublicKey, amount uint64, commitment sgorpc.CommitmentType) (sgo.Signature, error) {
	sig, err := rpcClient.RequestAirdrop(ctx, destination, amount, commitment)
	if err != nil {
		return sig, fmt.Errorf("airdrop: %w", err)
	}
	if confirmer == nil {
		return sig, nil
	}
	return sig, confirmer.Confirm(ctx, sig)
}

func Balance(ctx context.Context, rpcClient Rpc, account sgo.PublicKey, commitment sgorpc.CommitmentType) (uint64, error) {
	result, err := rpcClient.GetBalance(ctx, account, commitment)
	if err != nil {
		return 0, fmt.Errorf("balance of %s: %w", account, err)
	}
	if result == nil {
		return 0, errors.New("no balance returned")
	}
	return result.Value, nil
}
