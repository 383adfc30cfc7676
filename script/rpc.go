package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	sgo "github.com/gagliardetto/solana-go"
	sgorpc "github.com/gagliardetto/solana-go/rpc"
	sgows "github.com/gagliardetto/solana-go/rpc/ws"
	log "github.com/sirupsen/logrus"
)

// Rpc is the subset of *rpc.Client the scripts use.
type Rpc interface {
	GetLatestBlockhash(ctx context.Context, commitment sgorpc.CommitmentType) (*sgorpc.GetLatestBlockhashResult, error)
	GetBalance(ctx context.Context, account sgo.PublicKey, commitment sgorpc.CommitmentType) (*sgorpc.GetBalanceResult, error)
	GetFeeForMessage(ctx context.Context, message string, commitment sgorpc.CommitmentType) (*sgorpc.GetFeeForMessageResult, error)
	GetAccountInfoWithOpts(ctx context.Context, account sgo.PublicKey, opts *sgorpc.GetAccountInfoOpts) (*sgorpc.GetAccountInfoResult, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment sgorpc.CommitmentType) (uint64, error)
	SendTransactionWithOpts(ctx context.Context, transaction *sgo.Transaction, opts sgorpc.TransactionOpts) (sgo.Signature, error)
	RequestAirdrop(ctx context.Context, account sgo.PublicKey, lamports uint64, commitment sgorpc.CommitmentType) (sgo.Signature, error)
}

var _ Rpc = (*sgorpc.Client)(nil)

type Confirmer interface {
	Confirm(ctx context.Context, sig sgo.Signature) error
}

type wsConfirmer struct {
	ws         *sgows.Client
	commitment sgorpc.CommitmentType
	timeout    time.Duration
}

// WsConfirmer waits for signature notifications. A zero timeout waits until ctx is done.
func WsConfirmer(wsClient *sgows.Client, commitment sgorpc.CommitmentType, timeout time.Duration) Confirmer {
	return wsConfirmer{ws: wsClient, commitment: commitment, timeout: timeout}
}

func (wc wsConfirmer) Confirm(ctx context.Context, sig sgo.Signature) error {
	return WaitSig(ctx, wc.ws, sig, wc.commitment, wc.timeout)
}

func WaitSig(ctx context.Context, wsClient *sgows.Client, sig sgo.Signature, commitment sgorpc.CommitmentType, timeout time.Duration) error {
	if wsClient == nil {
		return errors.New("no ws client")
	}
	if 0 < timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	sub, err := wsClient.SignatureSubscribe(sig, commitment)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()
	log.Debugf("waiting for %s at %s", sig, commitment)
	x, err := sub.Recv(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("no confirmation for %s after %s: %w", sig, timeout, err)
		}
		return err
	}
	if x == nil {
		return errors.New("unknown result")
	}
	if x.Value.Err != nil {
		return fmt.Errorf("transaction %s failed: %+v", sig, x.Value.Err)
	}
	return nil
}
