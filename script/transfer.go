package script

import (
	"fmt"

	sgo "github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/program"
)

func (e1 *Script) Transfer(source sgo.PrivateKey, destination sgo.PublicKey, amount uint64) error {
	if e1.txBuilder == nil {
		return ErrNoTxBuilder
	}
	e1.AppendKey(source)
	return e1.AppendBuilt(program.KIND_SYSTEM_TRANSFER, program.TransferArgs{
		From:     source.PublicKey(),
		To:       destination,
		Lamports: amount,
	})
}

type DrainPlan struct {
	Balance   uint64
	Fee       uint64
	Amount    uint64
	Blockhash sgo.Hash
}

// ComputeDrainAmount is balance minus fee. A nil fee means the node could
// not price the message.
func ComputeDrainAmount(balance uint64, fee *uint64) (uint64, error) {
	if fee == nil {
		return 0, ErrFeeUnknown
	}
	if balance < *fee {
		return 0, &InsufficientBalanceError{Balance: balance, Fee: *fee}
	}
	return balance - *fee, nil
}

// PlanDrain prices a zero amount transfer from source to destination
// against the stored blockhash and works out how much can be sent.
func (e1 *Script) PlanDrain(source sgo.PublicKey, destination sgo.PublicKey) (*DrainPlan, error) {
	if e1.txBuilder == nil {
		return nil, ErrNoTxBuilder
	}
	if e1.blockhash == nil {
		if err := e1.SetBlockHash(); err != nil {
			return nil, err
		}
	}
	balance, err := Balance(e1.ctx, e1.rpc, source, e1.config.Commitment)
	if err != nil {
		return nil, err
	}
	dummy, err := e1.builder.BuildInstruction(program.KIND_SYSTEM_TRANSFER, program.TransferArgs{
		From: source, To: destination, Lamports: 0,
	})
	if err != nil {
		return nil, err
	}
	msg, err := e1.MessageBase64(dummy)
	if err != nil {
		return nil, err
	}
	feeResult, err := e1.rpc.GetFeeForMessage(e1.ctx, msg, e1.config.Commitment)
	if err != nil {
		return nil, fmt.Errorf("fee for message: %w", err)
	}
	var fee *uint64
	if feeResult != nil {
		fee = feeResult.Value
	}
	amount, err := ComputeDrainAmount(balance, fee)
	if err != nil {
		return nil, err
	}
	log.Debugf("drain balance=%d fee=%d amount=%d", balance, *fee, amount)
	return &DrainPlan{
		Balance:   balance,
		Fee:       *fee,
		Amount:    amount,
		Blockhash: *e1.blockhash,
	}, nil
}

// Drain sends the whole balance of source, less the fee, to destination.
// The tx must have been started with source as the payer.
func (e1 *Script) Drain(source sgo.PrivateKey, destination sgo.PublicKey) (*DrainPlan, sgo.Signature, error) {
	if e1.txBuilder == nil {
		return nil, sgo.Signature{}, ErrNoTxBuilder
	}
	if !source.PublicKey().Equals(e1.payer) {
		e1.reset()
		return nil, sgo.Signature{}, fmt.Errorf("%w: payer=%s source=%s", ErrDrainPayer, e1.payer, source.PublicKey())
	}
	plan, err := e1.PlanDrain(source.PublicKey(), destination)
	if err != nil {
		e1.reset()
		return nil, sgo.Signature{}, err
	}
	if err = e1.Transfer(source, destination, plan.Amount); err != nil {
		e1.reset()
		return plan, sgo.Signature{}, err
	}
	sig, err := e1.FinishTx()
	return plan, sig, err
}
