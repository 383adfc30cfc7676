package script

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	sgo "github.com/gagliardetto/solana-go"
	sgorpc "github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/program"
)

// MAX_TX_SIZE is the packet limit for a serialized transaction.
const MAX_TX_SIZE = 1232

type Configuration struct {
	Commitment    sgorpc.CommitmentType `json:"commitment"`
	SkipPreflight bool                  `json:"skip_preflight"`
	// Legacy sends legacy messages instead of v0.
	Legacy         bool          `json:"legacy"`
	MaxTxSize      int           `json:"max_tx_size"`
	ConfirmTimeout time.Duration `json:"confirm_timeout"`
}

func DefaultConfiguration() *Configuration {
	return &Configuration{
		Commitment:     sgorpc.CommitmentConfirmed,
		MaxTxSize:      MAX_TX_SIZE,
		ConfirmTimeout: 60 * time.Second,
	}
}

// Script assembles one transaction at a time: SetTx, append instructions and
// co-signers, then FinishTx.
type Script struct {
	ctx       context.Context
	rpc       Rpc
	confirmer Confirmer
	builder   program.Builder
	txBuilder *sgo.TransactionBuilder
	payer     sgo.PublicKey
	keyMap    map[string]sgo.PrivateKey
	blockhash *sgo.Hash
	config    *Configuration
}

// Create returns a script. A nil builder means program.Default().
func Create(ctx context.Context, config *Configuration, rpcClient Rpc, confirmer Confirmer, builder program.Builder) (*Script, error) {
	if config == nil {
		return nil, errors.New("no config")
	}
	if rpcClient == nil {
		return nil, errors.New("no rpc client")
	}
	if builder == nil {
		builder = program.Default()
	}
	if config.MaxTxSize <= 0 {
		config.MaxTxSize = MAX_TX_SIZE
	}
	if len(config.Commitment) == 0 {
		config.Commitment = sgorpc.CommitmentConfirmed
	}

	e1 := &Script{
		ctx: ctx, rpc: rpcClient, confirmer: confirmer, builder: builder,
		config: config,
	}

	return e1, nil
}

func (e1 *Script) Rpc() Rpc {
	return e1.rpc
}

func (e1 *Script) Config() *Configuration {
	return e1.config
}

func (e1 *Script) Builder() program.Builder {
	return e1.builder
}

func (e1 *Script) AppendKey(key sgo.PrivateKey) {
	e1.keyMap[key.PublicKey().String()] = key
}

func (e1 *Script) AppendInstruction(instruction sgo.Instruction) error {
	if e1.txBuilder == nil {
		return ErrNoTxBuilder
	}
	e1.txBuilder.AddInstruction(instruction)
	return nil
}

// AppendBuilt builds an instruction of the given kind and appends it.
func (e1 *Script) AppendBuilt(kind program.Kind, args interface{}) error {
	if e1.txBuilder == nil {
		return ErrNoTxBuilder
	}
	ix, err := e1.builder.BuildInstruction(kind, args)
	if err != nil {
		return fmt.Errorf("build %s: %w", kind, err)
	}
	e1.txBuilder.AddInstruction(ix)
	return nil
}

func (e1 *Script) SetTx(payer sgo.PrivateKey) error {
	if e1.txBuilder != nil {
		return errors.New("tx builder already started")
	}
	e1.txBuilder = sgo.NewTransactionBuilder()
	e1.payer = payer.PublicKey()
	e1.txBuilder.SetFeePayer(e1.payer)
	e1.keyMap = make(map[string]sgo.PrivateKey)
	e1.AppendKey(payer)
	e1.blockhash = nil

	return nil
}

func (e1 *Script) Payer() sgo.PublicKey {
	return e1.payer
}

// SetBlockHash fetches a blockhash and keeps it for every message built
// until the transaction is finished.
func (e1 *Script) SetBlockHash() (err error) {
	if e1.txBuilder == nil {
		return ErrNoTxBuilder
	}
	var rh *sgorpc.GetLatestBlockhashResult
	rh, err = e1.rpc.GetLatestBlockhash(e1.ctx, e1.config.Commitment)
	if err != nil {
		return fmt.Errorf("latest blockhash: %w", err)
	}
	if rh == nil || rh.Value == nil {
		return errors.New("no blockhash returned")
	}
	h := rh.Value.Blockhash
	e1.blockhash = &h
	e1.txBuilder.SetRecentBlockHash(h)
	log.Debugf("blockhash=%s", h)
	return
}

func (e1 *Script) BlockHash() (sgo.Hash, bool) {
	if e1.blockhash == nil {
		return sgo.Hash{}, false
	}
	return *e1.blockhash, true
}

// MessageBase64 compiles instructions into a message against the stored
// blockhash, as consumed by getFeeForMessage.
func (e1 *Script) MessageBase64(instructions ...sgo.Instruction) (string, error) {
	if e1.txBuilder == nil {
		return "", ErrNoTxBuilder
	}
	if e1.blockhash == nil {
		if err := e1.SetBlockHash(); err != nil {
			return "", err
		}
	}
	tx, err := sgo.NewTransaction(instructions, *e1.blockhash, sgo.TransactionPayer(e1.payer))
	if err != nil {
		return "", err
	}
	if !e1.config.Legacy {
		tx.Message.SetVersion(sgo.MessageVersionV0)
	}
	d, err := tx.Message.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(d), nil
}

func (e1 *Script) sign(tx *sgo.Transaction) error {
	_, err := tx.Sign(func(p sgo.PublicKey) *sgo.PrivateKey {
		x, present := e1.keyMap[p.String()]
		if present {
			return &x
		}
		return nil
	})
	return err
}

// Compile builds, signs and size checks the pending transaction without
// sending it.
func (e1 *Script) Compile() (*sgo.Transaction, error) {
	if e1.txBuilder == nil {
		return nil, ErrNoTxBuilder
	}
	if e1.blockhash == nil {
		if err := e1.SetBlockHash(); err != nil {
			return nil, err
		}
	}
	tx, err := e1.txBuilder.Build()
	if err != nil {
		return nil, err
	}
	if !e1.config.Legacy {
		tx.Message.SetVersion(sgo.MessageVersionV0)
	}
	if err = e1.sign(tx); err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	d, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if e1.config.MaxTxSize < len(d) {
		return nil, &TransactionTooLargeError{Size: len(d), Max: e1.config.MaxTxSize}
	}
	log.Debugf("tx size=%d bytes", len(d))
	return tx, nil
}

// ExportTx returns the signed transaction bytes instead of sending them.
func (e1 *Script) ExportTx() ([]byte, error) {
	tx, err := e1.Compile()
	if err != nil {
		return nil, err
	}
	return tx.MarshalBinary()
}

func (e1 *Script) reset() {
	e1.txBuilder = nil
	e1.keyMap = nil
	e1.blockhash = nil
}

// FinishTx compiles the transaction, sends it and waits for confirmation.
// The pending transaction is discarded whatever the outcome.
func (e1 *Script) FinishTx() (sig sgo.Signature, err error) {
	if e1.txBuilder == nil {
		err = ErrNoTxBuilder
		return
	}
	defer e1.reset()

	var tx *sgo.Transaction
	tx, err = e1.Compile()
	if err != nil {
		return
	}
	sig, err = e1.rpc.SendTransactionWithOpts(e1.ctx, tx, sgorpc.TransactionOpts{
		SkipPreflight:       e1.config.SkipPreflight,
		PreflightCommitment: e1.config.Commitment,
	})
	if err != nil {
		err = fmt.Errorf("send: %w", err)
		return
	}
	log.Debugf("sent tx=%s", sig)
	if e1.confirmer == nil {
		return
	}
	err = e1.confirmer.Confirm(e1.ctx, sig)
	if err != nil {
		err = fmt.Errorf("confirm %s: %w", sig, err)
		return
	}
	return
}
