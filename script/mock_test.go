package script_test

import (
	"context"
	"errors"
	"sync"

	sgo "github.com/gagliardetto/solana-go"
	sgorpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/solpipe/solpipe-scripts/program"
)

type mockRPCClient struct {
	mu    sync.Mutex
	calls map[string]int
	sent  []*sgo.Transaction

	GetLatestBlockhashFunc    func(ctx context.Context, commitment sgorpc.CommitmentType) (*sgorpc.GetLatestBlockhashResult, error)
	GetBalanceFunc            func(ctx context.Context, account sgo.PublicKey) (*sgorpc.GetBalanceResult, error)
	GetFeeForMessageFunc      func(ctx context.Context, message string) (*sgorpc.GetFeeForMessageResult, error)
	GetAccountInfoFunc        func(ctx context.Context, account sgo.PublicKey) (*sgorpc.GetAccountInfoResult, error)
	SendTransactionFunc       func(ctx context.Context, tx *sgo.Transaction, opts sgorpc.TransactionOpts) (sgo.Signature, error)
	RequestAirdropFunc        func(ctx context.Context, account sgo.PublicKey, lamports uint64) (sgo.Signature, error)
	MinimumBalanceForRentFunc func(ctx context.Context, dataSize uint64) (uint64, error)
}

func newMockRPC() *mockRPCClient {
	blockhash := sgo.HashFromBytes([]byte("0123456789abcdef0123456789abcdef"))
	return &mockRPCClient{
		calls: make(map[string]int),
		GetLatestBlockhashFunc: func(context.Context, sgorpc.CommitmentType) (*sgorpc.GetLatestBlockhashResult, error) {
			return &sgorpc.GetLatestBlockhashResult{
				Value: &sgorpc.LatestBlockhashResult{Blockhash: blockhash, LastValidBlockHeight: 100},
			}, nil
		},
		SendTransactionFunc: func(_ context.Context, tx *sgo.Transaction, _ sgorpc.TransactionOpts) (sgo.Signature, error) {
			return tx.Signatures[0], nil
		},
	}
}

func (m *mockRPCClient) count(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
}

func (m *mockRPCClient) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockRPCClient) Sent() []*sgo.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

func (m *mockRPCClient) GetLatestBlockhash(ctx context.Context, commitment sgorpc.CommitmentType) (*sgorpc.GetLatestBlockhashResult, error) {
	m.count("GetLatestBlockhash")
	return m.GetLatestBlockhashFunc(ctx, commitment)
}

func (m *mockRPCClient) GetBalance(ctx context.Context, account sgo.PublicKey, _ sgorpc.CommitmentType) (*sgorpc.GetBalanceResult, error) {
	m.count("GetBalance")
	if m.GetBalanceFunc == nil {
		return nil, errors.New("GetBalance not mocked")
	}
	return m.GetBalanceFunc(ctx, account)
}

func (m *mockRPCClient) GetFeeForMessage(ctx context.Context, message string, _ sgorpc.CommitmentType) (*sgorpc.GetFeeForMessageResult, error) {
	m.count("GetFeeForMessage")
	if m.GetFeeForMessageFunc == nil {
		return nil, errors.New("GetFeeForMessage not mocked")
	}
	return m.GetFeeForMessageFunc(ctx, message)
}

func (m *mockRPCClient) GetAccountInfoWithOpts(ctx context.Context, account sgo.PublicKey, _ *sgorpc.GetAccountInfoOpts) (*sgorpc.GetAccountInfoResult, error) {
	m.count("GetAccountInfo")
	if m.GetAccountInfoFunc == nil {
		return nil, sgorpc.ErrNotFound
	}
	return m.GetAccountInfoFunc(ctx, account)
}

func (m *mockRPCClient) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, _ sgorpc.CommitmentType) (uint64, error) {
	m.count("GetMinimumBalanceForRentExemption")
	if m.MinimumBalanceForRentFunc == nil {
		return 1_461_600, nil
	}
	return m.MinimumBalanceForRentFunc(ctx, dataSize)
}

func (m *mockRPCClient) SendTransactionWithOpts(ctx context.Context, tx *sgo.Transaction, opts sgorpc.TransactionOpts) (sgo.Signature, error) {
	m.count("SendTransaction")
	m.mu.Lock()
	m.sent = append(m.sent, tx)
	m.mu.Unlock()
	return m.SendTransactionFunc(ctx, tx, opts)
}

func (m *mockRPCClient) RequestAirdrop(ctx context.Context, account sgo.PublicKey, lamports uint64, _ sgorpc.CommitmentType) (sgo.Signature, error) {
	m.count("RequestAirdrop")
	if m.RequestAirdropFunc == nil {
		return sgo.Signature{}, errors.New("RequestAirdrop not mocked")
	}
	return m.RequestAirdropFunc(ctx, account, lamports)
}

type mockConfirmer struct {
	err  error
	sigs []sgo.Signature
}

func (c *mockConfirmer) Confirm(_ context.Context, sig sgo.Signature) error {
	c.sigs = append(c.sigs, sig)
	return c.err
}

type countingBuilder struct {
	inner program.Builder
	kinds []program.Kind
}

func (b *countingBuilder) BuildInstruction(kind program.Kind, args interface{}) (sgo.Instruction, error) {
	b.kinds = append(b.kinds, kind)
	return b.inner.BuildInstruction(kind, args)
}

// bigInstruction carries a fixed amount of opaque data.
type bigInstruction struct {
	program sgo.PublicKey
	size    int
}

func (ix bigInstruction) ProgramID() sgo.PublicKey {
	return ix.program
}

func (ix bigInstruction) Accounts() []*sgo.AccountMeta {
	return []*sgo.AccountMeta{}
}

func (ix bigInstruction) Data() ([]byte, error) {
	return make([]byte, ix.size), nil
}

func accountResult(data []byte) *sgorpc.GetAccountInfoResult {
	return &sgorpc.GetAccountInfoResult{
		Value: &sgorpc.Account{
			Lamports: 1_000_000,
			Data:     sgorpc.DataBytesOrJSONFromBytes(data),
		},
	}
}
