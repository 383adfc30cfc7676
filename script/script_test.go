package script_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"

	sgo "github.com/gagliardetto/solana-go"
	sgorpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/solpipe/solpipe-scripts/program"
	"github.com/solpipe/solpipe-scripts/script"
	"github.com/stretchr/testify/require"
)

func feeOf(fee uint64) func(context.Context, string) (*sgorpc.GetFeeForMessageResult, error) {
	return func(context.Context, string) (*sgorpc.GetFeeForMessageResult, error) {
		return &sgorpc.GetFeeForMessageResult{Value: &fee}, nil
	}
}

func balanceOf(lamports uint64) func(context.Context, sgo.PublicKey) (*sgorpc.GetBalanceResult, error) {
	return func(context.Context, sgo.PublicKey) (*sgorpc.GetBalanceResult, error) {
		return &sgorpc.GetBalanceResult{Value: lamports}, nil
	}
}

func create(t *testing.T, m *mockRPCClient, c script.Confirmer, b program.Builder) *script.Script {
	t.Helper()
	s, err := script.Create(context.Background(), script.DefaultConfiguration(), m, c, b)
	require.NoError(t, err)
	return s
}

func TestDrain(t *testing.T) {
	source := sgo.NewWallet().PrivateKey
	destination := sgo.NewWallet().PublicKey()

	m := newMockRPC()
	m.GetBalanceFunc = balanceOf(1_000_000_000)
	var feeMsg string
	m.GetFeeForMessageFunc = func(_ context.Context, msg string) (*sgorpc.GetFeeForMessageResult, error) {
		feeMsg = msg
		fee := uint64(5000)
		return &sgorpc.GetFeeForMessageResult{Value: &fee}, nil
	}
	c := &mockConfirmer{}
	s := create(t, m, c, nil)
	require.NoError(t, s.SetTx(source))

	plan, sig, err := s.Drain(source, destination)
	require.NoError(t, err)
	require.Equal(t, uint64(999_995_000), plan.Amount)
	require.Equal(t, uint64(5000), plan.Fee)

	// the priced message and the sent transaction share one blockhash
	require.Equal(t, 1, m.Calls("GetLatestBlockhash"))
	raw, err := base64.StdEncoding.DecodeString(feeMsg)
	require.NoError(t, err)
	require.True(t, bytes.Contains(raw, plan.Blockhash[:]))

	sent := m.Sent()
	require.Len(t, sent, 1)
	tx := sent[0]
	require.Equal(t, plan.Blockhash, tx.Message.RecentBlockhash)
	require.Len(t, tx.Message.Instructions, 1)
	data := []byte(tx.Message.Instructions[0].Data)
	require.Equal(t, uint64(999_995_000), binary.LittleEndian.Uint64(data[4:12]))

	require.Equal(t, tx.Signatures[0], sig)
	require.Equal(t, []sgo.Signature{sig}, c.sigs)
}

func TestDrainInsufficientBalance(t *testing.T) {
	source := sgo.NewWallet().PrivateKey
	m := newMockRPC()
	m.GetBalanceFunc = balanceOf(3000)
	m.GetFeeForMessageFunc = feeOf(5000)
	s := create(t, m, &mockConfirmer{}, nil)
	require.NoError(t, s.SetTx(source))

	_, _, err := s.Drain(source, sgo.NewWallet().PublicKey())
	var ibe *script.InsufficientBalanceError
	require.ErrorAs(t, err, &ibe)
	require.Equal(t, uint64(2000), ibe.Shortfall())
	require.Equal(t, 0, m.Calls("SendTransaction"))
}

func TestDrainFeeUnknown(t *testing.T) {
	source := sgo.NewWallet().PrivateKey
	m := newMockRPC()
	m.GetBalanceFunc = balanceOf(1_000_000_000)
	m.GetFeeForMessageFunc = func(context.Context, string) (*sgorpc.GetFeeForMessageResult, error) {
		return &sgorpc.GetFeeForMessageResult{Value: nil}, nil
	}
	s := create(t, m, &mockConfirmer{}, nil)
	require.NoError(t, s.SetTx(source))

	_, _, err := s.Drain(source, sgo.NewWallet().PublicKey())
	require.ErrorIs(t, err, script.ErrFeeUnknown)
	require.Equal(t, 0, m.Calls("SendTransaction"))
}

func TestDrainZeroFee(t *testing.T) {
	source := sgo.NewWallet().PrivateKey
	m := newMockRPC()
	m.GetBalanceFunc = balanceOf(1_000_000_000)
	m.GetFeeForMessageFunc = feeOf(0)
	s := create(t, m, &mockConfirmer{}, nil)
	require.NoError(t, s.SetTx(source))

	plan, _, err := s.Drain(source, sgo.NewWallet().PublicKey())
	require.NoError(t, err)
	require.Equal(t, uint64(0), plan.Fee)
	require.Equal(t, uint64(1_000_000_000), plan.Amount)

	sent := m.Sent()
	require.Len(t, sent, 1)
	data := []byte(sent[0].Message.Instructions[0].Data)
	require.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[4:12]))
}

func TestDrainNoBalance(t *testing.T) {
	source := sgo.NewWallet().PrivateKey
	m := newMockRPC()
	m.GetBalanceFunc = func(context.Context, sgo.PublicKey) (*sgorpc.GetBalanceResult, error) {
		return nil, nil
	}
	m.GetFeeForMessageFunc = feeOf(5000)
	s := create(t, m, &mockConfirmer{}, nil)
	require.NoError(t, s.SetTx(source))

	_, _, err := s.Drain(source, sgo.NewWallet().PublicKey())
	require.Error(t, err)
	require.Equal(t, 0, m.Calls("SendTransaction"))

	_, err = s.FinishTx()
	require.ErrorIs(t, err, script.ErrNoTxBuilder)
}

func TestDrainSourceNotPayer(t *testing.T) {
	source := sgo.NewWallet().PrivateKey
	m := newMockRPC()
	m.GetBalanceFunc = balanceOf(1_000_000_000)
	m.GetFeeForMessageFunc = feeOf(5000)
	s := create(t, m, &mockConfirmer{}, nil)
	require.NoError(t, s.SetTx(sgo.NewWallet().PrivateKey))

	_, _, err := s.Drain(source, sgo.NewWallet().PublicKey())
	require.ErrorIs(t, err, script.ErrDrainPayer)
	require.Equal(t, 0, m.Calls("GetFeeForMessage"))
	require.Equal(t, 0, m.Calls("SendTransaction"))

	_, _, err = s.Drain(source, sgo.NewWallet().PublicKey())
	require.ErrorIs(t, err, script.ErrNoTxBuilder)
}

func TestComputeDrainAmount(t *testing.T) {
	zero := uint64(0)
	amount, err := script.ComputeDrainAmount(42, &zero)
	require.NoError(t, err)
	require.Equal(t, uint64(42), amount)

	exact := uint64(42)
	amount, err = script.ComputeDrainAmount(42, &exact)
	require.NoError(t, err)
	require.Equal(t, uint64(0), amount)

	_, err = script.ComputeDrainAmount(42, nil)
	require.ErrorIs(t, err, script.ErrFeeUnknown)
}

func TestFinishTxTooLarge(t *testing.T) {
	m := newMockRPC()
	s := create(t, m, &mockConfirmer{}, nil)
	require.NoError(t, s.SetTx(sgo.NewWallet().PrivateKey))
	require.NoError(t, s.AppendInstruction(bigInstruction{program: sgo.NewWallet().PublicKey(), size: 2000}))

	_, err := s.FinishTx()
	var tooLarge *script.TransactionTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	require.Less(t, script.MAX_TX_SIZE, tooLarge.Size)
	require.Equal(t, 0, m.Calls("SendTransaction"))

	_, err = s.FinishTx()
	require.ErrorIs(t, err, script.ErrNoTxBuilder)
}

func TestFinishTxMissingSigner(t *testing.T) {
	m := newMockRPC()
	s := create(t, m, &mockConfirmer{}, nil)
	require.NoError(t, s.SetTx(sgo.NewWallet().PrivateKey))
	err := s.AppendBuilt(program.KIND_SYSTEM_TRANSFER, program.TransferArgs{
		From:     sgo.NewWallet().PublicKey(),
		To:       sgo.NewWallet().PublicKey(),
		Lamports: 1,
	})
	require.NoError(t, err)
	_, err = s.FinishTx()
	require.Error(t, err)
	require.Equal(t, 0, m.Calls("SendTransaction"))
}

func TestFinishTxConfirmFailure(t *testing.T) {
	m := newMockRPC()
	c := &mockConfirmer{err: errors.New("blockhash expired")}
	s := create(t, m, c, nil)
	payer := sgo.NewWallet().PrivateKey
	require.NoError(t, s.SetTx(payer))
	require.NoError(t, s.Transfer(payer, sgo.NewWallet().PublicKey(), 10))

	_, err := s.FinishTx()
	require.ErrorIs(t, err, c.err)
	require.Equal(t, 1, m.Calls("SendTransaction"))
	require.Len(t, c.sigs, 1)
}

func TestFinishTxSendFailure(t *testing.T) {
	m := newMockRPC()
	sendErr := errors.New("node is behind")
	m.SendTransactionFunc = func(context.Context, *sgo.Transaction, sgorpc.TransactionOpts) (sgo.Signature, error) {
		return sgo.Signature{}, sendErr
	}
	c := &mockConfirmer{}
	s := create(t, m, c, nil)
	payer := sgo.NewWallet().PrivateKey
	require.NoError(t, s.SetTx(payer))
	require.NoError(t, s.Transfer(payer, sgo.NewWallet().PublicKey(), 10))

	_, err := s.FinishTx()
	require.ErrorIs(t, err, sendErr)
	require.Empty(t, c.sigs)
}

func TestUpgradeAuthority(t *testing.T) {
	programId := sgo.NewWallet().PublicKey()
	authority := sgo.NewWallet().PublicKey()
	programData, err := script.ProgramDataAccount(programId)
	require.NoError(t, err)

	data := make([]byte, 45+64)
	data[0] = 3
	data[12] = 1
	copy(data[13:45], authority[:])

	m := newMockRPC()
	m.GetAccountInfoFunc = func(_ context.Context, account sgo.PublicKey) (*sgorpc.GetAccountInfoResult, error) {
		if !account.Equals(programData) {
			return nil, sgorpc.ErrNotFound
		}
		return accountResult(data), nil
	}
	result, err := script.UpgradeAuthority(context.Background(), m, programId, sgorpc.CommitmentConfirmed)
	require.NoError(t, err)
	require.Equal(t, programData, result.ProgramData)
	require.Equal(t, authority, result.Authority)
	require.False(t, result.Immutable)

	_, err = script.UpgradeAuthority(context.Background(), m, sgo.NewWallet().PublicKey(), sgorpc.CommitmentConfirmed)
	require.ErrorIs(t, err, script.ErrAccountNotFound)
	var nf *script.AccountNotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestUpgradeAuthorityFixedOffset(t *testing.T) {
	programId := sgo.NewWallet().PublicKey()
	authority := sgo.NewWallet().PublicKey()
	data := make([]byte, 45+64)
	data[0] = 3
	copy(data[13:45], authority[:])

	m := newMockRPC()
	m.GetAccountInfoFunc = func(context.Context, sgo.PublicKey) (*sgorpc.GetAccountInfoResult, error) {
		return accountResult(data), nil
	}
	for _, tc := range []struct {
		tag       byte
		tail      byte
		immutable bool
	}{
		{tag: 1, tail: 0x00, immutable: false},
		{tag: 1, tail: 0xff, immutable: false},
		{tag: 0, tail: 0x00, immutable: true},
		{tag: 0, tail: 0xab, immutable: true},
		{tag: 2, tail: 0x11, immutable: true},
	} {
		data[12] = tc.tag
		for i := 45; i < len(data); i++ {
			data[i] = tc.tail
		}
		result, err := script.UpgradeAuthority(context.Background(), m, programId, sgorpc.CommitmentConfirmed)
		require.NoError(t, err)
		require.Equal(t, authority, result.Authority, "tag=%d tail=%x", tc.tag, tc.tail)
		require.Equal(t, tc.immutable, result.Immutable, "tag=%d", tc.tag)
	}
}

func TestFetchAccountEmpty(t *testing.T) {
	m := newMockRPC()
	m.GetAccountInfoFunc = func(context.Context, sgo.PublicKey) (*sgorpc.GetAccountInfoResult, error) {
		return accountResult([]byte{}), nil
	}
	id := sgo.NewWallet().PublicKey()
	_, _, err := script.FetchAccount(context.Background(), m, id, sgorpc.CommitmentConfirmed)
	var nf *script.AccountNotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, id, nf.Address)
}

func enrollConfig() script.EnrollConfig {
	return script.EnrollConfig{
		Program:     sgo.NewWallet().PublicKey(),
		Collection:  sgo.NewWallet().PublicKey(),
		CoreProgram: sgo.NewWallet().PublicKey(),
	}
}

func TestEnrollCollectionAbsent(t *testing.T) {
	m := newMockRPC()
	b := &countingBuilder{inner: program.Default()}
	s := create(t, m, &mockConfirmer{}, b)

	config := enrollConfig()
	config.Github = "solpipe"
	_, err := s.Enroll(sgo.NewWallet().PrivateKey, config)
	require.ErrorIs(t, err, script.ErrAccountNotFound)
	require.Empty(t, b.kinds)
	require.Equal(t, 0, m.Calls("GetLatestBlockhash"))
	require.Equal(t, 0, m.Calls("SendTransaction"))
}

func TestEnroll(t *testing.T) {
	user := sgo.NewWallet().PrivateKey
	authority := sgo.NewWallet().PublicKey()
	config := enrollConfig()
	config.Github = "solpipe"

	collection := make([]byte, 1+32+20)
	collection[0] = 5
	copy(collection[1:33], authority[:])

	m := newMockRPC()
	m.GetAccountInfoFunc = func(_ context.Context, account sgo.PublicKey) (*sgorpc.GetAccountInfoResult, error) {
		if account.Equals(config.Collection) {
			return accountResult(collection), nil
		}
		return nil, sgorpc.ErrNotFound
	}
	b := &countingBuilder{inner: program.Default()}
	c := &mockConfirmer{}
	s := create(t, m, c, b)

	result, err := s.Enroll(user, config)
	require.NoError(t, err)
	require.Equal(t, authority, result.Authority)
	require.NotNil(t, result.Initialize)
	require.Equal(t, []program.Kind{program.KIND_PREREQ_INITIALIZE, program.KIND_PREREQ_SUBMIT_TS}, b.kinds)

	expected, _, err := program.PrereqAccount(config.Program, user.PublicKey())
	require.NoError(t, err)
	require.Equal(t, expected, result.Account)

	sent := m.Sent()
	require.Len(t, sent, 2)
	submit := sent[1]
	require.Len(t, submit.Signatures, 2, "user and mint sign")
	require.Equal(t, result.Submit, submit.Signatures[0])
	require.True(t, hasKey(submit.Message.AccountKeys, authority))
	require.True(t, hasKey(submit.Message.AccountKeys, result.Mint))
	require.Len(t, c.sigs, 2)
}

func TestEnrollRust(t *testing.T) {
	config := enrollConfig()
	config.Rust = true
	m := newMockRPC()
	m.GetAccountInfoFunc = func(context.Context, sgo.PublicKey) (*sgorpc.GetAccountInfoResult, error) {
		return accountResult(make([]byte, 33)), nil
	}
	b := &countingBuilder{inner: program.Default()}
	s := create(t, m, &mockConfirmer{}, b)

	result, err := s.Enroll(sgo.NewWallet().PrivateKey, config)
	require.NoError(t, err)
	require.Nil(t, result.Initialize)
	require.Equal(t, []program.Kind{program.KIND_PREREQ_SUBMIT_RS}, b.kinds)
	require.Len(t, m.Sent(), 1)
}

func hasKey(list sgo.PublicKeySlice, key sgo.PublicKey) bool {
	for _, k := range list {
		if k.Equals(key) {
			return true
		}
	}
	return false
}

func TestAirdrop(t *testing.T) {
	m := newMockRPC()
	var expected sgo.Signature
	expected[0] = 7
	var got uint64
	m.RequestAirdropFunc = func(_ context.Context, _ sgo.PublicKey, lamports uint64) (sgo.Signature, error) {
		got = lamports
		return expected, nil
	}
	c := &mockConfirmer{}
	sig, err := script.Airdrop(context.Background(), m, c, sgo.NewWallet().PublicKey(), 2_000_000_000, sgorpc.CommitmentConfirmed)
	require.NoError(t, err)
	require.Equal(t, expected, sig)
	require.Equal(t, uint64(2_000_000_000), got)
	require.Equal(t, []sgo.Signature{expected}, c.sigs)
}

func TestRun(t *testing.T) {
	r := script.Run(context.Background(), "ok", func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, r.Err)
	require.Equal(t, 7, r.Value)
	require.Equal(t, "ok", r.Name)

	failure := errors.New("boom")
	r2 := script.Run(context.Background(), "fail", func(context.Context) (string, error) {
		return "", failure
	})
	require.ErrorIs(t, r2.Err, failure)
}

func programDataV2() program.DataV2 {
	return program.DataV2{
		Name:                 "DAKEC",
		Symbol:               "DAKEC",
		Uri:                  "https://example.com/metadata.json",
		SellerFeeBasisPoints: 500,
	}
}
