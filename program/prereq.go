package program

import (
	"bytes"
	"crypto/sha256"
	"errors"

	bin "github.com/gagliardetto/binary"
	sgo "github.com/gagliardetto/solana-go"
)

const PREREQ_SEED = "prereqs"

const (
	SUBMIT_TS = "submit_ts"
	SUBMIT_RS = "submit_rs"
)

// AnchorDiscriminator is the first 8 bytes of sha256("global:<name>").
func AnchorDiscriminator(name string) [8]byte {
	var d [8]byte
	h := sha256.Sum256([]byte("global:" + name))
	copy(d[:], h[:8])
	return d
}

// PrereqAccount derives the enrollment record of user.
func PrereqAccount(prereqProgram sgo.PublicKey, user sgo.PublicKey) (sgo.PublicKey, uint8, error) {
	return sgo.FindProgramAddress([][]byte{[]byte(PREREQ_SEED), user.Bytes()}, prereqProgram)
}

type InitializeArgs struct {
	Program sgo.PublicKey
	User    sgo.PublicKey
	Github  string
}

func buildInitialize(args interface{}) (sgo.Instruction, error) {
	a, ok := args.(InitializeArgs)
	if !ok {
		return nil, badArgs(KIND_PREREQ_INITIALIZE, args)
	}
	if len(a.Github) == 0 {
		return nil, errors.New("no github handle")
	}
	account, _, err := PrereqAccount(a.Program, a.User)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	d := AnchorDiscriminator("initialize")
	if err = enc.WriteBytes(d[:], false); err != nil {
		return nil, err
	}
	if err = enc.WriteString(a.Github); err != nil {
		return nil, err
	}
	return sgo.NewInstruction(a.Program, sgo.AccountMetaSlice{
		sgo.Meta(a.User).WRITE().SIGNER(),
		sgo.Meta(account).WRITE(),
		sgo.Meta(sgo.SystemProgramID),
	}, buf.Bytes()), nil
}

type SubmitArgs struct {
	Program     sgo.PublicKey
	User        sgo.PublicKey
	Mint        sgo.PublicKey
	Collection  sgo.PublicKey
	Authority   sgo.PublicKey
	CoreProgram sgo.PublicKey
}

func buildSubmit(name string) BuildFunc {
	kind := KIND_PREREQ_SUBMIT_TS
	if name == SUBMIT_RS {
		kind = KIND_PREREQ_SUBMIT_RS
	}
	return func(args interface{}) (sgo.Instruction, error) {
		a, ok := args.(SubmitArgs)
		if !ok {
			return nil, badArgs(kind, args)
		}
		account, _, err := PrereqAccount(a.Program, a.User)
		if err != nil {
			return nil, err
		}
		d := AnchorDiscriminator(name)
		return sgo.NewInstruction(a.Program, sgo.AccountMetaSlice{
			sgo.Meta(a.User).WRITE().SIGNER(),
			sgo.Meta(account).WRITE(),
			sgo.Meta(a.Mint).WRITE().SIGNER(),
			sgo.Meta(a.Collection).WRITE(),
			sgo.Meta(a.Authority),
			sgo.Meta(a.CoreProgram),
			sgo.Meta(sgo.SystemProgramID),
		}, d[:]), nil
	}
}
