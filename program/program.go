// Package program builds instructions for the on-chain programs the scripts
// talk to. Callers go through Builder so that transaction assembly can be
// exercised with any instruction source.
package program

import (
	"errors"
	"fmt"
	"sort"

	sgo "github.com/gagliardetto/solana-go"
)

type Kind string

const (
	KIND_SYSTEM_TRANSFER   Kind = "system/transfer"
	KIND_TOKEN_TRANSFER    Kind = "token/transfer-checked"
	KIND_ATA_CREATE        Kind = "ata/create"
	KIND_PREREQ_INITIALIZE Kind = "prereq/initialize"
	KIND_PREREQ_SUBMIT_TS  Kind = "prereq/submit-ts"
	KIND_PREREQ_SUBMIT_RS  Kind = "prereq/submit-rs"
	KIND_METADATA_CREATE   Kind = "metadata/create-v3"
)

var ErrUnknownKind = errors.New("unknown instruction kind")
var ErrBadArgs = errors.New("bad instruction arguments")

type Builder interface {
	BuildInstruction(kind Kind, args interface{}) (sgo.Instruction, error)
}

type BuildFunc func(args interface{}) (sgo.Instruction, error)

type Registry struct {
	m map[Kind]BuildFunc
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[Kind]BuildFunc)}
}

func (r *Registry) Register(kind Kind, fn BuildFunc) error {
	if fn == nil {
		return errors.New("no build function")
	}
	if _, present := r.m[kind]; present {
		return fmt.Errorf("kind %s already registered", kind)
	}
	r.m[kind] = fn
	return nil
}

func (r *Registry) BuildInstruction(kind Kind, args interface{}) (sgo.Instruction, error) {
	fn, present := r.m[kind]
	if !present {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return fn(args)
}

func (r *Registry) Kinds() []Kind {
	list := make([]Kind, 0, len(r.m))
	for k := range r.m {
		list = append(list, k)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// Default registers every builder in this package.
func Default() *Registry {
	r := NewRegistry()
	for kind, fn := range map[Kind]BuildFunc{
		KIND_SYSTEM_TRANSFER:   buildTransfer,
		KIND_TOKEN_TRANSFER:    buildTokenTransfer,
		KIND_ATA_CREATE:        buildCreateAssociatedAccount,
		KIND_PREREQ_INITIALIZE: buildInitialize,
		KIND_PREREQ_SUBMIT_TS:  buildSubmit(SUBMIT_TS),
		KIND_PREREQ_SUBMIT_RS:  buildSubmit(SUBMIT_RS),
		KIND_METADATA_CREATE:   buildCreateMetadata,
	} {
		if err := r.Register(kind, fn); err != nil {
			panic(err)
		}
	}
	return r
}

func badArgs(kind Kind, args interface{}) error {
	return fmt.Errorf("%w: %s does not take %T", ErrBadArgs, kind, args)
}
