package script

import (
	"fmt"

	sgo "github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/program"
)

type EnrollConfig struct {
	Program     sgo.PublicKey
	Collection  sgo.PublicKey
	CoreProgram sgo.PublicKey
	// Github, when set, sends an initialize transaction first.
	Github string
	// Rust submits the Rust track instead of the TypeScript track.
	Rust bool
}

type EnrollResult struct {
	Account    sgo.PublicKey
	Authority  sgo.PublicKey
	Mint       sgo.PublicKey
	Initialize *sgo.Signature
	Submit     sgo.Signature
}

// Enroll records a completion for user in the prereq program. The collection
// update authority is read before any instruction is built.
func (e1 *Script) Enroll(user sgo.PrivateKey, config EnrollConfig) (*EnrollResult, error) {
	authority, err := CollectionAuthority(e1.ctx, e1.rpc, config.Collection, e1.config.Commitment)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", config.Collection, err)
	}
	log.Infof("collection update authority=%s", authority)

	account, _, err := program.PrereqAccount(config.Program, user.PublicKey())
	if err != nil {
		return nil, err
	}
	log.Infof("prereq account=%s", account)
	ans := &EnrollResult{Account: account, Authority: authority}

	if 0 < len(config.Github) {
		if err = e1.SetTx(user); err != nil {
			return nil, err
		}
		err = e1.AppendBuilt(program.KIND_PREREQ_INITIALIZE, program.InitializeArgs{
			Program: config.Program,
			User:    user.PublicKey(),
			Github:  config.Github,
		})
		if err != nil {
			e1.reset()
			return nil, err
		}
		sig, err := e1.FinishTx()
		if err != nil {
			return nil, fmt.Errorf("initialize: %w", err)
		}
		ans.Initialize = &sig
	}

	mint, err := sgo.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	ans.Mint = mint.PublicKey()
	kind := program.KIND_PREREQ_SUBMIT_TS
	if config.Rust {
		kind = program.KIND_PREREQ_SUBMIT_RS
	}
	if err = e1.SetTx(user); err != nil {
		return nil, err
	}
	e1.AppendKey(mint)
	err = e1.AppendBuilt(kind, program.SubmitArgs{
		Program:     config.Program,
		User:        user.PublicKey(),
		Mint:        mint.PublicKey(),
		Collection:  config.Collection,
		Authority:   authority,
		CoreProgram: config.CoreProgram,
	})
	if err != nil {
		e1.reset()
		return nil, err
	}
	ans.Submit, err = e1.FinishTx()
	if err != nil {
		return ans, fmt.Errorf("submit: %w", err)
	}
	return ans, nil
}

// CreateMetadata appends a CreateMetadataAccountV3 instruction paid by the
// script payer, with the mint authority as update authority.
func (e1 *Script) CreateMetadata(mintAuthority sgo.PrivateKey, mint sgo.PublicKey, data program.DataV2, isMutable bool, metadataProgram sgo.PublicKey) (sgo.PublicKey, error) {
	if e1.txBuilder == nil {
		return sgo.PublicKey{}, ErrNoTxBuilder
	}
	if metadataProgram.IsZero() {
		metadataProgram = program.TokenMetadataProgramID
	}
	metadata, _, err := program.MetadataAccount(metadataProgram, mint)
	if err != nil {
		return sgo.PublicKey{}, err
	}
	e1.AppendKey(mintAuthority)
	err = e1.AppendBuilt(program.KIND_METADATA_CREATE, program.CreateMetadataArgs{
		Program:               metadataProgram,
		Mint:                  mint,
		MintAuthority:         mintAuthority.PublicKey(),
		Payer:                 e1.payer,
		UpdateAuthority:       mintAuthority.PublicKey(),
		UpdateAuthoritySigner: true,
		Data:                  data,
		IsMutable:             isMutable,
	})
	if err != nil {
		return sgo.PublicKey{}, err
	}
	return metadata, nil
}
