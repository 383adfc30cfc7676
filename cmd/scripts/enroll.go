package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	sgo "github.com/gagliardetto/solana-go"
	"github.com/solpipe/solpipe-scripts/script"
)

type Enroll struct {
	Init   bool   `name:"init" help:"send the initialize instruction first"`
	Github string `name:"github" help:"github handle recorded by initialize"`
	Rust   bool   `name:"rust" help:"submit the Rust track instead of the TypeScript track"`
}

func (r *Enroll) Run(kongCtx *CLIContext) error {
	clients := kongCtx.Clients
	if r.Init && len(r.Github) == 0 {
		return errors.New("--init needs --github")
	}
	programs := clients.Config.Programs
	config := script.EnrollConfig{Rust: r.Rust}
	var err error
	if config.Program, err = sgo.PublicKeyFromBase58(programs.Prereq); err != nil {
		return fmt.Errorf("prereq program: %w", err)
	}
	if config.Collection, err = sgo.PublicKeyFromBase58(programs.Collection); err != nil {
		return fmt.Errorf("collection: %w", err)
	}
	if config.CoreProgram, err = sgo.PublicKeyFromBase58(programs.MplCore); err != nil {
		return fmt.Errorf("mpl core program: %w", err)
	}
	if r.Init {
		config.Github = r.Github
	}
	wallet, err := clients.Wallet()
	if err != nil {
		return err
	}
	os.Stdout.WriteString(fmt.Sprintf("wallet: %s\n", wallet.PublicKey()))

	result, err := run(kongCtx, "enroll", func(ctx context.Context) (*script.EnrollResult, error) {
		s, err := clients.Script()
		if err != nil {
			return nil, err
		}
		return s.Enroll(wallet, config)
	})
	if result != nil {
		os.Stdout.WriteString(fmt.Sprintf("prereq account: %s\ncollection update authority: %s\nmint: %s\n", result.Account, result.Authority, result.Mint))
		if result.Initialize != nil {
			os.Stdout.WriteString(fmt.Sprintf("initialize: %s\n", clients.Explorer(*result.Initialize)))
		}
	}
	if err != nil {
		return err
	}
	os.Stdout.WriteString(fmt.Sprintf("Submit Success! Check out your TX here: %s\n", clients.Explorer(result.Submit)))
	return nil
}
