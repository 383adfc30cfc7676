package main

import (
	"context"
	"fmt"
	"os"

	sgo "github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/script"
)

type Authority struct {
	Program string `name:"program" short:"p" required:"" help:"the program id to inspect"`
}

func (r *Authority) Run(kongCtx *CLIContext) error {
	clients := kongCtx.Clients
	programId, err := sgo.PublicKeyFromBase58(r.Program)
	if err != nil {
		return err
	}

	result, err := run(kongCtx, "authority", func(ctx context.Context) (*script.UpgradeAuthorityResult, error) {
		return script.UpgradeAuthority(ctx, clients.Rpc(), programId, clients.Commitment())
	})
	if err != nil {
		return err
	}
	os.Stdout.WriteString(fmt.Sprintf("program: %s\nprogram data: %s\n", result.Program, result.ProgramData))
	if result.Immutable {
		os.Stdout.WriteString(fmt.Sprintf("upgrade authority: %s (immutable)\n", result.Authority))
		return nil
	}
	os.Stdout.WriteString(fmt.Sprintf("upgrade authority: %s\n", result.Authority))

	wallet, err := clients.Wallet()
	if err != nil {
		log.Debug(err)
		return nil
	}
	os.Stdout.WriteString(fmt.Sprintf("wallet is authority: %t\n", result.Authority.Equals(wallet.PublicKey())))
	return nil
}
