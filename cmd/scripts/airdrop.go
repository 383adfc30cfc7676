package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	sgo "github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/script"
	"github.com/solpipe/solpipe-scripts/util"
)

type Airdrop struct {
	Destination string `name:"to" short:"d" help:"the receiving address, defaults to the wallet"`
	Amount      string `name:"amount" short:"a" default:"2" help:"the amount to airdrop in SOL, not LAMPORTS"`
}

func (r *Airdrop) Run(kongCtx *CLIContext) error {
	clients := kongCtx.Clients

	var dst sgo.PublicKey
	if 0 < len(r.Destination) {
		var err error
		dst, err = sgo.PublicKeyFromBase58(r.Destination)
		if err != nil {
			return err
		}
	} else {
		wallet, err := clients.Wallet()
		if err != nil {
			return err
		}
		dst = wallet.PublicKey()
	}
	amt, err := util.ParseSol(r.Amount)
	if err != nil {
		return errors.New("amount must be positive SOL value")
	}

	_, err = run(kongCtx, "airdrop", func(ctx context.Context) (sgo.Signature, error) {
		rpcClient := clients.Rpc()
		old, err := script.Balance(ctx, rpcClient, dst, clients.Commitment())
		if err != nil {
			log.Debug(err)
		} else {
			os.Stderr.WriteString(fmt.Sprintf("old balance: %d lamports\n", old))
		}
		confirmer, err := clients.Confirmer()
		if err != nil {
			return sgo.Signature{}, err
		}
		sig, err := script.Airdrop(ctx, rpcClient, confirmer, dst, amt, clients.Commitment())
		if err != nil {
			return sig, err
		}
		os.Stdout.WriteString(fmt.Sprintf("Success! Check out your TX here: %s\n", clients.Explorer(sig)))
		balance, err := script.Balance(ctx, rpcClient, dst, clients.Commitment())
		if err != nil {
			return sig, err
		}
		os.Stderr.WriteString(fmt.Sprintf("new balance: %d lamports (%s SOL)\n", balance, util.FormatSol(balance)))
		return sig, nil
	})
	return err
}
