package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	sgo "github.com/gagliardetto/solana-go"
	"github.com/solpipe/solpipe-scripts/script"
	"github.com/solpipe/solpipe-scripts/util"
)

type Transfer struct {
	To     string `name:"to" required:"" help:"the receiving address"`
	Amount string `name:"amount" short:"a" xor:"amount" help:"amount in SOL"`
	Drain  bool   `name:"drain" xor:"amount" help:"send the whole balance less the fee"`
}

func (r *Transfer) Run(kongCtx *CLIContext) error {
	clients := kongCtx.Clients
	if len(r.Amount) == 0 && !r.Drain {
		return errors.New("one of --amount or --drain is needed")
	}
	destination, err := sgo.PublicKeyFromBase58(r.To)
	if err != nil {
		return err
	}
	wallet, err := clients.Wallet()
	if err != nil {
		return err
	}

	sig, err := run(kongCtx, "transfer", func(ctx context.Context) (sgo.Signature, error) {
		s, err := clients.Script()
		if err != nil {
			return sgo.Signature{}, err
		}
		if err = s.SetTx(wallet); err != nil {
			return sgo.Signature{}, err
		}
		if r.Drain {
			plan, sig, err := s.Drain(wallet, destination)
			if plan != nil {
				os.Stdout.WriteString(fmt.Sprintf("balance: %d lamports\nfee: %d lamports\nsending: %d lamports (%s SOL)\n", plan.Balance, plan.Fee, plan.Amount, util.FormatSol(plan.Amount)))
			}
			return sig, err
		}
		amount, err := util.ParseSol(r.Amount)
		if err != nil {
			return sgo.Signature{}, err
		}
		if err = s.Transfer(wallet, destination, amount); err != nil {
			return sgo.Signature{}, err
		}
		return s.FinishTx()
	})
	if err != nil {
		var ibe *script.InsufficientBalanceError
		if errors.As(err, &ibe) {
			os.Stderr.WriteString(fmt.Sprintf("short by %d lamports\n", ibe.Shortfall()))
		}
		return err
	}
	os.Stdout.WriteString(fmt.Sprintf("Success! Check out your TX here: %s\n", clients.Explorer(sig)))
	return nil
}
