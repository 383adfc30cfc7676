package main

import (
	"context"
	"fmt"
	"os"

	sgo "github.com/gagliardetto/solana-go"
	"github.com/solpipe/solpipe-scripts/script"
	"github.com/solpipe/solpipe-scripts/util"
)

type TokenTransfer struct {
	Mint   string `name:"mint" required:"" help:"the account ID of the mint"`
	To     string `name:"to" required:"" help:"the receiving wallet; its token account is created when missing"`
	Amount string `name:"amount" short:"a" required:"" help:"amount in whole tokens, scaled by the mint decimals"`
}

func (r *TokenTransfer) Run(kongCtx *CLIContext) error {
	clients := kongCtx.Clients
	mint, err := sgo.PublicKeyFromBase58(r.Mint)
	if err != nil {
		return err
	}
	destination, err := sgo.PublicKeyFromBase58(r.To)
	if err != nil {
		return err
	}
	wallet, err := clients.Wallet()
	if err != nil {
		return err
	}

	sig, err := run(kongCtx, "token-transfer", func(ctx context.Context) (sgo.Signature, error) {
		s, err := clients.Script()
		if err != nil {
			return sgo.Signature{}, err
		}
		mr, err := script.LoadMint(ctx, s.Rpc(), mint, clients.Commitment())
		if err != nil {
			return sgo.Signature{}, err
		}
		amount, err := util.ParseUnits(r.Amount, mr.Decimals)
		if err != nil {
			return sgo.Signature{}, err
		}
		if err = s.SetTx(wallet); err != nil {
			return sgo.Signature{}, err
		}
		if err = s.TransferToken(wallet, mr, destination, amount); err != nil {
			return sgo.Signature{}, err
		}
		return s.FinishTx()
	})
	if err != nil {
		return err
	}
	os.Stdout.WriteString(fmt.Sprintf("Success! Check out your TX here: %s\n", clients.Explorer(sig)))
	return nil
}
