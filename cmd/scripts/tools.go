package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	sgo "github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/script"
	"github.com/solpipe/solpipe-scripts/util"
)

type Balance struct {
	Mint  string `name:"mint" required:"" help:"the account ID of the mint"`
	Owner string `name:"owner" help:"the owner of the token account, defaults to the wallet"`
}

func (r *Balance) Run(kongCtx *CLIContext) error {
	clients := kongCtx.Clients
	owner, err := ownerOrWallet(clients, r.Owner)
	if err != nil {
		return err
	}
	mint, err := sgo.PublicKeyFromBase58(r.Mint)
	if err != nil {
		return err
	}
	rpcClient := clients.Rpc()
	mr, err := script.LoadMint(kongCtx.Ctx, rpcClient, mint, clients.Commitment())
	if err != nil {
		return err
	}
	accountId, a, err := script.GetTokenAccount(kongCtx.Ctx, rpcClient, owner, mint, clients.Commitment())
	if err != nil {
		return err
	}

	os.Stdout.WriteString(fmt.Sprintf("%s\n%d\n%s\n", accountId, a.Amount, util.FormatUnits(a.Amount, mr.Decimals)))
	return nil
}

func ownerOrWallet(clients *Clients, owner string) (sgo.PublicKey, error) {
	if 0 < len(owner) {
		return sgo.PublicKeyFromBase58(owner)
	}
	wallet, err := clients.Wallet()
	if err != nil {
		return sgo.PublicKey{}, err
	}
	return wallet.PublicKey(), nil
}

type Issue struct {
	Mint   string `name:"mint" required:"" help:"the file containing the output from the mint command that contains the metadata and authority key"`
	Owner  string `name:"owner" help:"the owner of the account that will be receiving tokens. aka the destination"`
	Amount string `name:"amount" short:"a" required:"" help:"the amount to issue in whole tokens"`
}

func (r *Issue) Run(kongCtx *CLIContext) error {
	clients := kongCtx.Clients
	mr, err := script.LoadMintFromFile(r.Mint)
	if err != nil {
		return err
	}
	if mr.Authority == nil {
		return errors.New("mint file has no authority key")
	}
	payer, err := clients.Wallet()
	if err != nil {
		return err
	}
	owner, err := ownerOrWallet(clients, r.Owner)
	if err != nil {
		return err
	}
	amount, err := util.ParseUnits(r.Amount, mr.Decimals)
	if err != nil {
		return err
	}

	_, err = run(kongCtx, "issue", func(ctx context.Context) (sgo.Signature, error) {
		s, err := clients.Script()
		if err != nil {
			return sgo.Signature{}, err
		}
		err = s.SetTx(payer)
		if err != nil {
			return sgo.Signature{}, err
		}
		accountId, created, err := s.EnsureTokenAccount(payer, owner, *mr.Id)
		if err != nil {
			return sgo.Signature{}, err
		}
		if created {
			os.Stdout.WriteString("no token account exists, creating one to receive tokens\n")
		} else if _, a, err := script.GetTokenAccount(ctx, s.Rpc(), owner, *mr.Id, clients.Commitment()); err == nil {
			os.Stdout.WriteString(fmt.Sprintf("Old balance: %d\n", a.Amount))
		}
		err = s.MintIssue(mr, owner, amount)
		if err != nil {
			return sgo.Signature{}, err
		}
		sig, err := s.FinishTx()
		if err != nil {
			return sig, err
		}
		_, a, err := script.GetTokenAccount(ctx, s.Rpc(), owner, *mr.Id, clients.Commitment())
		if err != nil {
			log.Debug(err)
		} else {
			os.Stdout.WriteString(fmt.Sprintf("New balance of %s: %d\n", accountId, a.Amount))
		}
		return sig, nil
	})
	return err
}

type Mint struct {
	Authority string `name:"authority" help:"key file of the account with administrative privileges, defaults to the wallet"`
	Decimal   uint8  `name:"decimal" short:"d" help:"the decimal count" default:"6"`
	Output    string `name:"out" short:"o" default:""`
}

func (r *Mint) Run(kongCtx *CLIContext) error {
	clients := kongCtx.Clients
	payer, err := clients.Wallet()
	if err != nil {
		return err
	}
	authority := payer
	if 0 < len(r.Authority) {
		authority, err = util.LoadKeypair(r.Authority)
		if err != nil {
			return err
		}
	}

	mintResult, err := run(kongCtx, "mint", func(ctx context.Context) (*script.MintResult, error) {
		s, err := clients.Script()
		if err != nil {
			return nil, err
		}
		err = s.SetTx(payer)
		if err != nil {
			return nil, err
		}
		mintResult, err := s.CreateMint(payer, authority, r.Decimal)
		if err != nil {
			return nil, err
		}
		_, err = s.FinishTx()
		if err != nil {
			return nil, err
		}
		return mintResult, nil
	})
	if err != nil {
		return err
	}
	log.Infof("mint=%s", mintResult.Id)

	if len(r.Output) == 0 {
		d, err := json.Marshal(mintResult)
		if err != nil {
			return err
		}
		os.Stdout.WriteString(string(d) + "\n")
		return nil
	}
	return mintResult.Save(r.Output)
}
