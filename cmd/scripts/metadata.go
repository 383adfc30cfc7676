package main

import (
	"context"
	"fmt"
	"os"

	sgo "github.com/gagliardetto/solana-go"
	"github.com/solpipe/solpipe-scripts/program"
)

type Metadata struct {
	Mint      string `name:"mint" required:"" help:"the mint; the wallet must be its mint authority"`
	Name      string `name:"name" required:""`
	Symbol    string `name:"symbol" required:""`
	Uri       string `name:"uri" default:"" help:"the off-chain metadata JSON uri"`
	FeeBps    uint16 `name:"fee-bps" default:"50" help:"seller fee in basis points"`
	Immutable bool   `name:"immutable" help:"lock the metadata"`
}

func (r *Metadata) Run(kongCtx *CLIContext) error {
	clients := kongCtx.Clients
	mint, err := sgo.PublicKeyFromBase58(r.Mint)
	if err != nil {
		return err
	}
	metadataProgram, err := sgo.PublicKeyFromBase58(clients.Config.Programs.TokenMetadata)
	if err != nil {
		return fmt.Errorf("token metadata program: %w", err)
	}
	data := program.DataV2{
		Name:                 r.Name,
		Symbol:               r.Symbol,
		Uri:                  r.Uri,
		SellerFeeBasisPoints: r.FeeBps,
	}
	if err = data.Check(); err != nil {
		return err
	}
	wallet, err := clients.Wallet()
	if err != nil {
		return err
	}

	var account sgo.PublicKey
	sig, err := run(kongCtx, "metadata", func(ctx context.Context) (sgo.Signature, error) {
		s, err := clients.Script()
		if err != nil {
			return sgo.Signature{}, err
		}
		if err = s.SetTx(wallet); err != nil {
			return sgo.Signature{}, err
		}
		account, err = s.CreateMetadata(wallet, mint, data, !r.Immutable, metadataProgram)
		if err != nil {
			return sgo.Signature{}, err
		}
		return s.FinishTx()
	})
	if err != nil {
		return err
	}
	os.Stdout.WriteString(fmt.Sprintf("metadata account: %s\nSignature: %s\n", account, clients.Explorer(sig)))
	return nil
}
