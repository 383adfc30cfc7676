package main

import (
	"errors"
	"os"

	"github.com/solpipe/solpipe-scripts/util"
)

type Base58 struct {
	Encode Base58Encode `cmd:"" name:"encode" help:"Print a key file as a base58 secret (wallet import format)."`
	Decode Base58Decode `cmd:"" name:"decode" help:"Turn a base58 secret into a key file byte array."`
}

type Base58Encode struct {
	File string `name:"file" short:"f" help:"the key file, defaults to the wallet"`
}

func (r *Base58Encode) Run(kongCtx *CLIContext) error {
	fp := r.File
	if len(fp) == 0 {
		fp = kongCtx.Clients.Config.Wallet.Path
	}
	key, err := util.LoadKeypair(fp)
	if err != nil {
		return err
	}
	s, err := util.KeypairToBase58(key)
	if err != nil {
		return err
	}
	os.Stdout.WriteString(s + "\n")
	return nil
}

type Base58Decode struct {
	Key    string `arg:"" help:"the base58 secret key"`
	Output string `name:"out" short:"o" default:"" help:"write the key file here instead of stdout"`
}

func (r *Base58Decode) Run(kongCtx *CLIContext) error {
	if len(r.Key) == 0 {
		return errors.New("no key")
	}
	key, err := util.KeypairFromBase58(r.Key)
	if err != nil {
		return err
	}
	if 0 < len(r.Output) {
		return util.SaveKeypair(r.Output, key)
	}
	d, err := util.KeypairToJSON(key)
	if err != nil {
		return err
	}
	os.Stdout.WriteString(string(d) + "\n")
	return nil
}
