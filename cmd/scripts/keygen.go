package main

import (
	"errors"
	"fmt"
	"os"

	sgo "github.com/gagliardetto/solana-go"
	"github.com/solpipe/solpipe-scripts/util"
)

type Keygen struct {
	Output string `name:"out" short:"o" default:"" help:"write the key file here instead of stdout"`
	Ssh    string `name:"ssh" help:"also write an OpenSSH key pair with this path prefix"`
}

func (r *Keygen) Run(kongCtx *CLIContext) error {
	key, err := sgo.NewRandomPrivateKey()
	if err != nil {
		return err
	}
	os.Stderr.WriteString(fmt.Sprintf("You've generated a new Solana wallet: %s\n", key.PublicKey()))

	if len(r.Output) == 0 {
		d, err := util.KeypairToJSON(key)
		if err != nil {
			return err
		}
		os.Stdout.WriteString(string(d) + "\n")
	} else {
		if err = util.SaveKeypair(r.Output, key); err != nil {
			return err
		}
		os.Stderr.WriteString(fmt.Sprintf("saved to %s\n", r.Output))
	}

	if len(r.Ssh) == 0 {
		return nil
	}
	private, public, err := util.ExportOpenSSH(key)
	if err != nil {
		return err
	}
	if _, err = os.Stat(r.Ssh); err == nil {
		return errors.New("ssh key file already exists")
	}
	if err = os.WriteFile(r.Ssh, private, 0600); err != nil {
		return err
	}
	return os.WriteFile(r.Ssh+".pub", public, 0644)
}
