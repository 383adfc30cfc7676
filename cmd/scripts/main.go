package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	sgo "github.com/gagliardetto/solana-go"
	sgorpc "github.com/gagliardetto/solana-go/rpc"
	sgows "github.com/gagliardetto/solana-go/rpc/ws"
	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/config"
	"github.com/solpipe/solpipe-scripts/logger"
	"github.com/solpipe/solpipe-scripts/script"
	"github.com/solpipe/solpipe-scripts/util"
)

type CLIContext struct {
	Ctx     context.Context
	Clients *Clients
}

type debugFlag bool

var cli struct {
	Verbose        debugFlag      `help:"Set logging to verbose." default:"false" short:"v"`
	Config         string         `name:"config" help:"Path to the yaml configuration file." default:"${config_file}"`
	RpcUrl         string         `name:"rpc" help:"Connection information to a Solana validator Rpc endpoint with format protocol://host:port (ie http://localhost:8899)"`
	WsUrl          string         `name:"ws" help:"Connection information to a Solana validator Websocket endpoint with format protocol://host:port (ie ws://localhost:8900)"`
	Wallet         string         `name:"wallet" short:"k" help:"Key file (JSON byte array) of the wallet that pays and signs."`
	Authority      Authority      `cmd:"" name:"authority" help:"Show the upgrade authority of a program."`
	Enroll         Enroll         `cmd:"" name:"enroll" help:"Enroll the wallet in the prerequisite program and submit a completion."`
	Transfer       Transfer       `cmd:"" name:"transfer" help:"Send SOL, or drain the whole balance less the fee."`
	Airdrop        Airdrop        `cmd:"" name:"airdrop" help:"Receive SOL for free. (does not work on mainnet)."`
	Keygen         Keygen         `cmd:"" name:"keygen" help:"Create a new keypair file."`
	Base58         Base58         `cmd:"" name:"base58" help:"Convert a key file to and from base58."`
	UploadImage    UploadImage    `cmd:"" name:"upload-image" help:"Upload an image and print its uri."`
	UploadMetadata UploadMetadata `cmd:"" name:"upload-metadata" help:"Upload NFT metadata JSON and print its uri."`
	Metadata       Metadata       `cmd:"" name:"metadata" help:"Create the on-chain metadata account of a mint."`
	Mint           Mint           `cmd:"" name:"mint" help:"Create a mint"`
	Issue          Issue          `cmd:"" name:"issue" help:"Issue tokens"`
	Balance        Balance        `cmd:"" name:"balance" help:"Get token balance"`
	TokenTransfer  TokenTransfer  `cmd:"" name:"token-transfer" help:"Transfer tokens between associated token accounts."`
}

// Clients are built on first use so that offline commands never dial out.
type Clients struct {
	ctx     context.Context
	verbose bool
	Config  *config.Config
	rpc     *sgorpc.Client
	ws      *sgows.Client
}

func (d debugFlag) AfterApply(clients *Clients) error {
	clients.verbose = bool(d)
	if d {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

func (c *Clients) Commitment() sgorpc.CommitmentType {
	return sgorpc.CommitmentType(c.Config.Network.Commitment)
}

func (c *Clients) rpcConfig() *util.RpcConfig {
	return &util.RpcConfig{
		Rpc:       c.Config.Network.RpcUrl,
		Ws:        c.Config.Network.WsUrl,
		RateLimit: c.Config.Network.RateLimit,
		RateBurst: c.Config.Network.RateBurst,
	}
}

func (c *Clients) Rpc() *sgorpc.Client {
	if c.rpc == nil {
		log.Infof("rpc url=%s", c.Config.Network.RpcUrl)
		c.rpc = util.RpcClient(c.rpcConfig())
	}
	return c.rpc
}

func (c *Clients) Ws() (*sgows.Client, error) {
	if c.ws != nil {
		return c.ws, nil
	}
	log.Infof("ws url=%s", c.Config.Network.WsUrl)
	var err error
	_, c.ws, err = util.RpcConnect(c.ctx, c.rpcConfig())
	if err != nil {
		return nil, err
	}
	return c.ws, nil
}

func (c *Clients) Confirmer() (script.Confirmer, error) {
	wsClient, err := c.Ws()
	if err != nil {
		return nil, err
	}
	return script.WsConfirmer(wsClient, c.Commitment(), c.Config.Network.ConfirmTimeout), nil
}

func (c *Clients) Script() (*script.Script, error) {
	confirmer, err := c.Confirmer()
	if err != nil {
		return nil, err
	}
	return script.Create(c.ctx, &script.Configuration{
		Commitment:     c.Commitment(),
		SkipPreflight:  c.Config.Network.SkipPreflight,
		Legacy:         c.Config.Network.LegacyTx,
		MaxTxSize:      script.MAX_TX_SIZE,
		ConfirmTimeout: c.Config.Network.ConfirmTimeout,
	}, c.Rpc(), confirmer, nil)
}

func (c *Clients) Wallet() (sgo.PrivateKey, error) {
	key, err := util.LoadKeypair(c.Config.Wallet.Path)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", c.Config.Wallet.Path, err)
	}
	log.Debugf("wallet=%s", key.PublicKey())
	return key, nil
}

func (c *Clients) Explorer(sig sgo.Signature) string {
	return util.ExplorerTx(sig, c.Config.Network.Cluster)
}

func (c *Clients) Close() {
	if c.ws != nil {
		c.ws.Close()
	}
}

func setup(c *Clients) error {
	conf, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if 0 < len(cli.RpcUrl) {
		conf.Network.RpcUrl = cli.RpcUrl
	}
	if 0 < len(cli.WsUrl) {
		conf.Network.WsUrl = cli.WsUrl
	}
	if 0 < len(cli.Wallet) {
		conf.Wallet.Path = cli.Wallet
	}
	if c.verbose {
		conf.Log.Level = "debug"
	}
	if err = conf.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err = logger.Setup(conf.Log.Level, conf.Log.Format, conf.Log.ReportCaller); err != nil {
		return err
	}
	c.Config = conf
	return nil
}

func main() {

	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, syscall.SIGTERM, syscall.SIGINT)
	ctx, cancel := context.WithCancel(context.Background())
	go loopSignal(ctx, cancel, signalC)
	clients := &Clients{ctx: ctx}
	kongCtx := kong.Parse(&cli, kong.Bind(clients), kong.Vars{"config_file": config.DEFAULT_CONFIG_FILE})

	err := setup(clients)
	if err == nil {
		err = kongCtx.Run(&CLIContext{Ctx: ctx, Clients: clients})
	}
	clients.Close()
	if errors.Is(err, context.Canceled) {
		log.Debug(err)
		err = nil
	}

	kongCtx.FatalIfErrorf(err)
}

// run wraps a command body so failures are logged with rpc detail.
func run[T any](kongCtx *CLIContext, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	r := script.Run(kongCtx.Ctx, name, fn)
	return r.Value, r.Err
}

func loopSignal(ctx context.Context, cancel context.CancelFunc, signalC <-chan os.Signal) {
	defer cancel()
	doneC := ctx.Done()
	select {
	case <-doneC:
	case s := <-signalC:
		os.Stderr.WriteString(fmt.Sprintf("%s\n", s.String()))
	}
}
