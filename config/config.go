package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DEFAULT_CONFIG_FILE = "scripts.yaml"

// Config drives every script. Values are layered: struct defaults, then the
// yaml file, then environment variables (optionally from .env), then flags.
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Programs ProgramConfig  `yaml:"programs"`
	Uploader UploaderConfig `yaml:"uploader"`
	Log      LogConfig      `yaml:"log"`
}

type NetworkConfig struct {
	RpcUrl         string        `yaml:"rpc_url" default:"https://api.devnet.solana.com" validate:"required,url"`
	WsUrl          string        `yaml:"ws_url" default:"wss://api.devnet.solana.com" validate:"required,url"`
	Commitment     string        `yaml:"commitment" default:"confirmed" validate:"oneof=processed confirmed finalized"`
	Cluster        string        `yaml:"cluster" default:"devnet" validate:"oneof=devnet testnet mainnet-beta custom"`
	RateLimit      float64       `yaml:"rate_limit" default:"0" validate:"gte=0"`
	RateBurst      int           `yaml:"rate_burst" default:"5" validate:"gte=1"`
	ConfirmTimeout time.Duration `yaml:"confirm_timeout" default:"60s" validate:"gt=0"`
	SkipPreflight  bool          `yaml:"skip_preflight"`
	// LegacyTx sends legacy messages instead of v0.
	LegacyTx bool `yaml:"legacy_tx"`
}

type WalletConfig struct {
	Path string `yaml:"path" default:"dev-wallet.json" validate:"required"`
}

type ProgramConfig struct {
	Prereq        string `yaml:"prereq" default:"TRBZyQHB3m68FGeVsqTK39Wm4xejadjVhP5MAZaKWDM" validate:"required"`
	MplCore       string `yaml:"mpl_core" default:"CoREENxT6tW1HoK8ypY1SxRMZTcVPm7R94rH4PZNhX7d" validate:"required"`
	Collection    string `yaml:"collection" default:"5ebsp5RChCGK7ssRZMVMufgVZhd2kFbNaotcZ5UvytN2" validate:"required"`
	TokenMetadata string `yaml:"token_metadata" default:"metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s" validate:"required"`
}

type UploaderConfig struct {
	Kind     string `yaml:"kind" default:"file" validate:"oneof=http file"`
	Endpoint string `yaml:"endpoint" validate:"required_if=Kind http,omitempty,url"`
	Gateway  string `yaml:"gateway" default:"https://gateway.irys.xyz/" validate:"omitempty,url"`
	Dir      string `yaml:"dir" default:"uploads" validate:"required_if=Kind file"`
}

type LogConfig struct {
	Level        string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format       string `yaml:"format" default:"text" validate:"oneof=text json"`
	ReportCaller bool   `yaml:"report_caller"`
}

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	c := new(Config)
	if err := defaults.Set(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads fp (a missing file is fine when fp is the default name), then
// applies the environment. The result is not validated; call Validate after
// any flag overrides.
func Load(fp string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if len(fp) == 0 {
		fp = DEFAULT_CONFIG_FILE
	}
	data, err := os.ReadFile(fp)
	if errors.Is(err, os.ErrNotExist) && fp == DEFAULT_CONFIG_FILE {
		err = nil
	} else if err != nil {
		return nil, err
	} else {
		if err = yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", fp, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	c.ApplyEnv()
	return c, nil
}

// ApplyEnv overrides fields from RPC_URL, WS_URL, COMMITMENT, WALLET and LOG_LEVEL.
func (c *Config) ApplyEnv() {
	if v, present := os.LookupEnv("RPC_URL"); present {
		c.Network.RpcUrl = v
	}
	if v, present := os.LookupEnv("WS_URL"); present {
		c.Network.WsUrl = v
	}
	if v, present := os.LookupEnv("COMMITMENT"); present {
		c.Network.Commitment = v
	}
	if v, present := os.LookupEnv("WALLET"); present {
		c.Wallet.Path = v
	}
	if v, present := os.LookupEnv("LOG_LEVEL"); present {
		c.Log.Level = v
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	return validate.Struct(c)
}
