package util

import (
	"context"
	"errors"
	"net/http"

	sgorpc "github.com/gagliardetto/solana-go/rpc"
	sgows "github.com/gagliardetto/solana-go/rpc/ws"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type RpcConfig struct {
	Rpc     string
	Ws      string
	Headers http.Header
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	RateBurst int
}

func (config *RpcConfig) Check() error {
	if len(config.Rpc) == 0 {
		return errors.New("no rpc url")
	}
	if len(config.Ws) == 0 {
		return errors.New("no ws url")
	}
	return nil
}

func RpcClient(config *RpcConfig) *sgorpc.Client {
	if config.Headers == nil {
		config.Headers = http.Header{}
	}
	if 0 < config.RateLimit {
		burst := config.RateBurst
		if burst < 1 {
			burst = 1
		}
		log.Debugf("rpc rate limit=%f/s burst=%d", config.RateLimit, burst)
		return sgorpc.NewWithCustomRPCClient(sgorpc.NewWithLimiter(config.Rpc, rate.Limit(config.RateLimit), burst))
	}
	return sgorpc.NewWithHeaders(config.Rpc, HeaderMap(config.Headers))
}

// HeaderMap flattens h to the form the rpc client takes; the first value of
// each key wins.
func HeaderMap(h http.Header) map[string]string {
	m := make(map[string]string, len(h))
	for k, v := range h {
		if 0 < len(v) {
			m[k] = v[0]
		}
	}
	return m
}

func RpcConnect(ctx context.Context, config *RpcConfig) (*sgorpc.Client, *sgows.Client, error) {
	if config == nil {
		return nil, nil, errors.New("no rpc config")
	}
	if err := config.Check(); err != nil {
		return nil, nil, err
	}
	rpcClient := RpcClient(config)
	wsClient, err := sgows.ConnectWithOptions(ctx, config.Ws, &sgows.Options{HttpHeader: config.Headers})
	if err != nil {
		return nil, nil, err
	}
	return rpcClient, wsClient, nil
}
