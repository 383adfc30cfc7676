package util_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sgo "github.com/gagliardetto/solana-go"
	"github.com/solpipe/solpipe-scripts/util"
	"github.com/stretchr/testify/require"
)

func TestKeypairRoundTrip(t *testing.T) {
	key := sgo.NewWallet().PrivateKey
	fp := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, util.SaveKeypair(fp, key))

	data, err := os.ReadFile(fp)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "["), "key file must be a number array")

	loaded, err := util.LoadKeypair(fp)
	require.NoError(t, err)
	require.Equal(t, key.PublicKey(), loaded.PublicKey())

	require.Error(t, util.SaveKeypair(fp, key), "existing file must not be overwritten")
}

func TestKeypairRejectsBadInput(t *testing.T) {
	_, err := util.KeypairFromJSON([]byte(`[1,2,3]`))
	require.ErrorIs(t, err, util.ErrBadKeyLength)

	key := sgo.NewWallet().PrivateKey
	other := sgo.NewWallet().PrivateKey
	spliced := append(append([]byte{}, key[:32]...), other[32:]...)
	_, err = util.KeypairFromBytes(spliced)
	require.Error(t, err)
}

func TestBase58(t *testing.T) {
	key := sgo.NewWallet().PrivateKey
	s, err := util.KeypairToBase58(key)
	require.NoError(t, err)
	require.Equal(t, key.String(), s)
	back, err := util.KeypairFromBase58(s)
	require.NoError(t, err)
	require.Equal(t, []byte(key), []byte(back))
}

func TestExportOpenSSH(t *testing.T) {
	key := sgo.NewWallet().PrivateKey
	priv, pub, err := util.ExportOpenSSH(key)
	require.NoError(t, err)
	require.Contains(t, string(priv), "BEGIN OPENSSH PRIVATE KEY")
	require.True(t, strings.HasPrefix(string(pub), "ssh-ed25519 "))
}

func TestLamports(t *testing.T) {
	require.Equal(t, "1.5", util.FormatSol(1_500_000_000))
	require.Equal(t, "0.000005", util.FormatSol(5000))
	require.Equal(t, "5", util.FormatUnits(5_000_000, 6))

	l, err := util.ParseSol("0.25")
	require.NoError(t, err)
	require.Equal(t, uint64(250_000_000), l)

	_, err = util.ParseSol("0.0000000001")
	require.Error(t, err)
	_, err = util.ParseSol("-1")
	require.Error(t, err)
	_, err = util.ParseUnits("abc", 6)
	require.Error(t, err)
}

func TestExplorer(t *testing.T) {
	var sig sgo.Signature
	require.Equal(t, "https://explorer.solana.com/tx/"+sig.String()+"?cluster=devnet", util.ExplorerTx(sig, "devnet"))
	require.Equal(t, "https://explorer.solana.com/tx/"+sig.String(), util.ExplorerTx(sig, "mainnet-beta"))
}

func TestRpcClientHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Add("X-Extra", "one")
	h.Add("X-Extra", "two")
	m := util.HeaderMap(h)
	require.Equal(t, map[string]string{"Authorization": "Bearer abc", "X-Extra": "one"}, m)

	c := util.RpcClient(&util.RpcConfig{Rpc: "http://localhost:8899", Ws: "ws://localhost:8900", Headers: h})
	require.NotNil(t, c)
	c = util.RpcClient(&util.RpcConfig{Rpc: "http://localhost:8899", Ws: "ws://localhost:8900", RateLimit: 5})
	require.NotNil(t, c)
}
