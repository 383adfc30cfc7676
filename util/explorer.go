package util

import (
	"fmt"

	sgo "github.com/gagliardetto/solana-go"
)

func ExplorerTx(sig sgo.Signature, cluster string) string {
	return explorer("tx", sig.String(), cluster)
}

func ExplorerAddress(id sgo.PublicKey, cluster string) string {
	return explorer("address", id.String(), cluster)
}

func explorer(kind string, id string, cluster string) string {
	if len(cluster) == 0 || cluster == "mainnet-beta" {
		return fmt.Sprintf("https://explorer.solana.com/%s/%s", kind, id)
	}
	return fmt.Sprintf("https://explorer.solana.com/%s/%s?cluster=%s", kind, id, cluster)
}
