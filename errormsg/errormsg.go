// Package errormsg renders errors for the console.
package errormsg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// Describe prints JSON-RPC errors as "code: message", followed by any
// program logs the node attached to a failed preflight.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return err.Error()
	}
	msg := fmt.Sprintf("%d: %s", rpcErr.Code, rpcErr.Message)
	if logs := Logs(rpcErr); 0 < len(logs) {
		msg = msg + "\n" + strings.Join(logs, "\n")
	}
	return msg
}

func Logs(rpcErr *jsonrpc.RPCError) []string {
	data, ok := rpcErr.Data.(map[string]interface{})
	if !ok {
		return nil
	}
	list, ok := data["logs"].([]interface{})
	if !ok {
		return nil
	}
	ans := make([]string, 0, len(list))
	for _, l := range list {
		if s, ok := l.(string); ok {
			ans = append(ans, s)
		}
	}
	return ans
}
