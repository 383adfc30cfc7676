package script

import (
	"errors"
	"fmt"

	sgo "github.com/gagliardetto/solana-go"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrFeeUnknown = errors.New("fee for message is unknown")
var ErrNoTxBuilder = errors.New("tx builder is blank")
var ErrDrainPayer = errors.New("drain source must pay for the tx")

type AccountNotFoundError struct {
	Address sgo.PublicKey
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.Address)
}

func (e *AccountNotFoundError) Unwrap() error {
	return ErrAccountNotFound
}

type InsufficientBalanceError struct {
	Balance uint64
	Fee     uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("balance of %d lamports does not cover fee of %d lamports", e.Balance, e.Fee)
}

func (e *InsufficientBalanceError) Shortfall() uint64 {
	if e.Fee <= e.Balance {
		return 0
	}
	return e.Fee - e.Balance
}

type TransactionTooLargeError struct {
	Size int
	Max  int
}

func (e *TransactionTooLargeError) Error() string {
	return fmt.Sprintf("transaction is %d bytes, limit is %d", e.Size, e.Max)
}
