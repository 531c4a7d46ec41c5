package deposit

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Depositor is the signing capability the executor drives: it holds a
// keypair, exposes its address, and can sign and submit one transaction to
// the source chain.
type Depositor interface {
	Address() common.Address
	SendDeposit(ctx context.Context, to common.Address, value *big.Int, data []byte) (string, error)
	Close()
}

// ParseEther converts an amount in the asset's base denomination (e.g.
// "0.0001") to wei. Up to 18 decimal places are honored.
func ParseEther(amount string) (*big.Int, error) {
	amountFloat := new(big.Float)
	if _, ok := amountFloat.SetString(amount); !ok {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}

	weiPerEther := new(big.Float).SetInt(big.NewInt(1e18))
	amountWei := new(big.Float).Mul(amountFloat, weiPerEther)

	result := new(big.Int)
	amountWei.Int(result)

	return result, nil
}
