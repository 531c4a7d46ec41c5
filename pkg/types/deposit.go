package types

import (
	"fmt"
	"math/big"
)

// DepositRequest describes a single gas deposit run. It is built once by the
// caller and treated as read-only by every stage of the pipeline.
type DepositRequest struct {
	SourceChainID          uint64
	DestinationChainIDs    []uint64
	Amount                 *big.Int // smallest unit of the native asset (wei)
	ToAddress              string
	RefundFromAddress      string
	DepositContractAddress string
}

// Validate checks that the request is complete enough to quote and submit
func (r *DepositRequest) Validate() error {
	if r.Amount == nil || r.Amount.Sign() <= 0 {
		return fmt.Errorf("amount must be a positive integer in wei")
	}
	if len(r.DestinationChainIDs) == 0 {
		return fmt.Errorf("at least one destination chain is required")
	}
	for _, id := range r.DestinationChainIDs {
		if id == 0 {
			return fmt.Errorf("destination chain ids must be positive integers")
		}
	}
	if r.ToAddress == "" {
		return fmt.Errorf("recipient address is required")
	}
	if r.RefundFromAddress == "" {
		return fmt.Errorf("refund from address is required")
	}
	if r.DepositContractAddress == "" {
		return fmt.Errorf("deposit contract address is required")
	}
	return nil
}

// PriceQuote holds the current asset/fiat exchange rate. UnitPrice is zero
// when the price lookup failed; a zero quote is informational only and never
// stops a run.
type PriceQuote struct {
	Asset        string
	FiatCurrency string
	UnitPrice    float64
}

// CalldataQuote is the negotiated result from the quote service. Calldata is
// an opaque hex payload and is passed to the deposit contract unmodified.
type CalldataQuote struct {
	Calldata string
}

// SubmittedTransaction summarizes the on-chain submission of a deposit
type SubmittedTransaction struct {
	Hash        string
	Destination string
	ValueSent   *big.Int
	DataLength  int
}
