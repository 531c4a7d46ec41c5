package deposit

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"

	"gas-deposit/pkg/types"
)

// RefundExerciseDivisor halves the on-chain value relative to the quoted
// amount. The underfunded call cannot cover every destination, which forces
// the deposit contract's refund path on each run. Tests assert on this
// constant; it is a policy, not a tunable.
const RefundExerciseDivisor = 2

// PriceFetcher provides a best-effort asset/fiat exchange rate
type PriceFetcher interface {
	FetchPrice(ctx context.Context, asset, fiat string) types.PriceQuote
}

// CalldataFetcher negotiates deposit calldata with the quote service
type CalldataFetcher interface {
	FetchCalldata(ctx context.Context, req *types.DepositRequest) (*types.CalldataQuote, error)
}

// Executor drives one deposit run through its three stages: price lookup
// (best effort), quote negotiation (required), transaction submission
// (required). Stages run strictly in sequence; the quote depends on the
// configured amount and the submission depends on the quote's calldata.
type Executor struct {
	pricer    PriceFetcher
	quoter    CalldataFetcher
	depositor Depositor
	asset     string
	fiat      string
}

// NewExecutor creates an executor over the given collaborators. asset and
// fiat select the price feed lookup (e.g. "ethereum", "usd").
func NewExecutor(pricer PriceFetcher, quoter CalldataFetcher, depositor Depositor, asset, fiat string) *Executor {
	return &Executor{
		pricer:    pricer,
		quoter:    quoter,
		depositor: depositor,
		asset:     asset,
		fiat:      fiat,
	}
}

// Run executes a single deposit. A failed price lookup is tolerated; any
// failure in quote negotiation or submission aborts the run. Success means
// the node accepted the transaction, not that it was included in a block.
func (e *Executor) Run(ctx context.Context, req *types.DepositRequest) (*types.SubmittedTransaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Stage 1: price lookup, advisory only.
	price := e.pricer.FetchPrice(ctx, e.asset, e.fiat)
	amountEther := weiToEther(req.Amount)
	if price.UnitPrice > 0 {
		fmt.Printf("[deposit] depositing %g ETH (~%.2f %s) across %d chain(s)\n",
			amountEther, amountEther*price.UnitPrice, strings.ToUpper(e.fiat), len(req.DestinationChainIDs))
	} else {
		fmt.Printf("[deposit] depositing %g ETH across %d chain(s)\n",
			amountEther, len(req.DestinationChainIDs))
	}

	// Stage 2: quote negotiation, required.
	quote, err := e.quoter.FetchCalldata(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if quote.Calldata == "" {
		return nil, fmt.Errorf("quote returned empty calldata")
	}

	data, err := hexutil.Decode(quote.Calldata)
	if err != nil {
		return nil, fmt.Errorf("invalid calldata in quote: %w", err)
	}

	fmt.Printf("[deposit] received calldata (%d bytes)\n", len(data))

	// Stage 3: submission, required. The value is intentionally half the
	// quoted amount; see RefundExerciseDivisor.
	valueSent := new(big.Int).Div(req.Amount, big.NewInt(RefundExerciseDivisor))
	contract := common.HexToAddress(req.DepositContractAddress)

	hash, err := e.depositor.SendDeposit(ctx, contract, valueSent, data)
	if err != nil {
		return nil, fmt.Errorf("failed to send deposit: %w", err)
	}

	return &types.SubmittedTransaction{
		Hash:        hash,
		Destination: contract.Hex(),
		ValueSent:   valueSent,
		DataLength:  len(data),
	}, nil
}

// weiToEther converts a wei amount to the asset's base denomination
func weiToEther(wei *big.Int) float64 {
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether)).Float64()
	return f
}
