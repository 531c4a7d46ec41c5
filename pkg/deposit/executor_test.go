package deposit

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gas-deposit/pkg/types"
)

type fakePricer struct {
	price float64
	calls int
}

func (f *fakePricer) FetchPrice(ctx context.Context, asset, fiat string) types.PriceQuote {
	f.calls++
	return types.PriceQuote{Asset: asset, FiatCurrency: fiat, UnitPrice: f.price}
}

type fakeQuoter struct {
	calldata string
	err      error
	calls    int
}

func (f *fakeQuoter) FetchCalldata(ctx context.Context, req *types.DepositRequest) (*types.CalldataQuote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &types.CalldataQuote{Calldata: f.calldata}, nil
}

type fakeDepositor struct {
	hash  string
	err   error
	calls int

	lastTo    common.Address
	lastValue *big.Int
	lastData  []byte
}

func (f *fakeDepositor) Address() common.Address {
	return common.HexToAddress("0x3333333333333333333333333333333333333333")
}

func (f *fakeDepositor) SendDeposit(ctx context.Context, to common.Address, value *big.Int, data []byte) (string, error) {
	f.calls++
	f.lastTo = to
	f.lastValue = value
	f.lastData = data
	if f.err != nil {
		return "", f.err
	}
	return f.hash, nil
}

func (f *fakeDepositor) Close() {}

func testRequest(amount int64) *types.DepositRequest {
	return &types.DepositRequest{
		SourceChainID:          8453,
		DestinationChainIDs:    []uint64{42161, 10},
		Amount:                 big.NewInt(amount),
		ToAddress:              "0x1111111111111111111111111111111111111111",
		RefundFromAddress:      "0x2222222222222222222222222222222222222222",
		DepositContractAddress: "0x391E7C679d29bD940d63be94AD22A25d25b5A604",
	}
}

func newTestExecutor(pricer *fakePricer, quoter *fakeQuoter, depositor *fakeDepositor) *Executor {
	return NewExecutor(pricer, quoter, depositor, "ethereum", "usd")
}

func TestExecutor_Run_EndToEnd(t *testing.T) {
	pricer := &fakePricer{price: 3000.00}
	quoter := &fakeQuoter{calldata: "0xabc123"}
	depositor := &fakeDepositor{hash: "0xdeadbeef"}

	executor := newTestExecutor(pricer, quoter, depositor)
	result, err := executor.Run(context.Background(), testRequest(100000000000000))

	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", result.Hash)
	assert.Equal(t, common.HexToAddress("0x391E7C679d29bD940d63be94AD22A25d25b5A604").Hex(), result.Destination)
	assert.Equal(t, "50000000000000", result.ValueSent.String())
	assert.Equal(t, 3, result.DataLength)

	assert.Equal(t, 1, pricer.calls)
	assert.Equal(t, 1, quoter.calls)
	assert.Equal(t, 1, depositor.calls)
	assert.Equal(t, "50000000000000", depositor.lastValue.String())
	assert.Equal(t, []byte{0xab, 0xc1, 0x23}, depositor.lastData)
}

func TestExecutor_Run_HalvesAmount(t *testing.T) {
	cases := []struct {
		name     string
		amount   int64
		expected string
	}{
		{"even amount", 100, "50"},
		{"odd amount drops remainder", 101, "50"},
		{"one wei", 1, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			depositor := &fakeDepositor{hash: "0x1"}
			executor := newTestExecutor(&fakePricer{}, &fakeQuoter{calldata: "0xab"}, depositor)

			result, err := executor.Run(context.Background(), testRequest(tc.amount))

			require.NoError(t, err)
			assert.Equal(t, tc.expected, result.ValueSent.String())
			assert.Equal(t, tc.expected, depositor.lastValue.String())
		})
	}
}

func TestExecutor_Run_PriceFailureIsNotFatal(t *testing.T) {
	depositor := &fakeDepositor{hash: "0x1"}
	executor := newTestExecutor(&fakePricer{price: 0}, &fakeQuoter{calldata: "0xab"}, depositor)

	result, err := executor.Run(context.Background(), testRequest(100))

	require.NoError(t, err)
	assert.Equal(t, 1, depositor.calls)
	assert.Equal(t, "0x1", result.Hash)
}

func TestExecutor_Run_QuoteFailureAbortsBeforeSubmission(t *testing.T) {
	depositor := &fakeDepositor{hash: "0x1"}
	quoter := &fakeQuoter{err: fmt.Errorf("quote rejected (status 400)")}
	executor := newTestExecutor(&fakePricer{price: 3000}, quoter, depositor)

	result, err := executor.Run(context.Background(), testRequest(100))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to get quote")
	assert.Zero(t, depositor.calls)
}

func TestExecutor_Run_EmptyCalldataAbortsBeforeSubmission(t *testing.T) {
	depositor := &fakeDepositor{hash: "0x1"}
	executor := newTestExecutor(&fakePricer{}, &fakeQuoter{calldata: ""}, depositor)

	result, err := executor.Run(context.Background(), testRequest(100))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Zero(t, depositor.calls)
}

func TestExecutor_Run_InvalidCalldataAbortsBeforeSubmission(t *testing.T) {
	depositor := &fakeDepositor{hash: "0x1"}
	executor := newTestExecutor(&fakePricer{}, &fakeQuoter{calldata: "not-hex"}, depositor)

	_, err := executor.Run(context.Background(), testRequest(100))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid calldata")
	assert.Zero(t, depositor.calls)
}

func TestExecutor_Run_SubmissionFailurePropagates(t *testing.T) {
	depositor := &fakeDepositor{err: fmt.Errorf("nonce too low")}
	executor := newTestExecutor(&fakePricer{}, &fakeQuoter{calldata: "0xab"}, depositor)

	result, err := executor.Run(context.Background(), testRequest(100))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "nonce too low")
}

func TestExecutor_Run_InvalidRequestRejectedUpFront(t *testing.T) {
	pricer := &fakePricer{}
	quoter := &fakeQuoter{calldata: "0xab"}
	depositor := &fakeDepositor{hash: "0x1"}
	executor := newTestExecutor(pricer, quoter, depositor)

	req := testRequest(100)
	req.DestinationChainIDs = nil

	_, err := executor.Run(context.Background(), req)

	require.Error(t, err)
	assert.Zero(t, pricer.calls)
	assert.Zero(t, quoter.calls)
	assert.Zero(t, depositor.calls)
}

func TestParseEther(t *testing.T) {
	amount, err := ParseEther("0.0001")
	require.NoError(t, err)
	assert.Equal(t, "100000000000000", amount.String())

	amount, err = ParseEther("1")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", amount.String())

	_, err = ParseEther("not-a-number")
	require.Error(t, err)
}
