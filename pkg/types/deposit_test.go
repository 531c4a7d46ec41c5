package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *DepositRequest {
	return &DepositRequest{
		SourceChainID:          8453,
		DestinationChainIDs:    []uint64{42161, 10},
		Amount:                 big.NewInt(100000000000000),
		ToAddress:              "0x1111111111111111111111111111111111111111",
		RefundFromAddress:      "0x2222222222222222222222222222222222222222",
		DepositContractAddress: "0x391E7C679d29bD940d63be94AD22A25d25b5A604",
	}
}

func TestDepositRequest_Validate(t *testing.T) {
	require.NoError(t, validRequest().Validate())
}

func TestDepositRequest_Validate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *DepositRequest)
	}{
		{"nil amount", func(r *DepositRequest) { r.Amount = nil }},
		{"zero amount", func(r *DepositRequest) { r.Amount = big.NewInt(0) }},
		{"negative amount", func(r *DepositRequest) { r.Amount = big.NewInt(-1) }},
		{"no destinations", func(r *DepositRequest) { r.DestinationChainIDs = nil }},
		{"zero chain id", func(r *DepositRequest) { r.DestinationChainIDs = []uint64{42161, 0} }},
		{"missing recipient", func(r *DepositRequest) { r.ToAddress = "" }},
		{"missing refund address", func(r *DepositRequest) { r.RefundFromAddress = "" }},
		{"missing contract", func(r *DepositRequest) { r.DepositContractAddress = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			assert.Error(t, req.Validate())
		})
	}
}
