package deposit

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EVMDepositor signs and submits deposit transactions on an EVM source chain
type EVMDepositor struct {
	chainID    *big.Int
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// fallbackGasLimit is used when the node refuses to estimate gas for the
// deposit call (e.g. a quote priced against a different sender balance).
const fallbackGasLimit = uint64(400_000)

// NewEVMDepositor connects to the RPC endpoint and prepares the signing key
func NewEVMDepositor(rpcURL, privateKeyHex string, chainID uint64) (*EVMDepositor, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL is required")
	}
	if privateKeyHex == "" {
		return nil, fmt.Errorf("private key is required")
	}

	// Connect to the RPC endpoint
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	// Parse private key
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &EVMDepositor{
		chainID:    new(big.Int).SetUint64(chainID),
		client:     client,
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the signer address used as the transaction sender
func (e *EVMDepositor) Address() common.Address {
	return e.address
}

// SendDeposit signs and broadcasts a transaction carrying the quote calldata.
// It returns the transaction hash as soon as the node accepts the
// transaction; it does not wait for inclusion in a block.
func (e *EVMDepositor) SendDeposit(ctx context.Context, to common.Address, value *big.Int, data []byte) (string, error) {
	// Get nonce
	nonce, err := e.client.PendingNonceAt(ctx, e.address)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	// Get gas price
	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	// Check balance
	balance, err := e.client.BalanceAt(ctx, e.address, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get balance: %w", err)
	}
	if balance.Cmp(value) < 0 {
		return "", fmt.Errorf("insufficient balance: have %s wei, need %s wei", balance.String(), value.String())
	}

	// Estimate gas with a 20% buffer
	gasLimit := fallbackGasLimit
	msg := ethereum.CallMsg{
		From:  e.address,
		To:    &to,
		Value: value,
		Data:  data,
	}
	if estimatedGas, err := e.client.EstimateGas(ctx, msg); err == nil {
		gasLimit = estimatedGas * 120 / 100
	}

	// Create and sign transaction
	tx := types.NewTransaction(
		nonce,
		to,
		value,
		gasLimit,
		gasPrice,
		data,
	)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(e.chainID), e.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	// Send transaction
	if err := e.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash().Hex(), nil
}

// GetTransactionInfo retrieves information about a transaction
func (e *EVMDepositor) GetTransactionInfo(ctx context.Context, txHash string) (map[string]interface{}, error) {
	hash := common.HexToHash(txHash)

	// Get transaction
	tx, isPending, err := e.client.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	// Get receipt
	receipt, err := e.client.TransactionReceipt(ctx, hash)
	if err != nil && !isPending {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	info := map[string]interface{}{
		"hash":      tx.Hash().Hex(),
		"nonce":     tx.Nonce(),
		"gas_price": tx.GasPrice().String(),
		"gas_limit": tx.Gas(),
		"to":        "",
		"value":     tx.Value().String(),
		"data_size": len(tx.Data()),
		"pending":   isPending,
	}

	if tx.To() != nil {
		info["to"] = tx.To().Hex()
	}

	if receipt != nil {
		info["block_number"] = receipt.BlockNumber.Uint64()
		info["gas_used"] = receipt.GasUsed
		info["status"] = receipt.Status
	}

	return info, nil
}

// Close closes the client connection
func (e *EVMDepositor) Close() {
	if e.client != nil {
		e.client.Close()
	}
}
