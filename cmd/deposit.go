package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gas-deposit/config"
	"gas-deposit/pkg/client"
	"gas-deposit/pkg/deposit"
	"gas-deposit/pkg/types"
)

var (
	depositAmount   string
	depositWei      string
	depositChains   string
	depositTo       string
	refundFrom      string
	depositContract string
	sourceChain     uint64
	noConfirm       bool
)

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Send one gas deposit distributed across multiple chains",
	Long: `Negotiate deposit calldata with the gas quoting service and submit a
single signed transaction to its deposit contract on the source chain.

The on-chain value is always half of the quoted amount, which underfunds the
call and exercises the contract's refund path toward the --refund-to address.

Examples:
  gas-deposit deposit --amount 0.0001 --chains 42161,10
  gas-deposit deposit --wei 100000000000000 --chains 42161,10 --to 0xabc... --refund-to 0xdef...
  gas-deposit deposit --amount 0.001 --chains 10 --source-chain 1 --yes`,
	Run: runDeposit,
}

func init() {
	rootCmd.AddCommand(depositCmd)

	depositCmd.Flags().StringVar(&depositAmount, "amount", "", "Amount to quote, in the native asset (e.g. 0.0001)")
	depositCmd.Flags().StringVar(&depositWei, "wei", "", "Amount to quote, in wei (overrides --amount)")
	depositCmd.Flags().StringVar(&depositChains, "chains", "", "Destination chain ids, comma-separated (REQUIRED)")
	depositCmd.Flags().StringVar(&depositTo, "to", "", "Recipient on each destination chain (default: signer address)")
	depositCmd.Flags().StringVar(&refundFrom, "refund-to", "", "Address refunds route to when the deposit is underfunded (default: signer address)")
	depositCmd.Flags().StringVar(&depositContract, "contract", "", "Deposit contract address on the source chain (default: from config)")
	depositCmd.Flags().Uint64Var(&sourceChain, "source-chain", 0, "Source chain id (default: from config)")
	depositCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runDeposit(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	amount, err := parseDepositAmount()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	chainIDs, err := parseChainIDs(depositChains)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if sourceChain == 0 {
		sourceChain = cfg.SourceChainID
	}
	if depositContract == "" {
		depositContract = cfg.DepositContract
	}

	// Create the signer for the source chain
	depositor, err := deposit.NewEVMDepositor(cfg.RPCUrl, cfg.PrivateKey, sourceChain)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer depositor.Close()

	signerAddr := depositor.Address().Hex()
	if depositTo == "" {
		depositTo = signerAddr
	}
	if refundFrom == "" {
		refundFrom = cfg.RefundFrom
	}
	if refundFrom == "" {
		refundFrom = signerAddr
	}

	req := &types.DepositRequest{
		SourceChainID:          sourceChain,
		DestinationChainIDs:    chainIDs,
		Amount:                 amount,
		ToAddress:              depositTo,
		RefundFromAddress:      refundFrom,
		DepositContractAddress: depositContract,
	}

	if !jsonOutput {
		displayDepositPlan(req, signerAddr)
	}

	// Ask for confirmation
	if !noConfirm && !jsonOutput {
		if !confirmDeposit() {
			fmt.Println("\nDeposit cancelled.")
			os.Exit(0)
		}
	}

	executor := deposit.NewExecutor(
		client.NewPriceClient(cfg.PriceBaseURL),
		client.NewGasQuoteClient(cfg.QuoteBaseURL),
		depositor,
		cfg.PriceAsset,
		cfg.FiatCurrency,
	)

	result, err := executor.Run(context.Background(), req)
	if err != nil {
		displayDepositError(err, verbose)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"tx_hash":     result.Hash,
			"destination": result.Destination,
			"value_sent":  result.ValueSent.String(),
			"data_length": result.DataLength,
			"status":      "submitted",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayDepositResult(result)
	}
}

// parseDepositAmount resolves --wei / --amount into a wei value
func parseDepositAmount() (*big.Int, error) {
	if depositWei != "" {
		amount, ok := new(big.Int).SetString(depositWei, 10)
		if !ok {
			return nil, fmt.Errorf("invalid wei amount: %s", depositWei)
		}
		return amount, nil
	}

	if depositAmount == "" {
		return nil, fmt.Errorf("an amount is required. Use --amount (native units) or --wei")
	}

	return deposit.ParseEther(depositAmount)
}

// parseChainIDs parses a comma-separated list of destination chain ids.
// Order and duplicates are preserved; the quote service sees them as given.
func parseChainIDs(csv string) ([]uint64, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, fmt.Errorf("at least one destination chain is required. Use --chains (e.g. --chains 42161,10)")
	}

	parts := strings.Split(csv, ",")
	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid chain id: %q", strings.TrimSpace(part))
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func displayDepositPlan(req *types.DepositRequest, signerAddr string) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                    GAS DEPOSIT")
	fmt.Println(strings.Repeat("=", 60))

	chains := make([]string, 0, len(req.DestinationChainIDs))
	for _, id := range req.DestinationChainIDs {
		chains = append(chains, strconv.FormatUint(id, 10))
	}

	fmt.Printf("\n  Source Chain:      %d\n", req.SourceChainID)
	fmt.Printf("  Destinations:      %s\n", color.YellowString(strings.Join(chains, ", ")))
	fmt.Printf("  Quoted Amount:     %s wei\n", req.Amount.String())
	fmt.Printf("  Signer:            %s\n", color.CyanString(signerAddr))
	fmt.Printf("  Recipient:         %s\n", color.CyanString(req.ToAddress))
	fmt.Printf("  Refund To:         %s\n", color.CyanString(req.RefundFromAddress))
	fmt.Printf("  Deposit Contract:  %s\n", color.CyanString(req.DepositContractAddress))

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Yellow("Note: the transaction value will be half the quoted amount to")
	color.Yellow("exercise the contract's refund path.")
}

func displayDepositResult(result *types.SubmittedTransaction) {
	printSuccess(color.GreenString("✓ Deposit submitted!"))
	fmt.Printf("  Tx Hash:      %s\n", color.CyanString(result.Hash))
	fmt.Printf("  Contract:     %s\n", result.Destination)
	fmt.Printf("  Value Sent:   %s wei\n", result.ValueSent.String())
	fmt.Printf("  Calldata:     %d bytes\n", result.DataLength)

	fmt.Println("\nYou can inspect the transaction using:")
	color.Cyan("  gas-deposit status %s\n", result.Hash)
}

// displayDepositError unpacks negotiation failures so per-chain diagnostics
// reach the user; everything else prints as-is.
func displayDepositError(err error, verbose bool) {
	var negErr *client.NegotiationError
	if errors.As(err, &negErr) {
		color.Red("\nQuote negotiation failed (status %d)", negErr.StatusCode)
		if negErr.Reason != "" {
			fmt.Printf("  Reason: %s\n", negErr.Reason)
		}
		for _, d := range negErr.PerChain {
			fmt.Printf("  Chain %d: %s\n", d.ChainID, d.Message)
		}
		if negErr.Hint != "" {
			color.Yellow("\n%s\n", negErr.Hint)
		}
		if verbose && negErr.Body != "" {
			fmt.Printf("\nRaw response: %s\n", negErr.Body)
		}
		fmt.Println()
		return
	}

	printError(err)
}

func confirmDeposit() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with deposit? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
