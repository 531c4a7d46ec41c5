package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gas-deposit/config"
	"gas-deposit/pkg/deposit"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Inspect a submitted deposit transaction",
	Long: `Look up a deposit transaction on the source chain by its hash.

Examples:
  gas-deposit status 0x1234...abcd
  gas-deposit status 0x1234...abcd --watch
  gas-deposit status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch until the transaction is mined")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	txHash := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	depositor, err := deposit.NewEVMDepositor(cfg.RPCUrl, cfg.PrivateKey, cfg.SourceChainID)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer depositor.Close()

	if watchStatus {
		watchTransaction(depositor, txHash, jsonOutput)
	} else {
		checkTransaction(depositor, txHash, jsonOutput)
	}
}

func checkTransaction(depositor *deposit.EVMDepositor, txHash string, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking transaction..."
		s.Start()
	}

	info, err := depositor.GetTransactionInfo(context.Background(), txHash)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTransaction(info)
	}
}

func watchTransaction(depositor *deposit.EVMDepositor, txHash string, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching transaction %s\n", color.CyanString(txHash))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	// Check immediately first
	if checkAndDisplayTransaction(depositor, txHash) {
		return
	}

	// Then check periodically until mined
	for range ticker.C {
		if checkAndDisplayTransaction(depositor, txHash) {
			return
		}
	}
}

// checkAndDisplayTransaction returns true once the transaction is mined
func checkAndDisplayTransaction(depositor *deposit.EVMDepositor, txHash string) bool {
	info, err := depositor.GetTransactionInfo(context.Background(), txHash)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	displayTransaction(info)

	pending, _ := info["pending"].(bool)
	return !pending
}

func displayTransaction(info map[string]interface{}) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Tx Hash:    %s\n", color.CyanString("%v", info["hash"]))
	fmt.Printf("  To:         %v\n", info["to"])
	fmt.Printf("  Value:      %v wei\n", info["value"])
	fmt.Printf("  Calldata:   %v bytes\n", info["data_size"])
	fmt.Printf("  Gas Limit:  %v\n", info["gas_limit"])
	fmt.Printf("  Gas Price:  %v\n", info["gas_price"])

	if pending, _ := info["pending"].(bool); pending {
		fmt.Printf("  Status:     %s\n", color.YellowString("PENDING"))
	} else {
		fmt.Printf("  Block:      %v\n", info["block_number"])
		fmt.Printf("  Gas Used:   %v\n", info["gas_used"])
		if status, ok := info["status"].(uint64); ok && status == 1 {
			fmt.Printf("  Status:     %s\n", color.GreenString("MINED"))
		} else {
			fmt.Printf("  Status:     %s\n", color.RedString("REVERTED"))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
