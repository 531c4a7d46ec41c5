package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gas-deposit",
	Short: "A CLI for topping up gas on many chains with one deposit",
	Long: `gas-deposit is a command-line tool that funds native gas on multiple
destination chains with a single transaction. It negotiates deposit calldata
with a multi-chain gas quoting service and submits one signed transaction to
the service's deposit contract on the source chain.

Examples:
  gas-deposit deposit --amount 0.0001 --chains 42161,10
  gas-deposit price
  gas-deposit chains
  gas-deposit status <tx-hash>`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
