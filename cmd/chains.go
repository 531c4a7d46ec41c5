package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gas-deposit/config"
	"gas-deposit/pkg/client"
)

var filterChainSymbol string

var chainsCmd = &cobra.Command{
	Use:     "chains",
	Aliases: []string{"list-chains", "ls"},
	Short:   "List chains supported by the gas quoting service",
	Long: `List all chains the quoting service can deliver gas to.

Examples:
  gas-deposit chains
  gas-deposit chains --symbol ETH`,
	Run: runListChains,
}

func init() {
	rootCmd.AddCommand(chainsCmd)

	chainsCmd.Flags().StringVar(&filterChainSymbol, "symbol", "", "Filter by native asset symbol")
}

func runListChains(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// The chain list is public; defaults suffice without full configuration.
	baseURL := ""
	if cfg, err := config.Load(); err == nil {
		baseURL = cfg.QuoteBaseURL
	}

	quoteClient := client.NewGasQuoteClient(baseURL)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching supported chains..."
		s.Start()
	}

	chains, err := quoteClient.ListChains(context.Background())
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Apply filter
	if filterChainSymbol != "" {
		var filtered []client.ChainInfo
		for _, chain := range chains {
			if strings.EqualFold(chain.Symbol, filterChainSymbol) {
				filtered = append(filtered, chain)
			}
		}
		chains = filtered
	}

	// Output
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(chains, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayChains(chains)
	}
}

func displayChains(chains []client.ChainInfo) {
	if len(chains) == 0 {
		fmt.Println("\nNo chains found matching the criteria.")
		return
	}

	sort.Slice(chains, func(i, j int) bool {
		return chains[i].ChainID < chains[j].ChainID
	})

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                    SUPPORTED CHAINS")
	fmt.Println(strings.Repeat("=", 60) + "\n")

	for _, chain := range chains {
		fmt.Printf("  %8d  %-30s %s\n",
			chain.ChainID,
			chain.Name,
			color.YellowString(chain.Symbol))
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("\nTotal: %d chains\n\n", len(chains))
}
