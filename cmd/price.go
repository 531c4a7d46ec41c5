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
	"gas-deposit/pkg/client"
)

var (
	priceAsset string
	priceFiat  string
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Show the current native asset price",
	Long: `Fetch the current asset/fiat exchange rate from the public price feed.

Examples:
  gas-deposit price
  gas-deposit price --asset ethereum --fiat eur`,
	Run: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().StringVar(&priceAsset, "asset", "", "Price feed asset id (default: from config)")
	priceCmd.Flags().StringVar(&priceFiat, "fiat", "", "Fiat currency (default: from config)")
}

func runPrice(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// A price lookup needs no secrets; fall back to defaults when the full
	// configuration is unavailable.
	asset := "ethereum"
	fiat := "usd"
	baseURL := ""
	if cfg, err := config.Load(); err == nil {
		asset = cfg.PriceAsset
		fiat = cfg.FiatCurrency
		baseURL = cfg.PriceBaseURL
	}
	if priceAsset != "" {
		asset = priceAsset
	}
	if priceFiat != "" {
		fiat = priceFiat
	}

	priceClient := client.NewPriceClient(baseURL)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching price..."
		s.Start()
	}

	quote := priceClient.FetchPrice(context.Background(), asset, fiat)
	if !jsonOutput {
		s.Stop()
	}

	if quote.UnitPrice == 0 {
		printError(fmt.Errorf("price for '%s' is currently unavailable", asset))
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"asset":      quote.Asset,
			"fiat":       quote.FiatCurrency,
			"unit_price": quote.UnitPrice,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		fmt.Printf("\n  1 %s = %s %s\n\n",
			quote.Asset,
			color.GreenString("%.2f", quote.UnitPrice),
			strings.ToUpper(quote.FiatCurrency))
	}
}
