package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	PrivateKey      string
	RPCUrl          string
	SourceChainID   uint64
	QuoteBaseURL    string
	PriceBaseURL    string
	DepositContract string
	RefundFrom      string
	PriceAsset      string
	FiatCurrency    string
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".gas-deposit")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("quote_base_url", "https://backend.gas.zip/v2")
	viper.SetDefault("price_base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("deposit_contract", "0x391E7C679d29bD940d63be94AD22A25d25b5A604")
	viper.SetDefault("source_chain_id", 8453)
	viper.SetDefault("price_asset", "ethereum")
	viper.SetDefault("fiat_currency", "usd")

	// Read from environment variables
	viper.SetEnvPrefix("GAS_DEPOSIT")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	// Create config struct
	cfg := &Config{
		PrivateKey:      viper.GetString("private_key"),
		RPCUrl:          viper.GetString("rpc_url"),
		SourceChainID:   viper.GetUint64("source_chain_id"),
		QuoteBaseURL:    viper.GetString("quote_base_url"),
		PriceBaseURL:    viper.GetString("price_base_url"),
		DepositContract: viper.GetString("deposit_contract"),
		RefundFrom:      viper.GetString("refund_from"),
		PriceAsset:      viper.GetString("price_asset"),
		FiatCurrency:    viper.GetString("fiat_currency"),
	}

	// Validate private key
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not found. Please set GAS_DEPOSIT_PRIVATE_KEY environment variable or create a .gas-deposit.yaml config file")
	}

	// Validate RPC URL
	if cfg.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not found. Please set GAS_DEPOSIT_RPC_URL environment variable or create a .gas-deposit.yaml config file")
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
