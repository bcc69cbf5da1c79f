package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dost0092/hotel-mapped-url/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hotel-mapped-url",
	Short: "Hotel identity resolution service",
	Long:  "Crawls booking location pages, reconciles the discovered hotels against the master property registry by geography and fuzzy name match, and persists the URL mapping.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for _, envFile := range []string{".env", ".env.local"} {
			_ = godotenv.Load(envFile)
		}

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
