package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mirage",
	Short: "Encode and decode image processing parameters in filenames",
	Long: `Mirage reads and writes image filenames that carry their own processing
history: the catalog id, a compact token of the applied catalog features,
the gsd, sharpen and brightness values, and an optional crop hash.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
