// Package cmd provides the CLI commands for the tr31tool application.
package cmd

import (
	"fmt"
	"os"

	"github.com/andrei-cloud/gotr31/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tr31tool",
	Short: "ANSI TR-31 / ASC X9.143 interchange key block wrap/unwrap utility",
	Long: `tr31tool wraps and unwraps ANSI TR-31 interchange key blocks, and decodes
a key block's header and attributes without a key block protection key.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runDecode,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
			}
			if err := viper.Unmarshal(config.Get()); err != nil {
				return fmt.Errorf("failed to decode config file %s: %w", cfgFile, err)
			}
		}
		cfg = config.Get()

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	rootCmd.SetOut(os.Stdout)

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tr31tool/config.yaml)")

	rootCmd.PersistentFlags().
		String("log-level", "info", "logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "logging format (human, json)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}
