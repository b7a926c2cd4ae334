package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/andrei-cloud/gotr31/internal/logging"
	"github.com/andrei-cloud/gotr31/pkg/tr31"
	"github.com/spf13/cobra"
)

var wrapCmd = &cobra.Command{
	Use:   "wrap",
	Short: "Wrap a clear key into a TR-31 key block",
	Long: `Wrap builds a TR-31 interchange key block from a clear key and its usage
attributes, protected under a key block protection key (KBPK).`,
	RunE: runWrap,
}

func init() {
	rootCmd.AddCommand(wrapCmd)

	wrapCmd.Flags().String("key", "", "clear key, hex-encoded")
	wrapCmd.Flags().String("kbpk", "", "key block protection key, hex-encoded")
	wrapCmd.Flags().String("version", "D", "key block version (A, B, C, or D)")
	wrapCmd.Flags().String("usage", "K0", "key usage code, e.g. P0, B0, K0")
	wrapCmd.Flags().String("algorithm", "A", "key algorithm code (T, A, D, H, R, S, E)")
	wrapCmd.Flags().String("mode", "B", "mode of use code")
	wrapCmd.Flags().String("key-version", "00", "key version field, e.g. 00 or a two-digit number")
	wrapCmd.Flags().String("exportability", "E", "exportability code (E, N, S)")

	if err := wrapCmd.MarkFlagRequired("key"); err != nil {
		panic(err)
	}
	if err := wrapCmd.MarkFlagRequired("kbpk"); err != nil {
		panic(err)
	}
}

func runWrap(c *cobra.Command, _ []string) error {
	keyHex, _ := c.Flags().GetString("key")
	kbpkHex, _ := c.Flags().GetString("kbpk")
	version, _ := c.Flags().GetString("version")
	usage, _ := c.Flags().GetString("usage")
	algorithm, _ := c.Flags().GetString("algorithm")
	mode, _ := c.Flags().GetString("mode")
	keyVersion, _ := c.Flags().GetString("key-version")
	exportability, _ := c.Flags().GetString("exportability")

	clearKey, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("invalid key hex: %w", err)
	}
	kbpk, err := hex.DecodeString(kbpkHex)
	if err != nil {
		return fmt.Errorf("invalid kbpk hex: %w", err)
	}
	if len(version) != 1 || len(algorithm) != 1 || len(mode) != 1 || len(exportability) != 1 {
		return fmt.Errorf("version, algorithm, mode, and exportability must each be 1 character")
	}

	kv, err := tr31.ParseKeyVersion(keyVersion)
	if err != nil {
		return err
	}

	k := tr31.NewKey(usage, algorithm[0], mode[0], kv, exportability[0], clearKey)

	logger := logging.WithInvocation()

	keyBlock, err := tr31.Wrap(k, kbpk, version[0], nil)
	logging.LogOperation(logger, "wrap", version, len(keyBlock), err)
	if err != nil {
		return err
	}

	c.Println(string(keyBlock))

	return nil
}
