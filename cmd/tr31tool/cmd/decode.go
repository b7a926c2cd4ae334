package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/andrei-cloud/gotr31/internal/logging"
	"github.com/andrei-cloud/gotr31/pkg/tr31"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.Flags().StringP("key-block", "i", "", "textual key block to decode or unwrap")
	rootCmd.Flags().StringP("kbpk", "k", "", "key block protection key, hex-encoded")
	rootCmd.Flags().BoolP("version", "v", false, "print library version and exit")
}

// runDecode implements the out-of-core front-end: given a key block and an optional KBPK, it
// parses (and, with a KBPK, unwraps) the block and prints its attributes to stdout, per §6.
func runDecode(c *cobra.Command, _ []string) error {
	printVersion, _ := c.Flags().GetBool("version")
	if printVersion {
		c.Println(tr31.LibraryVersion())

		return nil
	}

	keyBlockText, _ := c.Flags().GetString("key-block")
	kbpkHex, _ := c.Flags().GetString("kbpk")

	if keyBlockText == "" {
		return c.Help()
	}

	logger := logging.WithInvocation()

	var kbpk []byte
	if kbpkHex != "" {
		var err error
		kbpk, err = hex.DecodeString(kbpkHex)
		if err != nil {
			logger.Error().Err(err).Msg("invalid kbpk hex")

			return fmt.Errorf("invalid kbpk hex: %w", err)
		}
	}

	block, err := tr31.Unwrap([]byte(keyBlockText), kbpk)
	if block == nil {
		logging.LogOperation(logger, "decode", "", len(keyBlockText), err)

		return err
	}

	printBlock(c, block)

	version := string(block.Header.Version)
	logging.LogOperation(logger, "decode", version, len(keyBlockText), block.Status)

	if block.Status != nil {
		return block.Status
	}

	return nil
}

// printBlock writes a human-readable rendering of a parsed key block's attributes to stdout,
// mirroring the command's documented contract of decoded structure on stdout, diagnostics on
// stderr.
func printBlock(c *cobra.Command, block *tr31.Block) {
	h := block.Header
	c.Printf("Version:        %c\n", h.Version)
	c.Printf("Length:         %d\n", h.Length)
	c.Printf("Key Usage:      %s (%s)\n", h.Usage, tr31.DescribeKeyUsage(h.Usage))
	c.Printf("Algorithm:      %c (%s)\n", h.Algorithm, tr31.DescribeAlgorithm(h.Algorithm))
	c.Printf("Mode of Use:    %c (%s)\n", h.ModeOfUse, tr31.DescribeModeOfUse(h.ModeOfUse))
	kv, _ := h.KeyVersion.Encode()
	c.Printf("Key Version:    %s\n", kv)
	c.Printf("Exportability:  %c (%s)\n", h.Exportability, tr31.DescribeExportability(h.Exportability))
	c.Printf("Optional Blocks: %d\n", h.OptBlockCount)
	for _, ob := range block.OptionalBlocks {
		c.Printf("  %s (%s): %s\n", ob.ID, tr31.DescribeOptionalBlockID(ob.ID), string(ob.Data))
	}

	if block.Status != nil {
		c.Printf("Status:         %s\n", tr31.DescribeError(block.Status))

		return
	}

	if block.Key.HasData() {
		c.Printf("Status:         ok\n")
		c.Printf("Key:            %s\n", hex.EncodeToString(block.Key.Data()))
	} else {
		c.Printf("Status:         ok (metadata only)\n")
	}
}
