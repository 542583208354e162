package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/memkit/bitpool/bitvec"
)

var (
	// Global flags
	vectorBits int
)

var rootCmd = &cobra.Command{
	Use:   "bitpoolctl",
	Short: "Inspect raw bit-pool images",
	Long: `bitpoolctl loads raw bit-vector images, as written by bitvec.Vector.WriteTo,
and renders or searches them. Images carry no header, so the bit count of the
stored vector must be supplied with --bits.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().
		IntVar(&vectorBits, "bits", 0, "Bit count of the vector stored in the image (required)")
	_ = rootCmd.MarkPersistentFlagRequired("bits")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadVector reads the raw image at path into a fresh vector of bits length.
func loadVector(path string, bits int) (*bitvec.Vector, error) {
	if bits < 0 {
		return nil, fmt.Errorf("bit count %d is negative", bits)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	vec := bitvec.New(bits)
	if _, err := vec.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	return vec, nil
}
