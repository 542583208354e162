package main

import (
	"fmt"
	"os"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"
)

var (
	dumpFormat string
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpFormat, "format", "hex", "Dump format: hex, binary, or json")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <image>",
		Short: "Render a bit image for inspection",
		Long: `The dump command loads a raw bit image and renders it to stdout: as a
canonical hex dump, as one binary digit per bit with one word per line, or as
a json summary.

Example:
  bitpoolctl dump --bits 4096 pool.img
  bitpoolctl dump --bits 4096 --format binary pool.img`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	vec, err := loadVector(args[0], vectorBits)
	if err != nil {
		return err
	}

	switch dumpFormat {
	case "hex":
		return vec.WriteHexDump(os.Stdout)
	case "binary":
		return vec.WriteBinaryDump(os.Stdout)
	case "json":
		writer := jwriter.NewWriter()
		obj := writer.Object()
		vec.JsonData(obj)
		obj.End()

		if err := writer.Error(); err != nil {
			return err
		}
		fmt.Println(string(writer.Bytes()))
		return nil
	}

	return fmt.Errorf("unknown dump format %q", dumpFormat)
}
