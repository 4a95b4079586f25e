package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/ipskit/pkg/ips"
	"github.com/spf13/cobra"
)

var (
	createOutput string
	createMaxGap int
	createMinRLE int
)

func init() {
	cmd := newCreateCmd()
	cmd.Flags().StringVarP(&createOutput, "output", "o", "", "Patch file to write (required)")
	cmd.Flags().IntVar(&createMaxGap, "max-gap", ips.DefaultMaxGap, "Longest unchanged run merged into one record (0 disables merging)")
	cmd.Flags().IntVar(&createMinRLE, "min-rle", ips.DefaultMinRunLength, "Shortest repeated-byte run stored as RLE")
	_ = cmd.MarkFlagRequired("output")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <original> <modified>",
		Short: "Create an IPS patch from two images of equal size",
		Long: `The create command compares an original and a modified image byte by
byte and writes an IPS patch that turns the first into the second.

Example:
  ipsctl create game.sfc game-hacked.sfc -o hack.ips`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
	return cmd
}

func runCreate(args []string) error {
	origPath, modPath := args[0], args[1]

	printVerbose("Comparing %s with %s\n", origPath, modPath)

	original, err := os.ReadFile(origPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", origPath, err)
	}
	modified, err := os.ReadFile(modPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", modPath, err)
	}

	maxGap := createMaxGap
	if maxGap == 0 {
		maxGap = -1
	}
	p, err := ips.Diff(original, modified, &ips.DiffOptions{
		MaxGap:       maxGap,
		MinRunLength: createMinRLE,
	})
	if err != nil {
		return fmt.Errorf("failed to create patch: %w", err)
	}
	stats := p.Stats()

	if err := p.WriteFile(createOutput); err != nil {
		return fmt.Errorf("failed to write %s: %w", createOutput, err)
	}
	logger.Debug("patch created", "path", createOutput, "records", stats.Records)

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":  createOutput,
			"stats": stats,
		})
	}
	printInfo("Created %s: %s\n", createOutput,
		numbers.Sprintf("%d records (%d rle), %s", stats.Records, stats.RunLength, formatSize(int64(stats.EncodedSize))))
	return nil
}
