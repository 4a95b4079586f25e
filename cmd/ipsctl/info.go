package main

import (
	"fmt"

	"github.com/joshuapare/ipskit/pkg/ips"
	"github.com/spf13/cobra"
)

var infoRecords bool

func init() {
	cmd := newInfoCmd()
	cmd.Flags().BoolVar(&infoRecords, "records", false, "List every record")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <patch>",
		Short: "Decode a patch and report its records",
		Long: `The info command decodes an IPS patch and displays a summary: record
counts by kind, bytes written, the smallest target the patch fits, and any
records that overwrite each other.

Example:
  ipsctl info fix.ips
  ipsctl info fix.ips --records
  ipsctl info fix.ips --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type infoRecord struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Offset uint32 `json:"offset"`
	Length int    `json:"length"`
}

type infoResult struct {
	File     string        `json:"file"`
	Stats    ips.Stats     `json:"stats"`
	Trailing int           `json:"trailing_bytes"`
	Overlaps []ips.Overlap `json:"overlaps,omitempty"`
	Records  []infoRecord  `json:"records,omitempty"`
}

func runInfo(args []string) error {
	patchPath := args[0]

	printVerbose("Opening patch: %s\n", patchPath)

	p, err := ips.LoadPatch(patchPath)
	if err != nil {
		return fmt.Errorf("failed to get patch info: %w", err)
	}

	res := infoResult{
		File:     patchPath,
		Stats:    p.Stats(),
		Trailing: p.Trailing(),
		Overlaps: p.Overlaps(),
	}
	recs := p.Records()
	if infoRecords {
		for i, r := range recs {
			res.Records = append(res.Records, infoRecord{
				Index:  i,
				Kind:   r.Kind.String(),
				Offset: r.Offset,
				Length: r.Len(),
			})
		}
	}

	if jsonOut {
		return printJSON(res)
	}

	s := res.Stats
	printInfo("\nPatch Information:\n")
	printInfo("  File: %s\n", patchPath)
	printInfo("  Size: %s\n", formatSize(int64(s.EncodedSize+res.Trailing)))
	printInfo("  Records: %s\n", numbers.Sprintf("%d (%d literal, %d rle)", s.Records, s.Literal, s.RunLength))
	printInfo("  Bytes written: %s\n", formatSize(s.BytesWritten))
	printInfo("  Minimum target size: %s\n", formatSize(s.MinTargetSize))
	if res.Trailing > 0 {
		printInfo("  Trailing bytes after EOF: %d\n", res.Trailing)
	}

	if len(res.Overlaps) > 0 {
		printInfo("\nOverlapping records (later wins):\n")
		for _, o := range res.Overlaps {
			printInfo("  #%d %s\n  #%d %s\n", o.First, recs[o.First], o.Second, recs[o.Second])
		}
	}

	if infoRecords {
		printInfo("\nRecords:\n")
		for i, r := range recs {
			printInfo("  %5d  %s\n", i, r)
		}
	}
	return nil
}
