package main

import (
	"context"
	"fmt"

	"github.com/joshuapare/ipskit/pkg/ips"
	"github.com/spf13/cobra"
)

var (
	applyOutput   string
	applyExtra    []string
	applyBackup   bool
	applyInPlace  bool
	applyFullSync bool
)

func init() {
	cmd := newApplyCmd()
	cmd.Flags().StringVarP(&applyOutput, "output", "o", "", "Write the result to this name (target extension is appended)")
	cmd.Flags().StringArrayVarP(&applyExtra, "patch", "p", nil, "Additional patch to apply after the first (repeatable)")
	cmd.Flags().BoolVar(&applyBackup, "backup", false, "Create <target>.bak before modifying the target")
	cmd.Flags().BoolVar(&applyInPlace, "in-place", false, "Patch the mapped target directly, flushing only dirty pages")
	cmd.Flags().BoolVar(&applyFullSync, "full-sync", false, "Use the strongest platform sync after an in-place apply")
	rootCmd.AddCommand(cmd)
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <patch> <target>",
		Short: "Apply an IPS patch to a file",
		Long: `The apply command decodes the patch, checks every record against the
target size, and only then writes the patched image. Without -o the target is
replaced atomically; with -o the result is written to <name>.<target ext> and
the target is left untouched.

Example:
  ipsctl apply fix.ips game.sfc -o game-fixed
  ipsctl apply base.ips game.sfc -p translation.ips -p hack.ips --backup
  ipsctl apply fix.ips game.gba --in-place`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), args)
		},
	}
	return cmd
}

func runApply(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	patches := append([]string{args[0]}, applyExtra...)
	targetPath := args[1]

	printVerbose("Applying %d patch(es) to %s\n", len(patches), targetPath)

	res, err := ips.ApplyFiles(ctx, patches, targetPath, &ips.FileOptions{
		OutputName:   applyOutput,
		CreateBackup: applyBackup,
		InPlace:      applyInPlace,
		FullSync:     applyFullSync,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("failed to apply patch: %w", err)
	}

	if jsonOut {
		return printJSON(res)
	}

	for i, s := range res.Patches {
		printInfo("%s: %s\n", patches[i], numbers.Sprintf("%d records, %s written", s.Records, formatSize(s.BytesWritten)))
	}
	for _, c := range res.Conflicts {
		printInfo("Warning: %s and %s overlap in %d record pair(s); %s wins\n",
			c.First, c.Second, len(c.Conflicts), c.Second)
	}
	if res.Backup != "" {
		printInfo("Backup: %s\n", res.Backup)
	}
	if res.InPlace {
		printVerbose("Flushed %d dirty range(s)\n", len(res.Dirty))
	}
	printInfo("Patched: %s\n", res.Output)
	return nil
}
