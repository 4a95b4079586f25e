package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/ipskit/pkg/ips"
	"github.com/spf13/cobra"
)

var validateTarget string

func init() {
	cmd := newValidateCmd()
	cmd.Flags().StringVar(&validateTarget, "target", "", "Also check that every record fits this file")
	rootCmd.AddCommand(cmd)
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <patch>",
		Short: "Validate patch framing and, optionally, fit against a target",
		Long: `The validate command decodes an IPS patch and reports the first framing
error, if any. With --target it also checks that every record's byte range lies
inside the target file, without modifying it.

Example:
  ipsctl validate fix.ips
  ipsctl validate fix.ips --target game.sfc
  ipsctl validate fix.ips --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

func runValidate(args []string) error {
	patchPath := args[0]

	printVerbose("Validating patch: %s\n", patchPath)

	err := validatePatch(patchPath, validateTarget)

	result := map[string]interface{}{
		"file":  patchPath,
		"valid": err == nil,
	}
	if validateTarget != "" {
		result["target"] = validateTarget
	}
	if err != nil {
		result["error"] = err.Error()
		var re *ips.RecordError
		if errors.As(err, &re) {
			result["field"] = re.Field
			result["position"] = re.Pos
		}
		var be *ips.BoundsError
		if errors.As(err, &be) {
			result["record"] = be.Index
			result["offset"] = be.Offset
		}
	}

	if jsonOut {
		if jerr := printJSON(result); jerr != nil {
			return jerr
		}
		return err
	}

	printInfo("\nValidating %s...\n\n", patchPath)
	if err != nil {
		printInfo("  ✗ %v\n", err)
		printInfo("\nResult: ✗ INVALID\n")
		return err
	}
	printInfo("  ✓ Header valid\n")
	printInfo("  ✓ All records framed\n")
	if validateTarget != "" {
		printInfo("  ✓ All records fit %s\n", validateTarget)
	}
	printInfo("\nResult: ✓ VALID\n")
	return nil
}

func validatePatch(patchPath, targetPath string) error {
	p, err := ips.LoadPatch(patchPath)
	if err != nil {
		return err
	}
	if targetPath == "" {
		return nil
	}
	st, err := os.Stat(targetPath)
	if err != nil {
		return err
	}
	if err := p.Fits(int(st.Size())); err != nil {
		return fmt.Errorf("patch does not fit %s: %w", targetPath, err)
	}
	return nil
}
