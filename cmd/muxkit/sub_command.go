package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"muxkit/internal/fileutil"
	"muxkit/internal/subs"
)

func newSubCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Retime and merge ASS subtitle files",
	}

	cmd.AddCommand(newSubShiftCommand(ctx))
	cmd.AddCommand(newSubSnapCommand(ctx))
	cmd.AddCommand(newSubMergeCommand(ctx))

	return cmd
}

func parseOOBPolicy(value string) (subs.OOBPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "error":
		return subs.OOBError, nil
	case "zero":
		return subs.OOBSetToZero, nil
	case "max-zero":
		return subs.OOBMaxToZero, nil
	case "drop":
		return subs.OOBDropLine, nil
	default:
		return subs.OOBError, fmt.Errorf("unknown out-of-bounds policy %q (want error, zero, max-zero, or drop)", value)
	}
}

func splitStyles(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	styles := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			styles = append(styles, trimmed)
		}
	}
	return styles
}

// writeDocument saves a retimed document, defaulting to an in-place rewrite
// with an optional .bak copy of the original. In-place rewrites serialize
// into a session work directory first and copy over the original, so a
// failed write never leaves a truncated subtitle behind.
func writeDocument(cmd *cobra.Command, ctx *commandContext, doc *subs.Document, inPath, outPath string, backup bool) error {
	target := strings.TrimSpace(outPath)
	if target != "" && target != inPath {
		if err := doc.WriteFile(target); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", len(doc.Events), target)
		return nil
	}

	if backup {
		if _, err := fileutil.Backup(inPath); err != nil {
			return fmt.Errorf("back up %s: %w", inPath, err)
		}
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	workDir, err := cfg.SessionWorkDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	staged := filepath.Join(workDir, filepath.Base(inPath))
	if err := doc.WriteFile(staged); err != nil {
		return err
	}
	if err := fileutil.CopyFile(staged, inPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", len(doc.Events), inPath)
	return nil
}

func newSubShiftCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var frames int
	var ms int64
	var stylesFlag string
	var policyFlag string
	var outPath string
	var backup bool

	cmd := &cobra.Command{
		Use:   "shift <file>",
		Short: "Shift subtitle timing by frames or milliseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames != 0 && ms != 0 {
				return fmt.Errorf("use either --frames or --ms, not both")
			}
			policy, err := parseOOBPolicy(policyFlag)
			if err != nil {
				return err
			}

			doc, err := subs.ParseFile(args[0])
			if err != nil {
				return err
			}
			opts := subs.ShiftOptions{Policy: policy, Styles: splitStyles(stylesFlag)}

			if ms != 0 {
				err = doc.ShiftByTime(time.Duration(ms)*time.Millisecond, opts)
			} else {
				ts, tsErr := ctx.resolveTimestamps(cmd, &flags)
				if tsErr != nil {
					return tsErr
				}
				err = doc.ShiftByFrames(frames, ts, opts)
			}
			if err != nil {
				return err
			}
			return writeDocument(cmd, ctx, doc, args[0], outPath, backup)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&frames, "frames", 0, "Frame offset, negative shifts earlier")
	cmd.Flags().Int64Var(&ms, "ms", 0, "Millisecond offset, negative shifts earlier")
	cmd.Flags().StringVar(&stylesFlag, "styles", "", "Comma-separated style allow-list (default all styles)")
	cmd.Flags().StringVar(&policyFlag, "oob", "error", "Out-of-bounds policy: error, zero, max-zero, drop")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to this file instead of rewriting in place")
	cmd.Flags().BoolVar(&backup, "backup", false, "Keep a .bak copy when rewriting in place")
	return cmd
}

func newSubSnapCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var stylesFlag string
	var outPath string
	var backup bool

	cmd := &cobra.Command{
		Use:   "snap <file>",
		Short: "Re-time dialogue lines onto exact frame boundaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := ctx.resolveTimestamps(cmd, &flags)
			if err != nil {
				return err
			}
			doc, err := subs.ParseFile(args[0])
			if err != nil {
				return err
			}
			if err := doc.Snap(ts, splitStyles(stylesFlag)); err != nil {
				return err
			}
			return writeDocument(cmd, ctx, doc, args[0], outPath, backup)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&stylesFlag, "styles", "", "Comma-separated style allow-list (default dialogue styles)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to this file instead of rewriting in place")
	cmd.Flags().BoolVar(&backup, "backup", false, "Keep a .bak copy when rewriting in place")
	return cmd
}

func newSubMergeCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var syncName string
	var otherName string
	var syncFrame int
	var useActor bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "merge <base> <other>",
		Short: "Merge a second subtitle file, aligned on a syncpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := ctx.resolveTimestamps(cmd, &flags)
			if err != nil {
				return err
			}
			base, err := subs.ParseFile(args[0])
			if err != nil {
				return err
			}
			other, err := subs.ParseFile(args[1])
			if err != nil {
				return err
			}

			var sync *subs.Syncpoint
			if syncName != "" || syncFrame != 0 {
				sync = &subs.Syncpoint{
					Frame:     syncFrame,
					Name:      syncName,
					OtherName: otherName,
					UseActor:  useActor,
				}
			}
			if err := base.Merge(other, sync, ts); err != nil {
				return err
			}
			return writeDocument(cmd, ctx, base, args[0], outPath, false)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&syncName, "sync", "", "Syncpoint label to locate in the base document")
	cmd.Flags().StringVar(&otherName, "other-sync", "", "Syncpoint label in the merged document (defaults to --sync)")
	cmd.Flags().IntVar(&syncFrame, "sync-frame", 0, "Target frame when the base has no syncpoint line")
	cmd.Flags().BoolVar(&useActor, "actor", false, "Match syncpoints on the actor field instead of effect/text")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to this file instead of rewriting the base in place")
	return cmd
}
