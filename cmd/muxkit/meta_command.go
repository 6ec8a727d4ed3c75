package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"muxkit/internal/videometa"
)

func newMetaCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Manage cached video timing snapshots",
	}

	cmd.AddCommand(newMetaGenerateCommand(ctx))
	cmd.AddCommand(newMetaInspectCommand(ctx))

	return cmd
}

func newMetaGenerateCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "generate <video>",
		Short: "Probe a video and cache its timing beside the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sidecar := videometa.SidecarPath(args[0])
			if force {
				if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove stale snapshot: %w", err)
				}
			}
			meta, err := videometa.Ensure(cmd.Context(), args[0], videometa.FFProbe(cfg.FFprobeBinary()), ctx.loggerValue())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Snapshot: %s\n", sidecar)
			fmt.Fprintf(out, "Frames: %d, fps %s, timescale %s\n", len(meta.PTS), meta.FPS, meta.TimeScale)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-probe even when a snapshot exists")
	return cmd
}

func newMetaInspectCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <video-or-snapshot>",
		Short: "Show a cached timing snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.HasSuffix(path, ".meta.json") {
				path = videometa.SidecarPath(path)
			}
			meta, err := videometa.Load(path)
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", path, err)
			}

			rows := [][]string{
				{"Frames", strconv.Itoa(len(meta.PTS))},
				{"FPS", meta.FPS.String()},
				{"Time scale", meta.TimeScale.String()},
				{"First PTS", strconv.FormatInt(meta.PTS[0], 10)},
				{"Last PTS", strconv.FormatInt(meta.PTS[len(meta.PTS)-1], 10)},
			}
			if !meta.TimeScale.IsZero() {
				seconds := float64(meta.PTS[len(meta.PTS)-1]) / meta.TimeScale.Float64()
				rows = append(rows, []string{"Duration", fmt.Sprintf("%.3fs", seconds)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	return cmd
}
