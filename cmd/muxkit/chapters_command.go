package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"muxkit/internal/chapters"
	"muxkit/internal/subs"
	"muxkit/internal/timestamps"
	"muxkit/internal/trim"
)

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Inspect and edit chapter timelines",
	}

	cmd.AddCommand(newChaptersShowCommand(ctx))
	cmd.AddCommand(newChaptersTrimCommand(ctx))
	cmd.AddCommand(newChaptersShiftCommand(ctx))
	cmd.AddCommand(newChaptersRenameCommand(ctx))
	cmd.AddCommand(newChaptersConvertCommand(ctx))
	cmd.AddCommand(newChaptersFromSubCommand(ctx))

	return cmd
}

// loadTimeline reads chapters from an OGM text file, a Matroska chapter XML,
// or an MKV container, picked by extension.
func loadTimeline(cmd *cobra.Command, ctx *commandContext, flags *sourceFlags, path string) (*chapters.Timeline, timestamps.Timestamps, error) {
	ts, err := ctx.resolveTimestamps(cmd, flags)
	if err != nil {
		return nil, nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mkv":
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return nil, nil, err
		}
		timeline, err := chapters.FromMKV(cmd.Context(), cfg.MKVExtractBinary(), path, ts)
		if err != nil {
			return nil, nil, err
		}
		return timeline, ts, nil
	case ".xml":
		parsed, err := chapters.ParseXMLFile(path)
		if err != nil {
			return nil, nil, err
		}
		return chapters.FromChapters(ts, parsed), ts, nil
	default:
		parsed, err := chapters.ParseOGMFile(path)
		if err != nil {
			return nil, nil, err
		}
		return chapters.FromChapters(ts, parsed), ts, nil
	}
}

func writeTimeline(cmd *cobra.Command, timeline *chapters.Timeline, outPath string) error {
	if strings.TrimSpace(outPath) == "" {
		return timeline.WriteOGM(cmd.OutOrStdout())
	}
	if err := timeline.WriteOGMFile(outPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chapters to %s\n", timeline.Len(), outPath)
	return nil
}

func newChaptersShowCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the chapter timeline as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeline, ts, err := loadTimeline(cmd, ctx, &flags, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entries := timeline.Chapters()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No chapters")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for i, ch := range entries {
				frame := ts.TimeToFrame(ch.Time.Milliseconds(), timestamps.TimeStart)
				rows = append(rows, []string{
					strconv.Itoa(i),
					chapters.FormatTimestamp(ch.Time),
					strconv.Itoa(frame),
					ch.Name,
				})
			}
			headers := []string{"#", "Time", "Frame", "Name"}
			aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newChaptersTrimCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var start, end, total int
	var outPath string

	cmd := &cobra.Command{
		Use:   "trim <file>",
		Short: "Retime chapters for a trimmed video span",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var bounds trim.Trim
			if cmd.Flags().Changed("start") {
				bounds.Start = trim.Bound(start)
			}
			if cmd.Flags().Changed("end") {
				bounds.End = trim.Bound(end)
			}
			normalized, err := trim.Normalize([]trim.Trim{bounds}, total, true, false)
			if err != nil {
				return err
			}

			trimStart, trimEnd := 0, 0
			if normalized[0].Start != nil {
				trimStart = *normalized[0].Start
			}
			if normalized[0].End != nil {
				trimEnd = *normalized[0].End
			}

			timeline, _, err := loadTimeline(cmd, ctx, &flags, args[0])
			if err != nil {
				return err
			}
			return writeTimeline(cmd, timeline.Trim(trimStart, trimEnd, total), outPath)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&start, "start", 0, "First frame kept by the trim; negative counts back from --total")
	cmd.Flags().IntVar(&end, "end", 0, "First frame dropped by the trim; negative counts back from --total")
	cmd.Flags().IntVar(&total, "total", 0, "Total frames after the trim (0 skips the length cutoff)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the result to a file instead of stdout")
	return cmd
}

func newChaptersShiftCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var index, frames int
	var outPath string

	cmd := &cobra.Command{
		Use:   "shift <file>",
		Short: "Shift a single chapter by a frame offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeline, _, err := loadTimeline(cmd, ctx, &flags, args[0])
			if err != nil {
				return err
			}
			if err := timeline.Shift(index, frames); err != nil {
				return err
			}
			return writeTimeline(cmd, timeline, outPath)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&index, "index", 0, "Chapter index to shift")
	cmd.Flags().IntVar(&frames, "frames", 0, "Frame offset, negative shifts earlier")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the result to a file instead of stdout")
	return cmd
}

func newChaptersRenameCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "rename <file> <name>...",
		Short: "Replace chapter names in order",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeline, _, err := loadTimeline(cmd, ctx, &flags, args[0])
			if err != nil {
				return err
			}
			if err := timeline.SetNames(args[1:]); err != nil {
				return err
			}
			return writeTimeline(cmd, timeline, outPath)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the result to a file instead of stdout")
	return cmd
}

func newChaptersConvertCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert OGM, XML, or MKV chapters to OGM text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeline, _, err := loadTimeline(cmd, ctx, &flags, args[0])
			if err != nil {
				return err
			}
			return writeTimeline(cmd, timeline, outPath)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the result to a file instead of stdout")
	return cmd
}

func newChaptersFromSubCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "from-sub <file>",
		Short: "Extract chapters from chapter-marked subtitle lines",
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
			timeline := chapters.FromSub(doc, ts)
			if timeline.Len() == 0 {
				return fmt.Errorf("no chapter-marked lines in %s", args[0])
			}
			return writeTimeline(cmd, timeline, outPath)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the result to a file instead of stdout")
	return cmd
}
