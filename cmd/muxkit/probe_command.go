package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"muxkit/internal/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var trackType string
	var language string
	var name string
	var rawJSON bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "List the tracks of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			file, err := probe.Inspect(cmd.Context(), cfg.FFprobeBinary(), args[0])
			if err != nil {
				return fmt.Errorf("probe %s: %w", args[0], err)
			}

			if rawJSON {
				payload := file.Result.RawJSON()
				if _, err := cmd.OutOrStdout().Write(payload); err != nil {
					return err
				}
				if len(payload) == 0 || payload[len(payload)-1] != '\n' {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			}

			filter := probe.Filter{
				Type:     probe.TrackType(trackType),
				Language: language,
				Name:     name,
			}
			tracks := filter.Apply(file.Tracks)

			out := cmd.OutOrStdout()
			if len(tracks) == 0 {
				fmt.Fprintln(out, "No matching tracks")
				return nil
			}

			rows := make([][]string, 0, len(tracks))
			for _, track := range tracks {
				rows = append(rows, []string{
					strconv.Itoa(track.Index),
					string(track.Type),
					track.Codec,
					track.LanguageName(),
					track.Name,
					yesNo(track.Default),
					yesNo(track.Forced),
				})
			}
			headers := []string{"#", "Type", "Codec", "Language", "Name", "Default", "Forced"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVar(&trackType, "type", "", "Restrict to a track type (video, audio, subtitle)")
	cmd.Flags().StringVar(&language, "language", "", "Restrict to a language code or name")
	cmd.Flags().StringVar(&name, "name", "", "Restrict to tracks whose title contains this text")
	cmd.Flags().BoolVar(&rawJSON, "json", false, "Emit the raw ffprobe payload instead of a table")
	return cmd
}
