package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"muxkit/internal/naming"
)

func newNameCommand(ctx *commandContext) *cobra.Command {
	var show string
	var episode string
	var ext string

	cmd := &cobra.Command{
		Use:   "name",
		Short: "Render the configured output name template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			tokens := naming.Tokens{Show: cfg.Naming.ShowName, Episode: cfg.Naming.Episode}
			if strings.TrimSpace(show) != "" {
				tokens.Show = show
			}
			if strings.TrimSpace(episode) != "" {
				tokens.Episode = episode
			}

			rendered := naming.Render(cfg.Naming.OutputTemplate, tokens)
			if strings.TrimSpace(ext) != "" {
				rendered = naming.WithExtension(rendered, ext)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "Override the configured show name")
	cmd.Flags().StringVar(&episode, "episode", "", "Override the configured episode")
	cmd.Flags().StringVar(&ext, "ext", "", "Append a file extension")
	return cmd
}
