package main

import (
	"fmt"

	"github.com/getyourdepa/depa-cms/internal/app"
	"github.com/spf13/cobra"
)

var shortenCmd = &cobra.Command{
	Use:     "shorten <url>",
	Short:   "Create a short link in the configured store",
	Example: `  cmsctl shorten "https://getyourdepa.com/listings/casa-en-coyoacan"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		deps, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer deps.Close()

		resp, err := deps.ShortLink.Shorten(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.ShortURL)
		return nil
	},
}
