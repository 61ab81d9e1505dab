package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/getyourdepa/depa-cms/internal/app"
	"github.com/spf13/cobra"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Inspect the media bucket",
}

var galleryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List gallery images, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		deps, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer deps.Close()

		items, err := deps.Gallery.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\n", it.Name, it.URL)
		}
		return w.Flush()
	},
}

func init() {
	galleryCmd.AddCommand(galleryListCmd)
}
