package main

import (
	"fmt"
	"strings"

	"github.com/getyourdepa/depa-cms/internal/normalize"
	"github.com/spf13/cobra"
)

var slugZone bool

var slugCmd = &cobra.Command{
	Use:   "slug <title...>",
	Short: "Print the slug a title would get",
	Example: `  cmsctl slug "Casa en Coyoacán"
  cmsctl slug --zone "Roma Norte"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		if slugZone {
			fmt.Fprintln(cmd.OutOrStdout(), normalize.ZoneSlug(title))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), normalize.Slug(title))
		return nil
	},
}

func init() {
	slugCmd.Flags().BoolVar(&slugZone, "zone", false, "use the zone path layout")
}
