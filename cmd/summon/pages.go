package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/summon-dev/summon/internal/demo"
)

func pagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List the demo pages",
		Run: func(cmd *cobra.Command, args []string) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATH\tCACHED")
			for _, p := range demo.Pages() {
				fmt.Fprintf(tw, "%s\t%s\t%v\n", p.Name, p.Path, p.Cache)
			}
			tw.Flush()
		},
	}
}
