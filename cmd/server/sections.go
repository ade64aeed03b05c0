package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayush/paper-studio/internal/sections"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Validate and print the paper section table",
	Long: `Sections loads the section table named by sections_file (or the built-in
one), validates it, and prints each section with its prerequisites. A table
with unknown prerequisites or a dependency cycle is reported as an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := sections.Load(cfg.SectionsFile)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tNAME\tNUMBERED\tPREREQUISITES")
		for _, d := range reg.All() {
			prereqs := strings.Join(d.Prerequisites, ", ")
			if prereqs == "" {
				prereqs = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", d.Key, d.Name, d.Numbered, prereqs)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
