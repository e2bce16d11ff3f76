// Package cmd - list subcommands.
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List reference data",
}

var listPortsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List the registered ports, grouped by region",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnvironment()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCOUNTRY\tREGION")
		for _, p := range env.data.Ports() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Country, p.Region)
		}
		return w.Flush()
	},
}

var listIndicesCmd = &cobra.Command{
	Use:   "indices",
	Short: "List the freight market indices, heaviest weight first",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnvironment()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCURRENT\tBASE\tCHANGE%\tWEIGHT\tDESCRIPTION")
		for _, idx := range env.data.Indices() {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%+.2f\t%.2f\t%s\n",
				idx.Name, idx.CurrentValue, idx.BaseValue, idx.ChangePercent(), idx.DefaultWeight, idx.Description)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.AddCommand(listPortsCmd)
	listCmd.AddCommand(listIndicesCmd)
}
