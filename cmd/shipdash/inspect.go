package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the report model as JSON",
		Long: `Runs the pipeline and prints the model every format is rendered from, for
auditing the numbers. Raw rows are not included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.report(cmd)
			if err != nil {
				return err
			}
			data, err := report.JSONIndent()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, string(data))
			return err
		},
	}
}
