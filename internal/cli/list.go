package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/basiskit/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database    string
	Name        string
	Version     string
	LabelPrefix string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed basis set families",
		Long: `List installed basis set families, one per line, ordered by label.

Example:
  basiskit list --db ./basis.db
  basiskit list --db ./basis.db --name OpenMX --version 19`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "filter by source name (first label segment)")
	cmd.Flags().StringVar(&opts.Version, "version", "", "filter by version (second label segment)")
	cmd.Flags().StringVar(&opts.LabelPrefix, "label-prefix", "", "filter by label prefix")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// familySummaryRow is the JSON projection of a registry entry.
type familySummaryRow struct {
	Label    string `json:"label"`
	Elements int    `json:"elements"`
	Source   string `json:"source"`
	Version  string `json:"version"`
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	summaries, err := st.ListFamilies(cmd.Context(), store.Filter{
		Name:        opts.Name,
		Version:     opts.Version,
		LabelPrefix: opts.LabelPrefix,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list families", err)
	}

	out := cmd.OutOrStdout()

	if opts.Format == "json" {
		rows := make([]familySummaryRow, 0, len(summaries))
		for _, s := range summaries {
			rows = append(rows, familySummaryRow{
				Label:    string(s.Label),
				Elements: s.Count,
				Source:   s.Source,
				Version:  s.Version,
			})
		}
		return json.NewEncoder(out).Encode(CLIResponse{Status: "ok", Data: rows})
	}

	if len(summaries) == 0 {
		fmt.Fprintln(out, "no basis set families installed: use `basiskit install`.")
		return nil
	}

	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tELEMENTS\tSOURCE\tVERSION")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Label, s.Count, s.Source, s.Version)
	}
	return w.Flush()
}
