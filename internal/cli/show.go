package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/basiskit/internal/basis"
	"github.com/roach88/basiskit/internal/family"
	"github.com/roach88/basiskit/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <label>",
		Short: "Show the contents of a basis set family",
		Long: `Show the per-element records of a basis set family: element, source
filename, content digest, and the recommended orbital configuration when
the family carries one.

Example:
  basiskit show OpenMX/19/standard-soft --db ./basis.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// recordRow is the JSON projection of one family entry.
type recordRow struct {
	Element              string `json:"element"`
	Filename             string `json:"filename"`
	MD5                  string `json:"md5"`
	OrbitalConfiguration string `json:"orbital_configuration,omitempty"`
}

func runShow(opts *ShowOptions, labelArg string, cmd *cobra.Command) error {
	label, err := family.NewLabel(labelArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid label", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	fam, err := st.ResolveFamily(cmd.Context(), label)
	if err != nil {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		_ = formatter.Error(string(basis.CodeOf(err)), err.Error(), nil)
		return WrapDomainError("show failed", err)
	}

	configs := fam.OrbitalConfigurations()

	rows := make([]recordRow, 0, fam.Count())
	for _, entry := range fam.Entries() {
		row := recordRow{
			Element:  entry.Element,
			Filename: entry.Record.Filename,
			MD5:      entry.Record.MD5,
		}
		if config, ok := configs[entry.Element]; ok {
			row.OrbitalConfiguration = formatOrbitalConfiguration(config)
		}
		rows = append(rows, row)
	}

	// Records iterate in insertion order; display sorts by element.
	sort.Slice(rows, func(i, j int) bool { return rows[i].Element < rows[j].Element })

	out := cmd.OutOrStdout()

	if opts.Format == "json" {
		return json.NewEncoder(out).Encode(CLIResponse{Status: "ok", Data: map[string]any{
			"label":   string(fam.Label),
			"records": rows,
		}})
	}

	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	if len(configs) > 0 {
		fmt.Fprintln(w, "ELEMENT\tBASIS\tMD5\tORBITAL CONFIGURATION")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Element, row.Filename, row.MD5, row.OrbitalConfiguration)
		}
	} else {
		fmt.Fprintln(w, "ELEMENT\tBASIS\tMD5")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", row.Element, row.Filename, row.MD5)
		}
	}
	return w.Flush()
}

// formatOrbitalConfiguration renders shell counts as s2p1d1f0.
func formatOrbitalConfiguration(config family.OrbitalConfiguration) string {
	channels := [4]string{"s", "p", "d", "f"}
	formatted := ""
	for i, n := range config {
		formatted += fmt.Sprintf("%s%d", channels[i], n)
	}
	return formatted
}
