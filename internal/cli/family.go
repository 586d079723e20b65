package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/basiskit/internal/basis"
	"github.com/roach88/basiskit/internal/family"
	"github.com/roach88/basiskit/internal/store"
)

// FamilyOptions holds flags shared by the family subcommands.
type FamilyOptions struct {
	*RootOptions
	Database string
}

// NewFamilyCommand creates the family command group for post-creation
// edits of an installed family.
func NewFamilyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FamilyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "family",
		Short: "Edit an installed basis set family",
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newFamilyAddCommand(opts))
	cmd.AddCommand(newFamilyRemoveCommand(opts))

	return cmd
}

func newFamilyAddCommand(opts *FamilyOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <label> <basis-file>",
		Short: "Add a basis record to a family",
		Long: `Parse a local basis file into a record and add it to an installed
family. Fails if the family already covers the record's element.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFamilyAdd(opts, args[0], args[1], cmd)
		},
	}
}

func newFamilyRemoveCommand(opts *FamilyOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <label> <element>",
		Short: "Remove an element's basis record from a family",
		Long: `Remove the membership for one element from an installed family.
The record itself is kept; it may be shared with other families.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFamilyRemove(opts, args[0], args[1], cmd)
		},
	}
}

func runFamilyAdd(opts *FamilyOptions, labelArg, path string, cmd *cobra.Command) error {
	label, err := family.NewLabel(labelArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid label", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read basis file", err)
	}

	rec, err := basis.NewRecordFromFile(basis.KindPAO, filepath.Base(path), content)
	if err != nil {
		return reportDomainError(opts, cmd, "add failed", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if err := st.AddMembership(cmd.Context(), label, rec); err != nil {
		return reportDomainError(opts, cmd, "add failed", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added basis for `%s` to `%s`\n", rec.Element, label)
	return nil
}

func runFamilyRemove(opts *FamilyOptions, labelArg, element string, cmd *cobra.Command) error {
	label, err := family.NewLabel(labelArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid label", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if err := st.RemoveMembership(cmd.Context(), label, element); err != nil {
		return reportDomainError(opts, cmd, "remove failed", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed basis for `%s` from `%s`\n", element, label)
	return nil
}

func reportDomainError(opts *FamilyOptions, cmd *cobra.Command, message string, err error) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	_ = formatter.Error(string(basis.CodeOf(err)), err.Error(), nil)
	return WrapDomainError(message, err)
}
