package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/basiskit/internal/basis"
	"github.com/roach88/basiskit/internal/family"
	"github.com/roach88/basiskit/internal/importer"
	"github.com/roach88/basiskit/internal/sourcecfg"
	"github.com/roach88/basiskit/internal/store"
)

// InstallOptions holds flags for the install command.
type InstallOptions struct {
	*RootOptions
	Database    string
	Version     string
	Tier        string
	Elements    []string
	Label       string
	Archive     string
	SourcesDir  string
	SourceFile  string
	Description string
}

// NewInstallCommand creates the install command.
func NewInstallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InstallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "install <source>",
		Short: "Install a basis set family from a source",
		Long: `Install a basis set family by downloading and importing basis files
from a named source.

The import is all-or-nothing: it fetches every required basis file, parses
them into records, and commits the family in one transaction. Any failure
aborts the whole install and leaves no partial family behind.

Example:
  basiskit install openmx --db ./basis.db
  basiskit install openmx --db ./basis.db --version 19 --tier precise-hard --elements H,C,O
  basiskit install bse --db ./basis.db --tier sto-3g --archive ./sto-3g.tar.gz --label sto-3g`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Version, "version", "", "source version (defaults to the source's default)")
	cmd.Flags().StringVar(&opts.Tier, "tier", "", "precision tier (defaults to the source's default)")
	cmd.Flags().StringSliceVar(&opts.Elements, "elements", nil, "comma-separated element subset (defaults to the source's element set)")
	cmd.Flags().StringVar(&opts.Label, "label", "", "family label override (defaults to the source's label template)")
	cmd.Flags().StringVar(&opts.Archive, "archive", "", "install from a local tar.gz archive instead of fetching")
	cmd.Flags().StringVar(&opts.SourcesDir, "sources", "", "directory of CUE source descriptor files to merge in")
	cmd.Flags().StringVar(&opts.SourceFile, "source-file", "", "YAML source descriptor file to merge in")
	cmd.Flags().StringVar(&opts.Description, "description", "", "description for the family")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runInstall(opts *InstallOptions, sourceName string, cmd *cobra.Command) error {
	req, err := buildRequest(opts, sourceName)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var fetcher importer.Fetcher = importer.HTTPFetcher{}
	if opts.Archive != "" {
		fetcher = importer.FileFetcher{}
	}

	imp := importer.New(st, fetcher, slog.Default())
	fam, err := imp.Run(cmd.Context(), req)
	if err != nil {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		_ = formatter.Error(string(basis.CodeOf(err)), err.Error(), nil)
		return WrapDomainError("install failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"label":    string(fam.Label),
			"elements": fam.Count(),
		})
	}
	return formatter.Success(fmt.Sprintf("installed `%s` containing %d elements", fam.Label, fam.Count()))
}

// buildRequest resolves the source descriptor and flag defaults into an
// import request.
func buildRequest(opts *InstallOptions, sourceName string) (importer.Request, error) {
	registry := sourcecfg.NewRegistry()
	if opts.SourcesDir != "" {
		if err := registry.LoadDir(opts.SourcesDir); err != nil {
			return importer.Request{}, WrapExitError(ExitCommandError, "failed to load source descriptors", err)
		}
	}
	if opts.SourceFile != "" {
		if err := registry.LoadYAMLFile(opts.SourceFile); err != nil {
			return importer.Request{}, WrapExitError(ExitCommandError, "failed to load source descriptor", err)
		}
	}

	source, err := registry.Resolve(sourceName)
	if err != nil {
		return importer.Request{}, WrapExitError(ExitCommandError, "unknown source", err)
	}

	version := opts.Version
	if version == "" {
		version = source.DefaultVersion
	}
	if !source.ValidVersion(version) {
		return importer.Request{}, NewExitError(ExitCommandError,
			fmt.Sprintf("version %q is not valid for source %s (valid: %s)", version, source.Name, strings.Join(source.Versions, ", ")))
	}

	tier := opts.Tier
	if tier == "" {
		tier = source.DefaultTier
	}
	if !source.ValidTier(tier) {
		return importer.Request{}, NewExitError(ExitCommandError,
			fmt.Sprintf("tier %q is not valid for source %s (valid: %s)", tier, source.Name, strings.Join(source.Tiers, ", ")))
	}

	var label family.Label
	if opts.Label != "" {
		label, err = family.NewLabel(opts.Label)
	} else {
		label, err = source.FormatLabel(version, tier)
	}
	if err != nil {
		return importer.Request{}, WrapExitError(ExitCommandError, "invalid label", err)
	}

	return importer.Request{
		Source:          source,
		Version:         version,
		Tier:            tier,
		Label:           label,
		Elements:        opts.Elements,
		ArchiveOverride: opts.Archive,
		Description:     opts.Description,
	}, nil
}
