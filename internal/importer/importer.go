package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/roach88/basiskit/internal/basis"
	"github.com/roach88/basiskit/internal/family"
	"github.com/roach88/basiskit/internal/sourcecfg"
	"github.com/roach88/basiskit/internal/store"
)

// Version is echoed into the provenance of every installed family.
const Version = "0.1.0"

// Phase identifies the stage an import run is in.
type Phase string

const (
	PhaseFetching   Phase = "FETCHING"
	PhaseParsing    Phase = "PARSING"
	PhaseCommitting Phase = "COMMITTING"
	PhaseDone       Phase = "DONE"
	PhaseFailed     Phase = "FAILED"
)

// Request describes one import: which source, which configuration of it,
// and under which label the resulting family is published.
type Request struct {
	Source  sourcecfg.Descriptor
	Version string
	Tier    string
	Label   family.Label

	// Elements restricts the import to a subset of the source's element
	// set. Nil means the source's declared set, or discovery from the
	// archive for sources without one.
	Elements []string

	// ArchiveOverride replaces the descriptor's URL template with a fixed
	// location (e.g. a local file), for offline installs.
	ArchiveOverride string

	Description string
}

// Importer runs import pipelines against a store.
type Importer struct {
	store   *store.Store
	fetcher Fetcher
	logger  *slog.Logger
}

// New creates an importer. A nil logger falls back to slog.Default.
func New(st *store.Store, fetcher Fetcher, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: st, fetcher: fetcher, logger: logger}
}

// Run executes one import to completion or to its first failure.
//
// The phases run strictly in order. No resumable state is kept: a failed
// run leaves no visible family, and the only persisted effect of a
// successful run is the committed family plus its (shared, deduplicated)
// records.
func (imp *Importer) Run(ctx context.Context, req Request) (*family.Family, error) {
	// A taken label fails before any fetching; the store's UNIQUE
	// constraint remains the safety net for concurrent installs.
	exists, err := imp.store.HasFamily(ctx, req.Label)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, basis.NewAlreadyExists(string(req.Label))
	}

	imp.logger.Info("import phase", "phase", PhaseFetching, "source", req.Source.Name, "label", string(req.Label))
	fetched, err := imp.fetch(ctx, req)
	if err != nil {
		imp.logger.Error("import failed", "phase", PhaseFetching, "error", err)
		return nil, err
	}

	imp.logger.Info("import phase", "phase", PhaseParsing, "files", len(fetched))
	entries, err := imp.parse(ctx, req, fetched)
	if err != nil {
		imp.logger.Error("import failed", "phase", PhaseParsing, "error", err)
		return nil, err
	}

	imp.logger.Info("import phase", "phase", PhaseCommitting, "elements", len(entries))
	fam, err := imp.commit(ctx, req, entries)
	if err != nil {
		imp.logger.Error("import failed", "phase", PhaseCommitting, "error", err)
		return nil, err
	}

	imp.logger.Info("import phase", "phase", PhaseDone, "label", string(fam.Label), "elements", fam.Count())
	return fam, nil
}

// targetElements resolves the element subset an import covers.
func (req Request) targetElements() []string {
	if req.Elements != nil {
		return req.Elements
	}
	return req.Source.Elements
}

// fetch retrieves the raw basis files for the request. Per-element sources
// are fetched one file per element; archive sources are fetched once and
// extracted. Any retrieval failure aborts with SOURCE_UNAVAILABLE.
func (imp *Importer) fetch(ctx context.Context, req Request) ([]archiveFile, error) {
	if req.ArchiveOverride != "" {
		return imp.fetchArchive(ctx, req.ArchiveOverride)
	}

	if req.Source.PerElement() {
		return imp.fetchPerElement(ctx, req)
	}

	location := req.Source.ExpandURL(req.Version, req.Tier, "")
	return imp.fetchArchive(ctx, location)
}

func (imp *Importer) fetchPerElement(ctx context.Context, req Request) ([]archiveFile, error) {
	elements := req.targetElements()
	if len(elements) == 0 {
		return nil, basis.NewSourceUnavailable(req.Source.Name,
			fmt.Errorf("per-element source has no element list to fetch"))
	}

	var files []archiveFile
	for _, element := range elements {
		location := req.Source.ExpandURL(req.Version, req.Tier, element)
		content, err := imp.fetchBytes(ctx, location)
		if err != nil {
			return nil, basis.NewSourceUnavailable(location, err)
		}
		files = append(files, archiveFile{
			Name:    element + "." + string(req.Source.BasisKind()),
			Content: content,
		})
	}
	return files, nil
}

func (imp *Importer) fetchArchive(ctx context.Context, location string) ([]archiveFile, error) {
	body, err := imp.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, basis.NewSourceUnavailable(location, err)
	}
	defer body.Close()

	files, err := extractTarGz(body)
	if err != nil {
		return nil, basis.NewParseError(location, err.Error())
	}
	return files, nil
}

func (imp *Importer) fetchBytes(ctx context.Context, location string) ([]byte, error) {
	body, err := imp.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// parse turns the fetched files into family entries, fail-fast.
//
// Each file must parse as the source's basis kind. When a target element
// subset is known, a file resolving to an element outside it is skipped
// for archive sources and a PARSE_ERROR for per-element sources (the file
// fetched for one element must declare that element). Requested elements
// absent from the fetched set fail with MISSING_ELEMENTS. Records with a
// digest already in the store are reused rather than duplicated.
func (imp *Importer) parse(ctx context.Context, req Request, files []archiveFile) ([]family.Entry, error) {
	kind := req.Source.BasisKind()
	targets := req.targetElements()

	wanted := map[string]bool{}
	for _, element := range targets {
		if !basis.ValidElement(element) {
			return nil, basis.NewInvalidElement(element)
		}
		wanted[element] = true
	}

	perElement := req.Source.PerElement() && req.ArchiveOverride == ""

	seen := map[string]bool{}
	var entries []family.Entry
	for i, file := range files {
		rec, err := basis.NewRecordFromFile(kind, file.Name, file.Content)
		if err != nil {
			return nil, err
		}

		if perElement {
			// File i was fetched for targets[i]; its content must agree.
			expected := targets[i]
			if rec.Element != expected {
				return nil, basis.NewParseError(file.Name,
					fmt.Sprintf("fetched for element `%s` but content declares `%s`", expected, rec.Element))
			}
		} else if len(wanted) > 0 && !wanted[rec.Element] {
			continue
		}

		if seen[rec.Element] {
			return nil, basis.NewDuplicateElement(rec.Element, string(req.Label))
		}
		seen[rec.Element] = true

		existing, err := imp.store.FindRecordByMD5(ctx, kind, rec.MD5)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Element == rec.Element {
			rec = existing
		}

		entries = append(entries, family.Entry{Element: rec.Element, Record: rec})
	}

	if len(wanted) > 0 {
		var missing []string
		for element := range wanted {
			if !seen[element] {
				missing = append(missing, element)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, basis.NewMissingElements(string(req.Label), missing)
		}
	}

	if len(entries) == 0 {
		return nil, basis.NewParseError(req.Source.Name, "no basis files were parsed from the source")
	}

	return entries, nil
}

// commit assembles the family and hands it to the store in one
// transaction, inheriting the family invariant failures and the store's
// ALREADY_EXISTS protection.
func (imp *Importer) commit(ctx context.Context, req Request, entries []family.Entry) (*family.Family, error) {
	provenance := map[string]string{
		"source":    req.Source.Name,
		"version":   req.Version,
		"tier":      req.Tier,
		"installer": "basiskit v" + Version,
	}
	if req.ArchiveOverride != "" {
		provenance["archive"] = req.ArchiveOverride
	} else {
		provenance["url_template"] = req.Source.URLTemplate
	}

	fam, err := family.New(req.Label, entries, provenance)
	if err != nil {
		return nil, err
	}
	fam.Description = req.Description

	if configs := req.Source.OrbitalConfigurations; configs != nil {
		subset := make(map[string]family.OrbitalConfiguration)
		complete := true
		for _, element := range fam.Elements() {
			config, ok := configs[element]
			if !ok {
				complete = false
				break
			}
			subset[element] = config
		}
		// Configurations are attached only when the descriptor covers the
		// whole family; a partial recommendation set is worse than none.
		if complete {
			if err := fam.SetOrbitalConfigurations(subset); err != nil {
				return nil, err
			}
		}
	}

	if err := imp.store.CreateFamily(ctx, fam); err != nil {
		return nil, err
	}

	return fam, nil
}
