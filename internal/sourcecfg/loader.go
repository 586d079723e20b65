package sourcecfg

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// schemaCUE constrains user-supplied source descriptor files. Descriptors
// live under a top-level `source` struct keyed by source name.
const schemaCUE = `
#Source: {
	name:             string & !=""
	url_template:     string & !=""
	kind?:            "pao"
	versions?:        [...string]
	default_version?: string
	tiers?:           [...string]
	default_tier?:    string
	label_template?:  string
	elements?:        [...string]
	orbital_configurations?: [string]: [int, int, int, int]
}

source: [Name=string]: #Source & {name: Name}
`

// LoadError represents an error that occurred while loading descriptor
// files.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants for descriptor loading.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeInvalid     = "E007" // Descriptor failed validation
)

// LoadDir loads every CUE descriptor file from a directory into the
// registry, validating each descriptor against the embedded schema.
// Fails fast on the first invalid descriptor; the registry is unchanged on
// failure.
func (r *Registry) LoadDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("sources directory not found: %s", dir)}
	}
	if err != nil {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing sources directory: %v", err)}
	}
	if !info.IsDir() {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("compiling descriptor schema: %v", err)}
	}

	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	unified := value.Unify(schema)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("descriptors do not satisfy the schema: %v", err)}
	}

	sourcesVal := unified.LookupPath(cue.ParsePath("source"))
	if !sourcesVal.Exists() {
		return &LoadError{Code: ErrCodeGeneric, Message: "no source descriptors found"}
	}

	iter, err := sourcesVal.Fields()
	if err != nil {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating sources: %v", err)}
	}

	var loaded []Descriptor
	for iter.Next() {
		var d Descriptor
		if err := iter.Value().Decode(&d); err != nil {
			return &LoadError{
				Code:    ErrCodeInvalid,
				Message: fmt.Sprintf("decoding source `%s`: %v", iter.Label(), err),
				Pos:     iter.Value().Pos(),
			}
		}
		if err := d.validate(); err != nil {
			return &LoadError{
				Code:    ErrCodeInvalid,
				Message: fmt.Sprintf("source `%s`: %v", iter.Label(), err),
				Pos:     iter.Value().Pos(),
			}
		}
		loaded = append(loaded, d)
	}

	// Register only after the whole directory validated.
	for _, d := range loaded {
		r.sources[d.Name] = d
	}

	return nil
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
