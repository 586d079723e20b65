package importer

import (
	"archive/tar"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// archiveFile is one regular file extracted from a basis archive, in
// archive order.
type archiveFile struct {
	Name    string
	Content []byte
}

// extractTarGz reads a tar.gz archive into memory, preserving entry order.
//
// An archive that wraps all its files in a single top-level directory is
// unwrapped, matching the layout of published basis set archives. Entries
// nested any deeper, or non-file entries other than directories, fail the
// extraction: an archive is expected to contain only basis files.
func extractTarGz(r io.Reader) ([]archiveFile, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decompress archive: %w", err)
	}
	defer gz.Close()

	var files []archiveFile

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}

		name := path.Clean(header.Name)
		if name == "." || strings.HasPrefix(name, "..") {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			continue
		case tar.TypeReg:
			content, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read archive entry %s: %w", name, err)
			}
			files = append(files, archiveFile{Name: name, Content: content})
		default:
			return nil, fmt.Errorf("archive entry %s is not a regular file", name)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("archive contains no files")
	}

	return unwrapSingleDir(files)
}

// unwrapSingleDir strips a shared top-level directory from all entries.
// After unwrapping, every entry must be a bare filename.
func unwrapSingleDir(files []archiveFile) ([]archiveFile, error) {
	prefix := ""
	for i, f := range files {
		dir, _ := path.Split(f.Name)
		if i == 0 {
			prefix = dir
			continue
		}
		if dir != prefix {
			return nil, fmt.Errorf("archive mixes directories: %s and %s", prefix, dir)
		}
	}

	if prefix != "" && strings.Count(strings.TrimSuffix(prefix, "/"), "/") > 0 {
		return nil, fmt.Errorf("archive nests files more than one directory deep: %s", prefix)
	}

	for i := range files {
		files[i].Name = strings.TrimPrefix(files[i].Name, prefix)
	}

	return files, nil
}
