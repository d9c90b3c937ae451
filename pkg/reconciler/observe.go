package reconciler

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/constants"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/profile"
)

// ObservedFile is a managed profile found on disk.
type ObservedFile struct {
	Name string
	Path string
	Hash string
	// Err is set when the file exists but could not be read.
	Err error
}

// Observed is the set of managed profiles in the output directory.
type Observed struct {
	Dir   string
	Files map[string]ObservedFile
}

// Names returns the observed file names, sorted.
func (o Observed) Names() []string {
	names := make([]string, 0, len(o.Files))
	for name := range o.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Observe lists the managed profiles in dir and hashes their content.
// The directory is created when missing. Files without the managed prefix
// and extension are ignored.
func Observe(dir string) (Observed, error) {
	return observe(dir, true)
}

// observe lists dir. Without create, a missing directory is observed as
// empty and left missing.
func observe(dir string, create bool) (Observed, error) {
	observed := Observed{Dir: dir, Files: make(map[string]ObservedFile)}

	if create {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return Observed{}, errors.WrapIO("create", dir, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !create && os.IsNotExist(err) {
			return observed, nil
		}
		return Observed{}, errors.WrapIO("list", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !profile.IsManaged(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		file := ObservedFile{Name: entry.Name(), Path: path}

		raw, err := os.ReadFile(path)
		if err != nil {
			file.Err = errors.WrapIO("read", path, err)
		} else {
			file.Hash = profile.HashContent(raw)
		}
		observed.Files[entry.Name()] = file
	}

	return observed, nil
}
