package camera

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source grabs one frame per call, already encoded for the wire.
type Source interface {
	Grab() ([]byte, error)
}

// DirSource cycles through the jpeg frames of a directory, a stand-in for
// a camera device in development and tests.
type DirSource struct {
	dir   string
	files []string
	next  int
}

func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".jpg") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no jpg frames in '%s'", dir)
	}
	sort.Strings(files)

	return &DirSource{dir: dir, files: files}, nil
}

func (s *DirSource) Grab() ([]byte, error) {
	frame, err := os.ReadFile(filepath.Join(s.dir, s.files[s.next]))
	if err != nil {
		return nil, err
	}
	s.next = (s.next + 1) % len(s.files)
	return frame, nil
}
