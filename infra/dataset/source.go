package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/kilianp07/matchcast/core/model"
)

// Source loads a dataset snapshot. An empty team list asks for every team
// the source knows about; sources that cannot enumerate teams return an error.
type Source interface {
	Name() string
	Load(ctx context.Context, teams []model.TeamID) (model.Dataset, error)
}

// FileSource reads a dataset document from disk on every Load.
type FileSource struct {
	Path string
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (s *FileSource) Name() string { return "file" }

// Load decodes the file and keeps the requested teams.
func (s *FileSource) Load(ctx context.Context, teams []model.TeamID) (model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()
	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return Subset(ds, teams), nil
}

// WriteFile encodes ds to path, replacing any existing file.
func WriteFile(path string, ds model.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, ds); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Static serves a fixed in-memory dataset.
type Static model.Dataset

func (Static) Name() string { return "static" }

func (s Static) Load(_ context.Context, teams []model.TeamID) (model.Dataset, error) {
	return Subset(model.Dataset(s), teams), nil
}
