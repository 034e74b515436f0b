package saves

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/hamlet/internal/models"
)

const fileExt = ".yaml"

// DefaultSaveDir is where file saves go when no directory is configured
const DefaultSaveDir = ".saves"

// FileStore writes one YAML document per slot into a directory
type FileStore struct {
	dir string
}

// NewFileStore creates the save directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = DefaultSaveDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(slot string) string {
	return filepath.Join(f.dir, slot+fileExt)
}

func (f *FileStore) Save(ctx context.Context, slot string, state *models.GameState) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	snap, err := newSnapshot(slot, state, time.Now())
	if err != nil {
		return Snapshot{}, err
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode %s: %w", slot, err)
	}

	tmp, err := os.CreateTemp(f.dir, slot+"-*.tmp")
	if err != nil {
		return Snapshot{}, fmt.Errorf("write %s: %w", slot, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return Snapshot{}, fmt.Errorf("write %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return Snapshot{}, fmt.Errorf("write %s: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), f.path(slot)); err != nil {
		return Snapshot{}, fmt.Errorf("write %s: %w", slot, err)
	}
	return snap, nil
}

func (f *FileStore) Load(ctx context.Context, slot string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if err := ValidateSlot(slot); err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(f.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, notFound(slot)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", slot, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", slot, err)
	}
	if snap.State == nil {
		return Snapshot{}, fmt.Errorf("decode %s: missing state", slot)
	}
	return snap, nil
}

func (f *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		slot := strings.TrimSuffix(name, fileExt)
		if ValidateSlot(slot) == nil {
			out = append(out, slot)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *FileStore) Close() error { return nil }
