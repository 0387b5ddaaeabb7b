package cache

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/lmoralesc/pausia/core"
)

// FileSnapshot persists a single profile as JSON on disk so the dashboard
// can paint a cached profile instantly on the next start. It stores at most
// one snapshot; writing replaces the previous one.
type FileSnapshot struct {
	path string
	mu   sync.Mutex
}

var _ core.ProfileCache = (*FileSnapshot)(nil)

func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

// Get returns the stored profile only when it belongs to subjectID. A
// snapshot left behind by a different subject is treated as absent so a
// previous user's data is never served.
func (f *FileSnapshot) Get(subjectID string) (*core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var profile core.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}

	if profile.ID != subjectID {
		return nil, nil
	}
	return &profile, nil
}

func (f *FileSnapshot) Set(profile *core.Profile) error {
	if profile == nil {
		return f.Clear()
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileSnapshot) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
