package missions

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const cacheFile = "tasks.json"

// Cache persists the last fetched mission list as tasks.json in the working
// folder so the tool stays usable without platform access.
type Cache struct {
	Dir string
}

func (c *Cache) path() string {
	return filepath.Join(c.Dir, cacheFile)
}

// Load returns the cached missions, or an empty list when no cache exists.
func (c *Cache) Load() ([]Mission, error) {
	data, err := os.ReadFile(c.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var missions []Mission
	if err := json.Unmarshal(data, &missions); err != nil {
		return nil, err
	}
	return missions, nil
}

// Save writes the mission list atomically.
func (c *Cache) Save(missions []Mission) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(missions, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.Dir, cacheFile+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path())
}

// Find returns the cached mission with the given id, or nil.
func (c *Cache) Find(id string) (*Mission, error) {
	missions, err := c.Load()
	if err != nil {
		return nil, err
	}
	for i := range missions {
		if missions[i].ID == id {
			return &missions[i], nil
		}
	}
	return nil, nil
}
