package mapping

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the file extension of per-device map files.
const Extension = ".map"

// Store keeps one map file per physical device under Dir. File names are the
// hex encoding of the normalized device name so any name is filesystem safe.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store { return &Store{Dir: dir} }

// NormalizeName collapses whitespace so cosmetic differences in the name a
// driver reports map to the same profile.
func NormalizeName(device string) string {
	return strings.Join(strings.Fields(device), " ")
}

// Path returns the map file path for device.
func (s *Store) Path(device string) string {
	return filepath.Join(s.Dir, hex.EncodeToString([]byte(NormalizeName(device)))+Extension)
}

// Load reads the profile for device. It returns ErrNotFound when the device
// has no profile and an error wrapping ErrCorrupt when the file is unusable.
func (s *Store) Load(device string) (*Table, Format, error) {
	return Load(s.Path(device))
}

// Save writes the profile for device, replacing any previous file
// atomically.
func (s *Store) Save(device string, t *Table) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	data, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, ".padmap-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path(device))
}

// Delete removes the profile for device. Deleting a missing profile is not
// an error.
func (s *Store) Delete(device string) error {
	err := os.Remove(s.Path(device))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the device names that have a profile, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		name, err := hex.DecodeString(strings.TrimSuffix(e.Name(), Extension))
		if err != nil {
			continue
		}
		out = append(out, string(name))
	}
	sort.Strings(out)
	return out, nil
}

// DeviceFromPath recovers the device name from a map file path.
func DeviceFromPath(path string) (string, error) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, Extension) {
		return "", fmt.Errorf("not a map file: %s", base)
	}
	name, err := hex.DecodeString(strings.TrimSuffix(base, Extension))
	if err != nil {
		return "", fmt.Errorf("not a map file: %s: %w", base, err)
	}
	return string(name), nil
}
