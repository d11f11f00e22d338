// Package settings reads and writes the settings blob shared with the web
// client configurator. The blob is a JSON document of named sections; the
// launcher consumes the commands and controller sections and persists the
// controller token.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"

	"github.com/mfulz/gns3launch/internal/configloader"
	"go.uber.org/zap"
)

// Store persists settings sections.
type Store interface {
	// Load returns a copy of section with missing keys taken from defaults.
	Load(section string, defaults map[string]any) (map[string]any, error)
	// Save merges values into section.
	Save(section string, values map[string]any) error
}

// FileName returns the settings file name for the current OS.
func FileName() string {
	if runtime.GOOS == "windows" {
		return "webclient_pack.ini"
	}
	return "webclient_pack.conf"
}

// DefaultPath returns the user settings file: one in the working directory
// takes precedence over the one in the config directory.
func DefaultPath() string {
	return configloader.UserPath(FileName())
}

// SystemPath returns the system wide settings file.
func SystemPath() string {
	return filepath.Join(configloader.SystemDir(), FileName())
}

// FileStore is a Store backed by a JSON file. Every operation re-reads the
// file so changes made by other programs are picked up; writes replace the
// file atomically.
type FileStore struct {
	mu         sync.Mutex
	path       string
	systemPath string
	version    string
	log        *zap.SugaredLogger
}

// NewFileStore returns a store for path. Values of the optional systemPath
// file apply where the user file sets nothing. version is recorded in the
// file on every write.
func NewFileStore(path, systemPath, version string, log *zap.SugaredLogger) *FileStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FileStore{path: path, systemPath: systemPath, version: version, log: log}
}

// Path returns the user settings file.
func (s *FileStore) Path() string {
	return s.path
}

// All returns a copy of the whole settings document.
func (s *FileStore) All() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged, _, err := s.read()
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *FileStore) Load(section string, defaults map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults = normalize(defaults)
	merged, user, err := s.read()
	if err != nil {
		// A broken file is left untouched; the defaults still apply.
		s.log.Errorf("[settings] Could not read the config file %s: %v", s.path, err)
		sec := map[string]any{}
		fillDefaults(sec, defaults)
		return sec, nil
	}

	sec := sectionOf(merged, section)
	if add := missingDefaults(sec, defaults); len(add) > 0 {
		// Only the user's own values and the new defaults are written;
		// system values stay in the system file.
		userSec := sectionOf(user, section)
		fillDefaults(userSec, add)
		user[section] = userSec
		s.log.Debugf("[settings] Section %s has missing default values, saving configuration", section)
		if err := s.write(user); err != nil {
			s.log.Errorf("[settings] Could not write the config file %s: %v", s.path, err)
		}
		fillDefaults(sec, add)
	}
	return deepCopy(sec), nil
}

func (s *FileStore) Save(section string, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, user, err := s.read()
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", s.path, err)
	}

	sec := sectionOf(user, section)
	merged := deepCopy(sec)
	for k, v := range normalize(values) {
		merged[k] = v
	}
	if reflect.DeepEqual(sec, merged) {
		s.log.Debugf("[settings] Section %s has not changed, skip saving configuration", section)
		return nil
	}
	user[section] = merged
	s.log.Debugf("[settings] Section %s has changed, saving configuration", section)
	return s.write(user)
}

// read returns the effective settings, the user file with missing keys
// supplied by the system file, along with the user file alone. Missing
// files count as empty.
func (s *FileStore) read() (merged, user map[string]any, err error) {
	user, err = readFile(s.path)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		user = map[string]any{}
	}
	merged = deepCopy(user)
	if s.systemPath != "" {
		system, err := readFile(s.systemPath)
		if err != nil {
			s.log.Warnf("[settings] Ignoring system config file %s: %v", s.systemPath, err)
		}
		fillDefaults(merged, system)
	}
	return merged, user, nil
}

func sectionOf(blob map[string]any, section string) map[string]any {
	if sec, ok := blob[section].(map[string]any); ok {
		return deepCopy(sec)
	}
	return map[string]any{}
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	blob := map[string]any{}
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, err
	}
	return blob, nil
}

// write replaces the settings file through a temporary file in the same
// directory so readers never see a partial document.
func (s *FileStore) write(blob map[string]any) error {
	blob["version"] = s.version
	if _, ok := blob["type"]; !ok {
		blob["type"] = "settings"
	}
	data, err := json.MarshalIndent(blob, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".webclient_pack-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return err
	}
	s.log.Debugf("[settings] Configuration saved to %s", s.path)
	return nil
}

// fillDefaults adds missing keys of defaults to sec, descending into nested
// sections. It reports whether sec changed.
func fillDefaults(sec, defaults map[string]any) bool {
	changed := false
	for name, value := range defaults {
		current, ok := sec[name]
		if !ok {
			sec[name] = deepCopyValue(value)
			changed = true
			continue
		}
		nestedDefault, isMap := value.(map[string]any)
		nested, curIsMap := current.(map[string]any)
		if isMap && curIsMap && fillDefaults(nested, nestedDefault) {
			changed = true
		}
	}
	return changed
}

// missingDefaults returns the entries of defaults that sec does not set,
// descending into nested sections.
func missingDefaults(sec, defaults map[string]any) map[string]any {
	out := map[string]any{}
	for name, value := range defaults {
		current, ok := sec[name]
		if !ok {
			out[name] = deepCopyValue(value)
			continue
		}
		nestedDefault, isMap := value.(map[string]any)
		nested, curIsMap := current.(map[string]any)
		if isMap && curIsMap {
			if add := missingDefaults(nested, nestedDefault); len(add) > 0 {
				out[name] = add
			}
		}
	}
	return out
}

// normalize round trips values through JSON so comparisons see the same
// types that a later read produces.
func normalize(values map[string]any) map[string]any {
	data, err := json.Marshal(values)
	if err != nil {
		return deepCopy(values)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return deepCopy(values)
	}
	return out
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopy(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
