// Package filestore keeps the device registry in a single JSON or YAML file
// that is loaded once and rewritten atomically on every mutation.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/myhub/pkg/device"
	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of the registry file.
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension; anything that is
// not .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Store is a device.Store backed by one file holding an ordered list of
// device records.
type Store struct {
	mu      sync.RWMutex
	path    string
	format  Format
	devices []device.Device
	existed bool
}

// Open loads the registry file at path. A missing file is an empty
// registry. A file that cannot be parsed is moved aside to <path>.backup and
// the registry starts empty.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: failed to create registry directory: %v", device.ErrStore, err)
	}

	s := &Store{
		path:   path,
		format: FormatFor(path),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("Registry file not found, starting empty")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read registry: %v", device.ErrStore, err)
	}

	devices, err := s.decode(data)
	if err != nil {
		backup := path + ".backup"
		log.Error().Err(err).Str("path", path).Str("backup", backup).Msg("Registry file is corrupted, moving it aside")
		if rerr := os.Rename(path, backup); rerr != nil {
			return nil, fmt.Errorf("%w: failed to back up corrupted registry: %v", device.ErrStore, rerr)
		}
		return s, nil
	}

	s.devices = devices
	s.existed = true
	log.Info().Str("path", path).Int("devices", len(devices)).Msg("Registry loaded")
	return s, nil
}

// Path returns the registry file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Backend() string {
	return "file"
}

func (s *Store) Load(ctx context.Context) ([]device.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]device.Device, len(s.devices))
	copy(out, s.devices)
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*device.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		d := s.devices[i]
		return &d, nil
	}
	return nil, device.ErrNotFound
}

func (s *Store) Put(ctx context.Context, d device.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]device.Device, len(s.devices), len(s.devices)+1)
	copy(next, s.devices)
	if i := s.index(d.ID); i >= 0 {
		next[i] = d
	} else {
		next = append(next, d)
	}

	if err := s.write(next); err != nil {
		return err
	}
	s.devices = next
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return device.ErrNotFound
	}

	next := make([]device.Device, 0, len(s.devices)-1)
	next = append(next, s.devices[:i]...)
	next = append(next, s.devices[i+1:]...)

	if err := s.write(next); err != nil {
		return err
	}
	s.devices = next
	return nil
}

func (s *Store) Close() error {
	return nil
}

// NeedsBootstrap reports whether the registry file was absent (or had to be
// moved aside) when the store was opened.
func (s *Store) NeedsBootstrap(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.existed, nil
}

// MarkBootstrapped makes sure the registry file exists, so the next start
// does not bootstrap again.
func (s *Store) MarkBootstrapped(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.write(s.devices); err != nil {
			return err
		}
	}
	s.existed = true
	return nil
}

// index must be called with s.mu held.
func (s *Store) index(id string) int {
	for i := range s.devices {
		if s.devices[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) decode(data []byte) ([]device.Device, error) {
	var devices []device.Device
	if len(strings.TrimSpace(string(data))) == 0 {
		return devices, nil
	}

	var err error
	switch s.format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &devices)
	default:
		err = json.Unmarshal(data, &devices)
	}
	if err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *Store) encode(devices []device.Device) ([]byte, error) {
	if devices == nil {
		devices = []device.Device{}
	}
	switch s.format {
	case FormatYAML:
		return yaml.Marshal(devices)
	default:
		return json.MarshalIndent(devices, "", "  ")
	}
}

// write encodes devices and replaces the registry file.
func (s *Store) write(devices []device.Device) error {
	data, err := s.encode(devices)
	if err != nil {
		return fmt.Errorf("%w: failed to encode registry: %v", device.ErrStore, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: failed to write registry: %v", device.ErrStore, err)
	}

	log.Debug().Str("path", s.path).Int("devices", len(devices)).Msg("Registry saved")
	return nil
}
