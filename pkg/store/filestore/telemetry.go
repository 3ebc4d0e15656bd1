package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/telemetry"
)

// TelemetryFile is the file name used next to the registry file.
const TelemetryFile = "telemetry.json"

const telemetryVersion = "1.0"

// Telemetry is a telemetry.Store kept in a single JSON file. Before each
// write the current file is copied to <path>.backup, which is read back
// when the main file is missing its histories or cannot be parsed.
type Telemetry struct {
	mu         sync.RWMutex
	path       string
	createdAt  time.Time
	scans      []telemetry.ScanEvent
	onboarding []telemetry.OnboardingEvent
}

type telemetryDoc struct {
	DiscoveryHistory  []telemetry.ScanEvent       `json:"discovery_history"`
	OnboardingHistory []telemetry.OnboardingEvent `json:"onboarding_history"`
	Metadata          telemetryMeta               `json:"metadata"`
}

type telemetryMeta struct {
	CreatedAt time.Time `json:"created_at"`
	Version   string    `json:"version"`
}

// OpenTelemetry loads the telemetry file at path, falling back to its
// backup and then to empty histories. The file is created if missing.
func OpenTelemetry(path string) (*Telemetry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: failed to create telemetry directory: %v", device.ErrStore, err)
	}

	t := &Telemetry{path: path}

	doc, err := readTelemetry(path)
	if err == nil {
		t.load(doc)
		log.Info().Str("path", path).Int("scans", len(t.scans)).Int("onboarding", len(t.onboarding)).Msg("Telemetry loaded")
		return t, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		log.Error().Err(err).Str("path", path).Msg("Failed to read telemetry file, trying backup")
	}

	backup := path + ".backup"
	if doc, berr := readTelemetry(backup); berr == nil {
		log.Info().Str("backup", backup).Msg("Restoring telemetry from backup")
		t.load(doc)
	} else {
		if !errors.Is(err, os.ErrNotExist) || !errors.Is(berr, os.ErrNotExist) {
			log.Warn().Err(berr).Str("path", path).Msg("Telemetry backup unusable, starting empty")
		}
		t.createdAt = time.Now().UTC()
	}

	// Restore or create the main file, leaving any backup untouched.
	data, err := t.encode()
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return nil, fmt.Errorf("%w: failed to write telemetry: %v", device.ErrStore, err)
	}
	return t, nil
}

// Path returns the telemetry file location.
func (t *Telemetry) Path() string {
	return t.path
}

func (t *Telemetry) AppendScan(ctx context.Context, e telemetry.ScanEvent, limit int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.scans
	t.scans = telemetry.AppendCapped(append([]telemetry.ScanEvent(nil), t.scans...), e, limit)
	if err := t.write(); err != nil {
		t.scans = prev
		return err
	}
	return nil
}

func (t *Telemetry) AppendOnboarding(ctx context.Context, e telemetry.OnboardingEvent, limit int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.onboarding
	t.onboarding = telemetry.AppendCapped(append([]telemetry.OnboardingEvent(nil), t.onboarding...), e, limit)
	if err := t.write(); err != nil {
		t.onboarding = prev
		return err
	}
	return nil
}

func (t *Telemetry) Scans(ctx context.Context, limit int) ([]telemetry.ScanEvent, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return telemetry.NewestFirst(t.scans, limit), nil
}

func (t *Telemetry) Onboardings(ctx context.Context, limit int) ([]telemetry.OnboardingEvent, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return telemetry.NewestFirst(t.onboarding, limit), nil
}

func (t *Telemetry) Close() error {
	return nil
}

func (t *Telemetry) load(doc *telemetryDoc) {
	t.scans = doc.DiscoveryHistory
	t.onboarding = doc.OnboardingHistory
	t.createdAt = doc.Metadata.CreatedAt
	if t.createdAt.IsZero() {
		t.createdAt = time.Now().UTC()
	}
}

func (t *Telemetry) encode() ([]byte, error) {
	doc := telemetryDoc{
		DiscoveryHistory:  t.scans,
		OnboardingHistory: t.onboarding,
		Metadata:          telemetryMeta{CreatedAt: t.createdAt, Version: telemetryVersion},
	}
	if doc.DiscoveryHistory == nil {
		doc.DiscoveryHistory = []telemetry.ScanEvent{}
	}
	if doc.OnboardingHistory == nil {
		doc.OnboardingHistory = []telemetry.OnboardingEvent{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode telemetry: %v", device.ErrStore, err)
	}
	return data, nil
}

// write must be called with t.mu held.
func (t *Telemetry) write() error {
	data, err := t.encode()
	if err != nil {
		return err
	}

	if current, err := os.ReadFile(t.path); err == nil {
		if err := writeFileAtomic(t.path+".backup", current); err != nil {
			return fmt.Errorf("%w: failed to back up telemetry: %v", device.ErrStore, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: failed to read telemetry: %v", device.ErrStore, err)
	}

	if err := writeFileAtomic(t.path, data); err != nil {
		return fmt.Errorf("%w: failed to write telemetry: %v", device.ErrStore, err)
	}
	log.Debug().Str("path", t.path).Int("scans", len(t.scans)).Int("onboarding", len(t.onboarding)).Msg("Telemetry saved")
	return nil
}

// Events written by older hubs carry no id and zone-less timestamps.
type scanRecord struct {
	telemetry.ScanEvent
	Timestamp string `json:"timestamp"`
}

type onboardingRecord struct {
	telemetry.OnboardingEvent
	Timestamp string `json:"timestamp"`
}

type telemetryRecord struct {
	DiscoveryHistory  *[]scanRecord       `json:"discovery_history"`
	OnboardingHistory *[]onboardingRecord `json:"onboarding_history"`
	Metadata          struct {
		CreatedAt string `json:"created_at"`
	} `json:"metadata"`
}

func readTelemetry(path string) (*telemetryDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rec telemetryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.DiscoveryHistory == nil || rec.OnboardingHistory == nil {
		return nil, fmt.Errorf("telemetry file %s has no histories", path)
	}

	doc := &telemetryDoc{
		DiscoveryHistory:  make([]telemetry.ScanEvent, 0, len(*rec.DiscoveryHistory)),
		OnboardingHistory: make([]telemetry.OnboardingEvent, 0, len(*rec.OnboardingHistory)),
	}
	for _, r := range *rec.DiscoveryHistory {
		e := r.ScanEvent
		if e.Timestamp, err = device.ParseTime(r.Timestamp); err != nil {
			return nil, err
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.TotalFound == 0 {
			e.TotalFound = e.WiFiFound + e.ZWaveFound
		}
		doc.DiscoveryHistory = append(doc.DiscoveryHistory, e)
	}
	for _, r := range *rec.OnboardingHistory {
		e := r.OnboardingEvent
		if e.Timestamp, err = device.ParseTime(r.Timestamp); err != nil {
			return nil, err
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		doc.OnboardingHistory = append(doc.OnboardingHistory, e)
	}
	if doc.Metadata.CreatedAt, err = device.ParseTime(rec.Metadata.CreatedAt); err != nil {
		return nil, err
	}
	doc.Metadata.Version = telemetryVersion
	return doc, nil
}
