// Package telemetry keeps a bounded history of discovery scans and device
// onboarding outcomes.
package telemetry

import (
	"context"
	"time"
)

// Default history caps
const (
	DefaultScanCap       = 50
	DefaultOnboardingCap = 100
)

// ScanEvent summarizes one discovery scan.
type ScanEvent struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	WiFiFound   int       `json:"wifi_found"`
	ZWaveFound  int       `json:"zwave_found"`
	TotalFound  int       `json:"total_found"`
	FilteredOut int       `json:"filtered_out"`
	DurationMS  int64     `json:"duration_ms"`
	Mock        bool      `json:"mock"`
}

// OnboardingStatus is the outcome of a registry add or remove.
type OnboardingStatus string

// Onboarding statuses
const (
	OnboardingAdded   OnboardingStatus = "added"
	OnboardingFailed  OnboardingStatus = "failed"
	OnboardingRemoved OnboardingStatus = "removed"
)

// OnboardingEvent records a device being added to or removed from the
// registry, or an add that was rejected.
type OnboardingEvent struct {
	ID         string           `json:"id"`
	Timestamp  time.Time        `json:"timestamp"`
	DeviceID   string           `json:"device_id"`
	DeviceName string           `json:"device_name"`
	Type       string           `json:"type"`
	Status     OnboardingStatus `json:"status"`
}

// ScanSummary is the most recent scan plus the number of devices added
// since it ran.
type ScanSummary struct {
	ScanEvent
	DevicesAdded int `json:"devices_added"`
}

// Store persists the two histories. Appends trim the history to the given
// cap, dropping the oldest entries. Reads return newest first.
type Store interface {
	AppendScan(ctx context.Context, e ScanEvent, limit int) error
	AppendOnboarding(ctx context.Context, e OnboardingEvent, limit int) error
	Scans(ctx context.Context, limit int) ([]ScanEvent, error)
	Onboardings(ctx context.Context, limit int) ([]OnboardingEvent, error)
}
