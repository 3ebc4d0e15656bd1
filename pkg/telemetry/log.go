package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Log records scan and onboarding events into a Store and mirrors them
// into Metrics. Recording never fails the caller; store errors are logged.
// A nil *Log is valid: it records nothing and reports empty history.
type Log struct {
	store         Store
	metrics       *Metrics
	scanCap       int
	onboardingCap int
	now           func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithCaps overrides the history caps.
func WithCaps(scans, onboarding int) Option {
	return func(l *Log) {
		if scans > 0 {
			l.scanCap = scans
		}
		if onboarding > 0 {
			l.onboardingCap = onboarding
		}
	}
}

// WithMetrics mirrors recorded events into Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(l *Log) { l.metrics = m }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// NewLog creates a telemetry log over store.
func NewLog(store Store, opts ...Option) *Log {
	l := &Log{
		store:         store,
		scanCap:       DefaultScanCap,
		onboardingCap: DefaultOnboardingCap,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Metrics returns the attached collectors, or nil.
func (l *Log) Metrics() *Metrics {
	if l == nil {
		return nil
	}
	return l.metrics
}

// RecordScan appends a scan event, stamping its id and time.
func (l *Log) RecordScan(ctx context.Context, e ScanEvent) {
	if l == nil {
		return
	}
	e.ID = uuid.NewString()
	e.Timestamp = l.now().UTC()
	e.TotalFound = e.WiFiFound + e.ZWaveFound

	if l.metrics != nil {
		l.metrics.scans.Inc()
		l.metrics.candidates.WithLabelValues("wifi").Add(float64(e.WiFiFound))
		l.metrics.candidates.WithLabelValues("zwave").Add(float64(e.ZWaveFound))
	}

	if err := l.store.AppendScan(ctx, e, l.scanCap); err != nil {
		log.Error().Err(err).Msg("Failed to record discovery event")
		return
	}
	log.Debug().
		Int("wifi_found", e.WiFiFound).
		Int("zwave_found", e.ZWaveFound).
		Int64("duration_ms", e.DurationMS).
		Msg("Recorded discovery event")
}

// RecordOnboarding appends an onboarding event.
func (l *Log) RecordOnboarding(ctx context.Context, deviceID, deviceName, transport string, status OnboardingStatus) {
	if l == nil {
		return
	}
	e := OnboardingEvent{
		ID:         uuid.NewString(),
		Timestamp:  l.now().UTC(),
		DeviceID:   deviceID,
		DeviceName: deviceName,
		Type:       transport,
		Status:     status,
	}

	if l.metrics != nil {
		l.metrics.onboarding.WithLabelValues(string(status)).Inc()
	}

	if err := l.store.AppendOnboarding(ctx, e, l.onboardingCap); err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("Failed to record onboarding event")
		return
	}
	log.Debug().
		Str("device_id", deviceID).
		Str("type", transport).
		Str("status", string(status)).
		Msg("Recorded onboarding event")
}

// RecordFallback counts a scan source replaced by mock output.
func (l *Log) RecordFallback(transport string) {
	if l == nil || l.metrics == nil {
		return
	}
	l.metrics.fallbacks.WithLabelValues(transport).Inc()
}

// SetRegisteredDevices updates the registry size gauge.
func (l *Log) SetRegisteredDevices(n int) {
	if l == nil || l.metrics == nil {
		return
	}
	l.metrics.devices.Set(float64(n))
}

// DiscoveryHistory returns at most limit scans, newest first.
func (l *Log) DiscoveryHistory(ctx context.Context, limit int) ([]ScanEvent, error) {
	if l == nil {
		return []ScanEvent{}, nil
	}
	return l.store.Scans(ctx, limit)
}

// OnboardingHistory returns at most limit onboarding events, newest first.
func (l *Log) OnboardingHistory(ctx context.Context, limit int) ([]OnboardingEvent, error) {
	if l == nil {
		return []OnboardingEvent{}, nil
	}
	return l.store.Onboardings(ctx, limit)
}

// ScanSummary returns the last scan and how many devices were added since.
// It returns nil when no scan has been recorded.
func (l *Log) ScanSummary(ctx context.Context) (*ScanSummary, error) {
	if l == nil {
		return nil, nil
	}
	scans, err := l.store.Scans(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(scans) == 0 {
		return nil, nil
	}
	last := scans[0]

	events, err := l.store.Onboardings(ctx, l.onboardingCap)
	if err != nil {
		return nil, err
	}

	summary := &ScanSummary{ScanEvent: last}
	for _, e := range events {
		if e.Status == OnboardingAdded && !e.Timestamp.Before(last.Timestamp) {
			summary.DevicesAdded++
		}
	}
	return summary, nil
}
