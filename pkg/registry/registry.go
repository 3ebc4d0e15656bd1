// Package registry owns the device collection. It validates registrations,
// serializes every read-modify-write against the store and records
// onboarding telemetry.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/telemetry"
)

// Bootstrapper is implemented by stores that remember whether first-run
// seeding already happened.
type Bootstrapper interface {
	NeedsBootstrap(ctx context.Context) (bool, error)
	MarkBootstrapped(ctx context.Context) error
}

// Registry implements device.Registry over a device.Store.
type Registry struct {
	mu    sync.Mutex
	store device.Store
	tel   *telemetry.Log
	now   func() time.Time
}

var _ device.Registry = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithTelemetry records onboarding events and the registry size gauge.
func WithTelemetry(l *telemetry.Log) Option {
	return func(r *Registry) { r.tel = l }
}

// WithClock replaces the time source used for added_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New creates a registry over store.
func New(store device.Store, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the underlying store.
func (r *Registry) Store() device.Store {
	return r.store
}

func (r *Registry) ListDevices(ctx context.Context) ([]device.Device, error) {
	return r.store.Load(ctx)
}

func (r *Registry) GetDevice(ctx context.Context, id string) (*device.Device, error) {
	return r.store.Get(ctx, id)
}

func (r *Registry) AddDevice(ctx context.Context, in device.Input) (*device.Device, error) {
	in, err := in.Validate()
	if err != nil {
		r.tel.RecordOnboarding(ctx, in.ID, in.Name, in.Transport, telemetry.OnboardingFailed)
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.store.Get(ctx, in.ID)
	switch {
	case err == nil:
		r.tel.RecordOnboarding(ctx, in.ID, in.Name, in.Transport, telemetry.OnboardingFailed)
		return nil, fmt.Errorf("%w: device %q already exists", device.ErrDuplicate, in.ID)
	case !errors.Is(err, device.ErrNotFound):
		return nil, err
	}

	d := in.Device(r.now().UTC())
	if err := r.store.Put(ctx, d); err != nil {
		r.tel.RecordOnboarding(ctx, d.ID, d.Name, string(d.Transport), telemetry.OnboardingFailed)
		return nil, err
	}

	log.Info().
		Str("device_id", d.ID).
		Str("transport", string(d.Transport)).
		Str("endpoint", d.Endpoint()).
		Msg("Device added")

	r.tel.RecordOnboarding(ctx, d.ID, d.Name, string(d.Transport), telemetry.OnboardingAdded)
	r.refreshGauge(ctx)
	return &d, nil
}

func (r *Registry) RemoveDevice(ctx context.Context, id string) (*device.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return nil, err
	}

	log.Info().Str("device_id", id).Msg("Device removed")

	r.tel.RecordOnboarding(ctx, d.ID, d.Name, string(d.Transport), telemetry.OnboardingRemoved)
	r.refreshGauge(ctx)
	return d, nil
}

func (r *Registry) SetDeviceState(ctx context.Context, id string, on bool) (*device.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *d
	next.Status = device.StatusFor(on)
	next.UpdatedAt = r.now().UTC()
	if err := r.store.Put(ctx, next); err != nil {
		return nil, err
	}

	log.Debug().Str("device_id", id).Str("status", string(next.Status)).Msg("Device state set")
	return &next, nil
}

func (r *Registry) Health(ctx context.Context) device.Health {
	h := device.Health{
		Status:       "ok",
		Backend:      r.store.Backend(),
		Registry:     "loaded",
		Reachability: "unknown",
	}

	devices, err := r.store.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load registry for health check")
		h.Status = "degraded"
		h.Registry = "error"
		return h
	}

	h.Devices = len(devices)
	for i := range devices {
		if devices[i].IsOn() {
			h.DevicesOn++
		}
	}
	return h
}

// Seed adds samples on first run, when the store implements Bootstrapper
// and reports that it has never been bootstrapped. Invalid or duplicate
// samples are skipped.
func (r *Registry) Seed(ctx context.Context, samples []device.Input) error {
	b, ok := r.store.(Bootstrapper)
	if !ok {
		return nil
	}

	need, err := b.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check bootstrap status: %w", err)
	}
	if !need {
		return nil
	}

	log.Info().Int("samples", len(samples)).Msg("First run detected, seeding registry")
	for _, in := range samples {
		if _, err := r.AddDevice(ctx, in); err != nil {
			log.Warn().Err(err).Str("name", in.Name).Msg("Skipping sample device")
		}
	}

	if err := b.MarkBootstrapped(ctx); err != nil {
		return fmt.Errorf("failed to mark registry bootstrapped: %w", err)
	}
	return nil
}

// SampleDevices are the devices seeded into an empty registry on first run.
func SampleDevices() []device.Input {
	return []device.Input{
		{
			ID:        "living_room_light",
			Name:      "Living Room Light",
			Transport: string(device.TransportWiFi),
			Kind:      string(device.KindLight),
			IP:        "192.168.1.100",
		},
		{
			ID:        "kitchen_switch",
			Name:      "Kitchen Switch",
			Transport: string(device.TransportZWave),
			Kind:      string(device.KindSwitch),
			NodeID:    2,
		},
	}
}

// SyncMetrics publishes the current registry size.
func (r *Registry) SyncMetrics(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshGauge(ctx)
}

// refreshGauge must be called with r.mu held.
func (r *Registry) refreshGauge(ctx context.Context) {
	if r.tel.Metrics() == nil {
		return
	}
	devices, err := r.store.Load(ctx)
	if err != nil {
		return
	}
	r.tel.SetRegisteredDevices(len(devices))
}
