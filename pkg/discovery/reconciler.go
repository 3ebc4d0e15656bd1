package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds each source's scan.
const DefaultTimeout = 5 * time.Second

// Lister is the part of the registry discovery reads.
type Lister interface {
	ListDevices(ctx context.Context) ([]device.Device, error)
}

// SourceReport describes what one transport's scan produced.
type SourceReport struct {
	Name          string `json:"name"`
	Transport     string `json:"transport"`
	DiscoveredVia string `json:"discovered_via"`
	Count         int    `json:"count"`
	Fallback      bool   `json:"fallback"`
	Error         string `json:"error,omitempty"`
}

// Summary counts a scan's outcome. Device counts are after filtering out
// registered devices.
type Summary struct {
	WiFiDevices       int            `json:"wifi_devices"`
	ZWaveDevices      int            `json:"zwave_devices"`
	TotalDiscovered   int            `json:"total_discovered"`
	AlreadyRegistered int            `json:"already_registered"`
	DurationMS        int64          `json:"duration_ms"`
	Sources           []SourceReport `json:"sources"`
}

// Result is the outcome of a discovery scan.
type Result struct {
	DiscoveredDevices []device.Candidate `json:"discovered_devices"`
	Summary           Summary            `json:"discovery_summary"`
	Methods           map[string]string  `json:"discovery_methods"`
}

// Reconciler runs the scan sources and filters their candidates against
// the registry.
type Reconciler struct {
	registry Lister
	sources  map[device.Transport]Source
	timeout  time.Duration
	tel      *telemetry.Log
	now      func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithSource sets the scan source for the source's transport.
func WithSource(src Source) Option {
	return func(r *Reconciler) {
		if src != nil {
			r.sources[src.Transport()] = src
		}
	}
}

// WithTimeout bounds each source's scan.
func WithTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithTelemetry records every scan and fallback.
func WithTelemetry(l *telemetry.Log) Option {
	return func(r *Reconciler) { r.tel = l }
}

// WithClock replaces the time source used to measure scan duration.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// NewReconciler creates a reconciler. Transports without a configured
// source use the mock source.
func NewReconciler(registry Lister, opts ...Option) *Reconciler {
	r := &Reconciler{
		registry: registry,
		sources:  map[device.Transport]Source{},
		timeout:  DefaultTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, t := range device.Transports {
		if _, ok := r.sources[t]; !ok {
			r.sources[t] = NewMockSource(t)
		}
	}
	return r
}

// Discover scans every transport.
func (r *Reconciler) Discover(ctx context.Context) (*Result, error) {
	return r.run(ctx, device.Transports)
}

// DiscoverTransport scans a single transport.
func (r *Reconciler) DiscoverTransport(ctx context.Context, transport device.Transport) (*Result, error) {
	if _, ok := device.ParseTransport(string(transport)); !ok {
		return nil, fmt.Errorf("%w: unknown transport %q", device.ErrValidation, transport)
	}
	return r.run(ctx, []device.Transport{transport})
}

type scanOutcome struct {
	candidates []device.Candidate
	report     SourceReport
	method     string
}

func (r *Reconciler) run(ctx context.Context, transports []device.Transport) (*Result, error) {
	start := r.now()

	outcomes := make([]scanOutcome, len(transports))
	var g errgroup.Group
	for i, t := range transports {
		src := r.sources[t]
		g.Go(func() error {
			outcomes[i] = r.scan(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	registered, err := r.registry.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DiscoveredDevices: []device.Candidate{},
		Methods:           map[string]string{},
	}
	mock := false
	for _, o := range outcomes {
		result.Methods[o.report.Transport] = o.method
		result.Summary.Sources = append(result.Summary.Sources, o.report)
		if o.report.DiscoveredVia == ViaMock {
			mock = true
		}

		for _, c := range o.candidates {
			if isRegistered(c, registered) {
				result.Summary.AlreadyRegistered++
				continue
			}
			result.DiscoveredDevices = append(result.DiscoveredDevices, c)
			switch c.Transport {
			case device.TransportWiFi:
				result.Summary.WiFiDevices++
			case device.TransportZWave:
				result.Summary.ZWaveDevices++
			}
		}
	}
	result.Summary.TotalDiscovered = len(result.DiscoveredDevices)
	result.Summary.DurationMS = r.now().Sub(start).Milliseconds()

	r.tel.RecordScan(ctx, telemetry.ScanEvent{
		WiFiFound:   result.Summary.WiFiDevices,
		ZWaveFound:  result.Summary.ZWaveDevices,
		FilteredOut: result.Summary.AlreadyRegistered,
		DurationMS:  result.Summary.DurationMS,
		Mock:        mock,
	})

	log.Info().
		Int("wifi", result.Summary.WiFiDevices).
		Int("zwave", result.Summary.ZWaveDevices).
		Int("already_registered", result.Summary.AlreadyRegistered).
		Int64("duration_ms", result.Summary.DurationMS).
		Msg("Discovery completed")

	return result, nil
}

// scan runs src under the per-source timeout, substituting mock output
// when it fails.
func (r *Reconciler) scan(ctx context.Context, src Source) scanOutcome {
	transport := src.Transport()
	report := SourceReport{
		Name:      src.Name(),
		Transport: string(transport),
	}

	sctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	candidates, err := src.Scan(sctx)
	method := src.Method()
	if err != nil {
		log.Warn().
			Err(err).
			Str("source", src.Name()).
			Str("transport", string(transport)).
			Msg("Scan source unavailable, using mock candidates")
		r.tel.RecordFallback(string(transport))

		fallback := NewMockSource(transport)
		candidates = MockCandidates(transport)
		method = fallback.Method()
		report.Fallback = true
		report.Error = err.Error()
	}

	report.Count = len(candidates)
	report.DiscoveredVia = via(src, report.Fallback)
	return scanOutcome{candidates: candidates, report: report, method: method}
}

func via(src Source, fallback bool) string {
	if fallback {
		return ViaMock
	}
	switch src.(type) {
	case *ZeroconfSource:
		return ViaZeroconf
	case *ZWaveJSSource:
		return ViaZWaveJS
	case *MockSource:
		return ViaMock
	default:
		return src.Name()
	}
}

func isRegistered(c device.Candidate, registered []device.Device) bool {
	for i := range registered {
		if c.Matches(&registered[i]) {
			return true
		}
	}
	return false
}
