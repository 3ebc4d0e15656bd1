// Package discovery finds devices that could be added to the registry. Each
// transport has one scan source; a source that fails or times out is
// replaced by deterministic mock output so a scan never fails the caller.
package discovery

import (
	"context"

	"github.com/urmzd/myhub/pkg/device"
)

// Discovery methods reported in candidates' discovered_via field.
const (
	ViaZeroconf = "zeroconf"
	ViaZWaveJS  = "zwave-js"
	ViaMock     = "mock"
)

// Source scans one transport for candidates.
type Source interface {
	// Name identifies the source in logs and scan reports
	Name() string

	// Transport is the transport whose candidates the source returns
	Transport() device.Transport

	// Method is a human readable description of how the source scans
	Method() string

	// Scan returns the candidates currently visible. It must return when
	// ctx is done.
	Scan(ctx context.Context) ([]device.Candidate, error)
}
