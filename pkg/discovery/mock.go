package discovery

import (
	"context"

	"github.com/urmzd/myhub/pkg/device"
)

// MockSource returns a fixed candidate list for its transport. It never
// fails and stands in for any real source that does.
type MockSource struct {
	transport device.Transport
}

// NewMockSource creates the mock source for transport.
func NewMockSource(transport device.Transport) *MockSource {
	return &MockSource{transport: transport}
}

func (s *MockSource) Name() string {
	return "mock-" + string(s.transport)
}

func (s *MockSource) Transport() device.Transport {
	return s.transport
}

func (s *MockSource) Method() string {
	switch s.transport {
	case device.TransportWiFi:
		return "mock Shelly candidates (no mDNS responder reachable)"
	case device.TransportZWave:
		return "mock Z-Wave candidates (no Z-Wave JS Server reachable)"
	default:
		return "mock candidates"
	}
}

func (s *MockSource) Scan(ctx context.Context) ([]device.Candidate, error) {
	return MockCandidates(s.transport), nil
}

// MockCandidates returns a fresh copy of the mock candidates for transport.
func MockCandidates(transport device.Transport) []device.Candidate {
	switch transport {
	case device.TransportWiFi:
		return []device.Candidate{
			{
				ID:            "shellyplug_s_a1b2c3",
				Name:          "Shelly Plug",
				Transport:     device.TransportWiFi,
				Kind:          device.KindPlug,
				IP:            "192.168.1.201",
				Port:          80,
				Manufacturer:  "Shelly",
				Product:       "Plug S",
				DiscoveredVia: ViaMock,
			},
			{
				ID:            "shellydimmer2_d4e5f6",
				Name:          "Shelly Dimmer",
				Transport:     device.TransportWiFi,
				Kind:          device.KindDimmer,
				IP:            "192.168.1.202",
				Port:          80,
				Manufacturer:  "Shelly",
				Product:       "Dimmer 2",
				DiscoveredVia: ViaMock,
			},
		}
	case device.TransportZWave:
		return []device.Candidate{
			{
				ID:            "zwave_node_2",
				Name:          "Z-Wave Light Switch",
				Transport:     device.TransportZWave,
				Kind:          device.KindSwitch,
				NodeID:        2,
				Manufacturer:  "Aeotec",
				Product:       "Smart Switch 6",
				DiscoveredVia: ViaMock,
			},
			{
				ID:            "zwave_node_3",
				Name:          "Z-Wave Motion Sensor",
				Transport:     device.TransportZWave,
				Kind:          device.KindSensor,
				NodeID:        3,
				Manufacturer:  "Aeotec",
				Product:       "MultiSensor 6",
				DiscoveredVia: ViaMock,
			},
		}
	default:
		return []device.Candidate{}
	}
}
