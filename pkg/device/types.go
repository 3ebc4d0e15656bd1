package device

import (
	"encoding/json"
	"fmt"
	"time"
)

// Transport identifies how the hub reaches a device.
type Transport string

// Transport constants
const (
	TransportWiFi  Transport = "wifi"
	TransportZWave Transport = "zwave"
)

// Transports lists every supported transport in scan order.
var Transports = []Transport{TransportWiFi, TransportZWave}

// Kind is the functional category of a device, independent of transport.
type Kind string

// Device kind constants
const (
	KindLight      Kind = "light"
	KindSwitch     Kind = "switch"
	KindPlug       Kind = "plug"
	KindDimmer     Kind = "dimmer"
	KindSensor     Kind = "sensor"
	KindThermostat Kind = "thermostat"
	KindLock       Kind = "lock"
	KindUnknown    Kind = "unknown"
)

var kinds = map[Kind]bool{
	KindLight:      true,
	KindSwitch:     true,
	KindPlug:       true,
	KindDimmer:     true,
	KindSensor:     true,
	KindThermostat: true,
	KindLock:       true,
	KindUnknown:    true,
}

// ParseTransport reports whether s names a transport.
func ParseTransport(s string) (Transport, bool) {
	switch Transport(s) {
	case TransportWiFi, TransportZWave:
		return Transport(s), true
	}
	return "", false
}

// ParseKind reports whether s names a device kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, kinds[k]
}

// Status is the last commanded power state of a device.
type Status string

// Status constants
const (
	StatusOn  Status = "on"
	StatusOff Status = "off"
)

// StatusFor maps a boolean power request onto a Status.
func StatusFor(on bool) Status {
	if on {
		return StatusOn
	}
	return StatusOff
}

// Z-Wave node ids are 1..232 on a classic network.
const (
	MinNodeID = 1
	MaxNodeID = 232
)

// Device is a registered, controllable endpoint. Exactly one of IP and
// NodeID is set, according to Transport.
type Device struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Transport    Transport `json:"transport" yaml:"transport"`
	Kind         Kind      `json:"kind" yaml:"kind"`
	Status       Status    `json:"status" yaml:"status"`
	IP           string    `json:"ip,omitempty" yaml:"ip,omitempty"`
	NodeID       int       `json:"node_id,omitempty" yaml:"node_id,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Product      string    `json:"product,omitempty" yaml:"product,omitempty"`
	AddedAt      time.Time `json:"added_at" yaml:"added_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// Endpoint returns the transport-specific address of the device.
func (d *Device) Endpoint() string {
	switch d.Transport {
	case TransportWiFi:
		return d.IP
	case TransportZWave:
		return fmt.Sprintf("node:%d", d.NodeID)
	default:
		return ""
	}
}

// MarshalJSON also emits the transport under the legacy "type" key.
func (d Device) MarshalJSON() ([]byte, error) {
	type plain Device
	return json.Marshal(struct {
		plain
		Type Transport `json:"type"`
	}{plain(d), d.Transport})
}

// IsOn reports whether the device was last commanded on.
func (d *Device) IsOn() bool {
	return d.Status == StatusOn
}

// Candidate is a device found by a discovery scan that may be added to the
// registry. Candidates are regenerated on every scan and never stored.
type Candidate struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Transport     Transport `json:"transport"`
	Kind          Kind      `json:"kind"`
	IP            string    `json:"ip,omitempty"`
	NodeID        int       `json:"node_id,omitempty"`
	Port          int       `json:"port,omitempty"`
	Manufacturer  string    `json:"manufacturer,omitempty"`
	Product       string    `json:"product,omitempty"`
	DiscoveredVia string    `json:"discovered_via"`
}

// Matches applies the dedup rule: same id, or same ip on wifi, or same node
// id on zwave.
func (c *Candidate) Matches(d *Device) bool {
	if c.ID != "" && c.ID == d.ID {
		return true
	}
	if c.Transport != d.Transport {
		return false
	}
	switch c.Transport {
	case TransportWiFi:
		return c.IP != "" && c.IP == d.IP
	case TransportZWave:
		return c.NodeID != 0 && c.NodeID == d.NodeID
	default:
		return false
	}
}

// Input builds a registration request from the candidate.
func (c *Candidate) Input() Input {
	return Input{
		ID:           c.ID,
		Name:         c.Name,
		Transport:    string(c.Transport),
		Kind:         string(c.Kind),
		IP:           c.IP,
		NodeID:       c.NodeID,
		Manufacturer: c.Manufacturer,
		Product:      c.Product,
	}
}

// Health is a cheap liveness snapshot of the registry. No device is polled,
// so reachability is always reported as unknown.
type Health struct {
	Status       string `json:"status"`
	Backend      string `json:"backend"`
	Registry     string `json:"registry"`
	Devices      int    `json:"devices"`
	DevicesOn    int    `json:"devices_on"`
	Reachability string `json:"reachability"`
}
