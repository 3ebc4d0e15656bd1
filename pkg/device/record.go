package device

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// record is the on-disk shape of a Device. Older registry files carry the
// transport (or sometimes the kind) under "type", use "unknown" as status
// and write timestamps without a zone offset.
type record struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Transport    string    `json:"transport" yaml:"transport"`
	Type         string    `json:"type" yaml:"type"`
	Kind         string    `json:"kind" yaml:"kind"`
	Status       string    `json:"status" yaml:"status"`
	IP           string    `json:"ip" yaml:"ip"`
	NodeID       int       `json:"node_id" yaml:"node_id"`
	Manufacturer string    `json:"manufacturer" yaml:"manufacturer"`
	Product      string    `json:"product" yaml:"product"`
	AddedAt      timestamp `json:"added_at" yaml:"added_at"`
	UpdatedAt    timestamp `json:"updated_at" yaml:"updated_at"`
}

// UnmarshalJSON accepts both current and legacy registry records.
func (d *Device) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*d = r.device()
	return nil
}

// UnmarshalYAML accepts both current and legacy registry records.
func (d *Device) UnmarshalYAML(value *yaml.Node) error {
	var r record
	if err := value.Decode(&r); err != nil {
		return err
	}
	*d = r.device()
	return nil
}

func (r *record) device() Device {
	d := Device{
		ID:           r.ID,
		Name:         r.Name,
		IP:           r.IP,
		NodeID:       r.NodeID,
		Manufacturer: r.Manufacturer,
		Product:      r.Product,
		AddedAt:      time.Time(r.AddedAt),
		UpdatedAt:    time.Time(r.UpdatedAt),
	}

	d.Transport, _ = ParseTransport(strings.ToLower(r.Transport))
	kind := strings.ToLower(r.Kind)
	if typ := strings.ToLower(r.Type); typ != "" {
		if t, ok := ParseTransport(typ); ok {
			if d.Transport == "" {
				d.Transport = t
			}
		} else if kind == "" {
			kind = typ
		}
	}
	if d.Transport == "" {
		switch {
		case d.IP != "":
			d.Transport = TransportWiFi
		case d.NodeID != 0:
			d.Transport = TransportZWave
		}
	}

	if k, ok := ParseKind(kind); ok {
		d.Kind = k
	} else {
		d.Kind = KindUnknown
	}

	if Status(strings.ToLower(r.Status)) == StatusOn {
		d.Status = StatusOn
	} else {
		d.Status = StatusOff
	}

	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.AddedAt
	}
	return d
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// ParseTime reads RFC 3339 as well as zone-less ISO 8601 times, which are
// taken as UTC. An empty string is the zero time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

type timestamp time.Time

func (t *timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = timestamp(parsed)
	return nil
}

func (t *timestamp) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*t = timestamp{}
		return nil
	}
	parsed, err := ParseTime(value.Value)
	if err != nil {
		return err
	}
	*t = timestamp(parsed)
	return nil
}
