package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/myhub/pkg/device"
)

// DefaultZWaveServer is the default Z-Wave JS Server address.
const DefaultZWaveServer = "127.0.0.1:3000"

const startListeningID = "myhub-start-listening"

// ZWaveJSSource lists the nodes known to a Z-Wave JS Server over its
// websocket API.
type ZWaveJSSource struct {
	url    string
	dialer *websocket.Dialer
}

// NewZWaveJSSource creates a source for the server at addr, either a
// host:port pair or a ws:// URL.
func NewZWaveJSSource(addr string) *ZWaveJSSource {
	if addr == "" {
		addr = DefaultZWaveServer
	}
	url := addr
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		url = "ws://" + url
	}
	return &ZWaveJSSource{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
		},
	}
}

func (s *ZWaveJSSource) Name() string {
	return "zwave-js"
}

func (s *ZWaveJSSource) Transport() device.Transport {
	return device.TransportZWave
}

func (s *ZWaveJSSource) Method() string {
	return "Z-Wave JS Server node list at " + s.url
}

// Server protocol messages, reduced to the fields we read.
type (
	zwaveCommand struct {
		MessageID string `json:"messageId"`
		Command   string `json:"command"`
	}

	zwaveMessage struct {
		Type      string          `json:"type"`
		MessageID string          `json:"messageId"`
		Success   bool            `json:"success"`
		ErrorCode string          `json:"errorCode"`
		Result    json.RawMessage `json:"result"`
	}

	zwaveStartResult struct {
		State struct {
			Nodes []zwaveNode `json:"nodes"`
		} `json:"state"`
	}

	zwaveNode struct {
		NodeID           int    `json:"nodeId"`
		Name             string `json:"name"`
		IsControllerNode bool   `json:"isControllerNode"`
		DeviceConfig     *struct {
			Manufacturer string `json:"manufacturer"`
			Label        string `json:"label"`
			Description  string `json:"description"`
		} `json:"deviceConfig"`
		DeviceClass *struct {
			Generic struct {
				Label string `json:"label"`
			} `json:"generic"`
		} `json:"deviceClass"`
	}
)

// Scan connects, sends start_listening and maps the node list in the
// result. Any connection or protocol failure is ErrUpstreamUnavailable.
func (s *ZWaveJSSource) Scan(ctx context.Context) ([]device.Candidate, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", device.ErrUpstreamUnavailable, s.url, err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock reads when ctx ends before the server answers.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	if err := conn.WriteJSON(zwaveCommand{MessageID: startListeningID, Command: "start_listening"}); err != nil {
		return nil, fmt.Errorf("%w: send start_listening: %v", device.ErrUpstreamUnavailable, err)
	}

	for {
		var msg zwaveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return nil, fmt.Errorf("%w: read: %v", device.ErrUpstreamUnavailable, err)
		}
		// The server greets with a version message and may push events.
		if msg.Type != "result" || msg.MessageID != startListeningID {
			continue
		}
		if !msg.Success {
			return nil, fmt.Errorf("%w: start_listening failed: %s", device.ErrUpstreamUnavailable, msg.ErrorCode)
		}

		var result zwaveStartResult
		if err := json.Unmarshal(msg.Result, &result); err != nil {
			return nil, fmt.Errorf("%w: decode node list: %v", device.ErrUpstreamUnavailable, err)
		}
		return nodeCandidates(result.State.Nodes), nil
	}
}

func nodeCandidates(nodes []zwaveNode) []device.Candidate {
	candidates := []device.Candidate{}
	for _, n := range nodes {
		if n.IsControllerNode || n.NodeID < device.MinNodeID || n.NodeID > device.MaxNodeID {
			continue
		}

		c := device.Candidate{
			ID:            fmt.Sprintf("zwave_node_%d", n.NodeID),
			Name:          n.Name,
			Transport:     device.TransportZWave,
			Kind:          device.KindUnknown,
			NodeID:        n.NodeID,
			DiscoveredVia: ViaZWaveJS,
		}
		if n.DeviceConfig != nil {
			c.Manufacturer = n.DeviceConfig.Manufacturer
			c.Product = n.DeviceConfig.Label
			if c.Name == "" {
				c.Name = n.DeviceConfig.Description
			}
		}
		if n.DeviceClass != nil {
			c.Kind = kindForDeviceClass(n.DeviceClass.Generic.Label)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("Z-Wave Node %d", n.NodeID)
		}

		log.Debug().Int("node_id", n.NodeID).Str("kind", string(c.Kind)).Msg("Found Z-Wave node")
		candidates = append(candidates, c)
	}
	return candidates
}

// kindForDeviceClass maps a Z-Wave generic device class label onto a kind.
func kindForDeviceClass(label string) device.Kind {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "multilevel switch"):
		return device.KindDimmer
	case strings.Contains(l, "switch"):
		return device.KindSwitch
	case strings.Contains(l, "sensor"):
		return device.KindSensor
	case strings.Contains(l, "thermostat"):
		return device.KindThermostat
	case strings.Contains(l, "entry control"):
		return device.KindLock
	case strings.Contains(l, "light"):
		return device.KindLight
	default:
		return device.KindUnknown
	}
}
