// Package scene applies named bulk actions to every registered device.
package scene

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/myhub/pkg/device"
)

// ErrSceneNotFound is returned when activating an unknown scene id.
var ErrSceneNotFound = errors.New("scene not found")

// Scene is a fixed bulk action.
type Scene struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	On          bool   `json:"-"`
}

// Action names the power state the scene applies.
func (s Scene) Action() string {
	return string(device.StatusFor(s.On))
}

var catalog = []Scene{
	{
		ID:          "scene_all_on",
		Name:        "All Devices On",
		Description: "Turn all devices ON immediately",
		On:          true,
	},
	{
		ID:          "scene_all_off",
		Name:        "All Devices Off",
		Description: "Turn all devices OFF immediately",
		On:          false,
	},
	{
		ID:          "scene_dusk_to_sunrise",
		Name:        "Dusk to Sunrise",
		Description: "Evening lighting: turn all devices ON now",
		On:          true,
	},
	{
		ID:          "scene_sunset_to_11pm",
		Name:        "Sunset to 11 PM",
		Description: "Evening lighting: turn all devices ON now",
		On:          true,
	},
}

// Catalog returns a copy of the scene catalog.
func Catalog() []Scene {
	out := make([]Scene, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a scene by id.
func Lookup(id string) (Scene, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Scene{}, false
}

// Result reports a scene activation. Success is true when there were no
// devices or at least one device was updated.
type Result struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	SceneID         string   `json:"scene_id"`
	Action          string   `json:"action"`
	AffectedDevices int      `json:"affected_devices"`
	FailedDevices   int      `json:"failed_devices"`
	Failed          []string `json:"failed,omitempty"`
}

// Registry is the part of the device registry scenes drive.
type Registry interface {
	ListDevices(ctx context.Context) ([]device.Device, error)
	SetDeviceState(ctx context.Context, id string, on bool) (*device.Device, error)
}

// Activator applies scenes to a registry.
type Activator struct {
	registry Registry
}

// NewActivator creates an activator over registry.
func NewActivator(registry Registry) *Activator {
	return &Activator{registry: registry}
}

// List returns the scene catalog.
func (a *Activator) List() []Scene {
	return Catalog()
}

// Activate applies the scene to every device independently. A device that
// fails to update is counted and logged; the others still change.
func (a *Activator) Activate(ctx context.Context, id string) (*Result, error) {
	s, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, id)
	}

	devices, err := a.registry.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{SceneID: s.ID, Action: s.Action()}
	for _, d := range devices {
		if _, err := a.registry.SetDeviceState(ctx, d.ID, s.On); err != nil {
			log.Warn().Err(err).Str("scene", s.ID).Str("device_id", d.ID).Msg("Failed to apply scene to device")
			result.FailedDevices++
			result.Failed = append(result.Failed, d.ID)
			continue
		}
		result.AffectedDevices++
	}

	action := result.Action
	switch {
	case len(devices) == 0:
		result.Success = true
		result.Message = fmt.Sprintf("No devices available to turn %s", action)
	case result.FailedDevices == 0:
		result.Success = true
		result.Message = fmt.Sprintf("Successfully turned %s %d device(s)", action, result.AffectedDevices)
	case result.AffectedDevices == 0:
		result.Message = fmt.Sprintf("Failed to turn %s any devices", action)
	default:
		result.Success = true
		result.Message = fmt.Sprintf("Turned %s %d of %d device(s), %d failed",
			action, result.AffectedDevices, len(devices), result.FailedDevices)
	}

	log.Info().
		Str("scene", s.ID).
		Int("affected", result.AffectedDevices).
		Int("failed", result.FailedDevices).
		Msg("Scene activated")
	return result, nil
}
