package device

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Input is a registration request, either typed by a user or built from a
// discovery candidate. Type is the legacy single field that carried either a
// transport or a kind.
type Input struct {
	ID           string `json:"id,omitempty" validate:"omitempty,max=48,excludesall=/?#"`
	Name         string `json:"name" validate:"required,max=128"`
	Type         string `json:"type,omitempty" validate:"-"`
	Transport    string `json:"transport,omitempty" validate:"required,oneof=wifi zwave"`
	Kind         string `json:"kind,omitempty" validate:"omitempty,oneof=light switch plug dimmer sensor thermostat lock unknown"`
	IP           string `json:"ip,omitempty" validate:"omitempty,ipv4"`
	NodeID       int    `json:"node_id,omitempty" validate:"omitempty,min=1,max=232"`
	Manufacturer string `json:"manufacturer,omitempty" validate:"max=128"`
	Product      string `json:"product,omitempty" validate:"max=128"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateAddress, Input{})
	return v
}

// validateAddress enforces that exactly the address field matching the
// transport is set.
func validateAddress(sl validator.StructLevel) {
	in := sl.Current().Interface().(Input)
	switch Transport(in.Transport) {
	case TransportWiFi:
		if in.IP == "" {
			sl.ReportError(in.IP, "ip", "IP", "required_for_wifi", "")
		}
		if in.NodeID != 0 {
			sl.ReportError(in.NodeID, "node_id", "NodeID", "excluded_for_wifi", "")
		}
	case TransportZWave:
		if in.NodeID == 0 {
			sl.ReportError(in.NodeID, "node_id", "NodeID", "required_for_zwave", "")
		}
		if in.IP != "" {
			sl.ReportError(in.IP, "ip", "IP", "excluded_for_zwave", "")
		}
	}
}

// Normalize trims fields, resolves the legacy type field and derives the id
// from the name when it is omitted.
func (in Input) Normalize() Input {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Transport = strings.ToLower(strings.TrimSpace(in.Transport))
	in.Kind = strings.ToLower(strings.TrimSpace(in.Kind))
	in.IP = strings.TrimSpace(in.IP)

	if in.Type != "" {
		if t, ok := ParseTransport(in.Type); ok && in.Transport == "" {
			in.Transport = string(t)
		} else if k, ok := ParseKind(in.Type); ok && in.Kind == "" {
			in.Kind = string(k)
		}
	}
	if in.Kind == "" {
		in.Kind = string(KindUnknown)
	}
	if in.ID == "" {
		in.ID = DeriveID(in.Name)
	}
	return in
}

// Validate normalizes the input and checks it, returning an error wrapping
// ErrValidation that names every offending field.
func (in Input) Validate() (Input, error) {
	in = in.Normalize()

	err := validate.Struct(in)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return in, fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}
	if err != nil {
		return in, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if in.ID == "" {
		return in, fmt.Errorf("%w: id could not be derived from name %q", ErrValidation, in.Name)
	}
	return in, nil
}

// Device builds the stored record for a validated input. New devices start
// switched off.
func (in Input) Device(now time.Time) Device {
	return Device{
		ID:           in.ID,
		Name:         in.Name,
		Transport:    Transport(in.Transport),
		Kind:         Kind(in.Kind),
		Status:       StatusOff,
		IP:           in.IP,
		NodeID:       in.NodeID,
		Manufacturer: in.Manufacturer,
		Product:      in.Product,
		AddedAt:      now,
		UpdatedAt:    now,
	}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "ipv4":
		return field + " must be a dotted-quad IPv4 address"
	case "min", "max":
		if field == "node_id" {
			return fmt.Sprintf("node_id must be between %d and %d", MinNodeID, MaxNodeID)
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "excludesall":
		return field + " must not contain any of " + fe.Param()
	case "required_for_wifi":
		return "ip is required for wifi devices"
	case "required_for_zwave":
		return "node_id is required for zwave devices"
	case "excluded_for_wifi":
		return "node_id is not allowed for wifi devices"
	case "excluded_for_zwave":
		return "ip is not allowed for zwave devices"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
