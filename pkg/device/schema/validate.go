package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/urmzd/myhub/pkg/device"
)

// SetState is the JSON Schema for PUT /devices/{id}/state bodies.
var SetState = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"state": {
			"type": "object",
			"properties": {
				"on": {"type": "boolean"}
			},
			"required": ["on"],
			"additionalProperties": false
		}
	},
	"required": ["state"],
	"additionalProperties": false
}`)

// Control is the JSON Schema for the legacy POST /devices/control body.
var Control = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"action": {"type": "string", "enum": ["on", "off"]}
	},
	"required": ["id", "action"],
	"additionalProperties": false
}`)

// Validator validates JSON payloads against JSON Schema documents.
// It caches compiled schemas keyed by their raw bytes.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a new Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Validate validates payload against the given JSON Schema document.
// Failures wrap device.ErrValidation.
func (v *Validator) Validate(schemaDoc json.RawMessage, payload any) error {
	if len(schemaDoc) == 0 || string(schemaDoc) == "{}" || string(schemaDoc) == "null" {
		return nil // No schema = no validation
	}

	compiled, err := v.compile(schemaDoc)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("%w: %v", device.ErrValidation, err)
	}
	return nil
}

// DecodeState validates a raw set-state body and returns the requested
// power state.
func (v *Validator) DecodeState(body []byte) (bool, error) {
	payload, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("%w: invalid JSON body: %v", device.ErrValidation, err)
	}
	if err := v.Validate(SetState, payload); err != nil {
		return false, err
	}

	var req struct {
		State struct {
			On bool `json:"on"`
		} `json:"state"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return false, fmt.Errorf("%w: %v", device.ErrValidation, err)
	}
	return req.State.On, nil
}

// DecodeControl validates a raw legacy control body and returns the device
// id and requested power state.
func (v *Validator) DecodeControl(body []byte) (string, bool, error) {
	payload, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("%w: invalid JSON body: %v", device.ErrValidation, err)
	}
	if err := v.Validate(Control, payload); err != nil {
		return "", false, err
	}

	var req struct {
		ID     string `json:"id"`
		Action string `json:"action"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return "", false, fmt.Errorf("%w: %v", device.ErrValidation, err)
	}
	return req.ID, req.Action == string(device.StatusOn), nil
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	if s, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	var schemaMap any
	if err := json.Unmarshal(schemaDoc, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaMap); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}
