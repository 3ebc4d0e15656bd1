// Package docs registers the Swagger document served under /swagger. Keep
// it in step with the @ annotations on the handlers in pkg/api/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/devices/list": {
            "get": {
                "description": "Returns every registered device in insertion order",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "devices"
                ],
                "summary": "List all devices",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/device.Device"
                            }
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/devices/{id}": {
            "get": {
                "description": "Returns a registered device by id",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "devices"
                ],
                "summary": "Get device details",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Device id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/device.Device"
                        }
                    },
                    "404": {
                        "description": "Device not found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/devices/add": {
            "post": {
                "description": "Validates and registers a device. The id is derived from the name when omitted. New devices start off.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "devices"
                ],
                "summary": "Register a device",
                "parameters": [
                    {
                        "description": "Device fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.AddDeviceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.MutationResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Duplicate id",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/devices/remove/{id}": {
            "delete": {
                "description": "Unregisters a device",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "devices"
                ],
                "summary": "Remove a device",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Device id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.MutationResponse"
                        }
                    },
                    "404": {
                        "description": "Device not found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/devices/health": {
            "get": {
                "description": "Device counts and store backend. Devices are not polled, so reachability is always unknown.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "devices"
                ],
                "summary": "Registry health",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.DeviceHealthResponse"
                        }
                    }
                }
            }
        },
        "/devices/{id}/state": {
            "put": {
                "description": "Records the commanded power state of a device. The body is validated against a JSON Schema.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "devices"
                ],
                "summary": "Set device state",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Device id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "State to set",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.SetStateRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/device.Device"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Device not found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/devices/control": {
            "post": {
                "description": "Legacy control endpoint taking the device id in the body",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "devices"
                ],
                "summary": "Turn a device on or off",
                "parameters": [
                    {
                        "description": "Device id and action",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.ControlRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.MutationResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Device not found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/devices/discover": {
            "get": {
                "description": "Scans Wi-Fi and Z-Wave for devices that are not registered yet. A scan source that is unreachable is replaced by mock candidates tagged discovered_via=mock.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "discovery"
                ],
                "summary": "Discover devices",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/discovery.Result"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/devices/discover/{transport}": {
            "get": {
                "description": "Same as /devices/discover, restricted to wifi or zwave",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "discovery"
                ],
                "summary": "Discover devices on one transport",
                "parameters": [
                    {
                        "enum": [
                            "wifi",
                            "zwave"
                        ],
                        "type": "string",
                        "description": "Transport",
                        "name": "transport",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/discovery.Result"
                        }
                    },
                    "400": {
                        "description": "Unknown transport",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/scenes/list": {
            "get": {
                "description": "Returns the fixed scene catalog",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "scenes"
                ],
                "summary": "List scenes",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/scene.Scene"
                            }
                        }
                    }
                }
            }
        },
        "/scenes/activate": {
            "post": {
                "description": "Applies the scene to every device. Devices are updated independently; failures are counted in failed_devices.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "scenes"
                ],
                "summary": "Activate a scene",
                "parameters": [
                    {
                        "description": "Scene id",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.ActivateSceneRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/scene.Result"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Scene not found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/telemetry/discovery-history": {
            "get": {
                "description": "Recent discovery scans, newest first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "telemetry"
                ],
                "summary": "Discovery history",
                "parameters": [
                    {
                        "type": "integer",
                        "default": 10,
                        "description": "Maximum events (1-50)",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.DiscoveryHistoryResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid limit",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/telemetry/onboarding-history": {
            "get": {
                "description": "Recent device add, failed add and remove events, newest first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "telemetry"
                ],
                "summary": "Onboarding history",
                "parameters": [
                    {
                        "type": "integer",
                        "default": 10,
                        "description": "Maximum events (1-50)",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.OnboardingHistoryResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid limit",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/telemetry/scan-summary": {
            "get": {
                "description": "The most recent scan and the number of devices added since. summary is null when no scan has run.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "telemetry"
                ],
                "summary": "Last scan summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ScanSummaryResponse"
                        }
                    },
                    "500": {
                        "description": "Store error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/telemetry/log-discovery": {
            "post": {
                "description": "Records a scan run by a client",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "telemetry"
                ],
                "summary": "Log a discovery scan",
                "parameters": [
                    {
                        "description": "Scan counts",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.LogDiscoveryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.TelemetryResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/telemetry/log-onboarding": {
            "post": {
                "description": "Records a device add attempt made by a client",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "telemetry"
                ],
                "summary": "Log an onboarding attempt",
                "parameters": [
                    {
                        "description": "Onboarding outcome",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.LogOnboardingRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.TelemetryResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid request",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the health status of the API and registry store",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "Service is healthy",
                        "schema": {
                            "$ref": "#/definitions/types.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "Service is degraded",
                        "schema": {
                            "$ref": "#/definitions/types.HealthResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "device.Device": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "transport": {
                    "type": "string",
                    "enum": [
                        "wifi",
                        "zwave"
                    ]
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "wifi",
                        "zwave"
                    ]
                },
                "kind": {
                    "type": "string",
                    "enum": [
                        "light",
                        "switch",
                        "plug",
                        "dimmer",
                        "sensor",
                        "thermostat",
                        "lock",
                        "unknown"
                    ]
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "on",
                        "off"
                    ]
                },
                "ip": {
                    "type": "string"
                },
                "node_id": {
                    "type": "integer"
                },
                "manufacturer": {
                    "type": "string"
                },
                "product": {
                    "type": "string"
                },
                "added_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "device.Health": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "backend": {
                    "type": "string"
                },
                "registry": {
                    "type": "string"
                },
                "devices": {
                    "type": "integer"
                },
                "devices_on": {
                    "type": "integer"
                },
                "reachability": {
                    "type": "string"
                }
            }
        },
        "device.Candidate": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "transport": {
                    "type": "string"
                },
                "kind": {
                    "type": "string"
                },
                "ip": {
                    "type": "string"
                },
                "node_id": {
                    "type": "integer"
                },
                "port": {
                    "type": "integer"
                },
                "manufacturer": {
                    "type": "string"
                },
                "product": {
                    "type": "string"
                },
                "discovered_via": {
                    "type": "string"
                }
            }
        },
        "discovery.SourceReport": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "transport": {
                    "type": "string"
                },
                "discovered_via": {
                    "type": "string"
                },
                "count": {
                    "type": "integer"
                },
                "fallback": {
                    "type": "boolean"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "discovery.Summary": {
            "type": "object",
            "properties": {
                "wifi_devices": {
                    "type": "integer"
                },
                "zwave_devices": {
                    "type": "integer"
                },
                "total_discovered": {
                    "type": "integer"
                },
                "already_registered": {
                    "type": "integer"
                },
                "duration_ms": {
                    "type": "integer"
                },
                "sources": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/discovery.SourceReport"
                    }
                }
            }
        },
        "discovery.Result": {
            "type": "object",
            "properties": {
                "discovered_devices": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/device.Candidate"
                    }
                },
                "discovery_summary": {
                    "$ref": "#/definitions/discovery.Summary"
                },
                "discovery_methods": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        },
        "scene.Scene": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "scene.Result": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "scene_id": {
                    "type": "string"
                },
                "action": {
                    "type": "string"
                },
                "affected_devices": {
                    "type": "integer"
                },
                "failed_devices": {
                    "type": "integer"
                },
                "failed": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "telemetry.ScanEvent": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                },
                "wifi_found": {
                    "type": "integer"
                },
                "zwave_found": {
                    "type": "integer"
                },
                "total_found": {
                    "type": "integer"
                },
                "filtered_out": {
                    "type": "integer"
                },
                "duration_ms": {
                    "type": "integer"
                },
                "mock": {
                    "type": "boolean"
                }
            }
        },
        "telemetry.OnboardingEvent": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                },
                "device_id": {
                    "type": "string"
                },
                "device_name": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "added",
                        "failed",
                        "removed"
                    ]
                }
            }
        },
        "telemetry.ScanSummary": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                },
                "wifi_found": {
                    "type": "integer"
                },
                "zwave_found": {
                    "type": "integer"
                },
                "total_found": {
                    "type": "integer"
                },
                "filtered_out": {
                    "type": "integer"
                },
                "duration_ms": {
                    "type": "integer"
                },
                "mock": {
                    "type": "boolean"
                },
                "devices_added": {
                    "type": "integer"
                }
            }
        },
        "types.AddDeviceRequest": {
            "type": "object",
            "required": [
                "name"
            ],
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "transport": {
                    "type": "string",
                    "enum": [
                        "wifi",
                        "zwave"
                    ]
                },
                "kind": {
                    "type": "string"
                },
                "ip": {
                    "type": "string"
                },
                "node_id": {
                    "type": "integer"
                },
                "manufacturer": {
                    "type": "string"
                },
                "product": {
                    "type": "string"
                }
            }
        },
        "types.SetStateRequest": {
            "type": "object",
            "properties": {
                "state": {
                    "type": "object",
                    "properties": {
                        "on": {
                            "type": "boolean"
                        }
                    }
                }
            }
        },
        "types.ControlRequest": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "action": {
                    "type": "string",
                    "enum": [
                        "on",
                        "off"
                    ]
                }
            }
        },
        "types.ActivateSceneRequest": {
            "type": "object",
            "required": [
                "scene_id"
            ],
            "properties": {
                "scene_id": {
                    "type": "string"
                }
            }
        },
        "types.LogDiscoveryRequest": {
            "type": "object",
            "properties": {
                "wifi_found": {
                    "type": "integer"
                },
                "zwave_found": {
                    "type": "integer"
                },
                "duration_ms": {
                    "type": "integer"
                }
            }
        },
        "types.LogOnboardingRequest": {
            "type": "object",
            "required": [
                "device_id",
                "device_name",
                "device_type",
                "status"
            ],
            "properties": {
                "device_id": {
                    "type": "string"
                },
                "device_name": {
                    "type": "string"
                },
                "device_type": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "added",
                        "failed"
                    ]
                }
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "registry": {
                    "$ref": "#/definitions/device.Health"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "types.DeviceHealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "backend": {
                    "type": "string"
                },
                "registry": {
                    "type": "string"
                },
                "devices": {
                    "type": "integer"
                },
                "devices_on": {
                    "type": "integer"
                },
                "reachability": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "types.MutationResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "device": {
                    "$ref": "#/definitions/device.Device"
                }
            }
        },
        "types.DiscoveryHistoryResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "count": {
                    "type": "integer"
                },
                "history": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/telemetry.ScanEvent"
                    }
                }
            }
        },
        "types.OnboardingHistoryResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "count": {
                    "type": "integer"
                },
                "history": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/telemetry.OnboardingEvent"
                    }
                }
            }
        },
        "types.ScanSummaryResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "summary": {
                    "$ref": "#/definitions/telemetry.ScanSummary"
                }
            }
        },
        "types.TelemetryResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "MyHub API",
	Description:      "REST API for a local Wi-Fi and Z-Wave smart home hub",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
