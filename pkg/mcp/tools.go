package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health of the MyHub registry store"),
		),
		s.handleGetHealth,
	)

	// List devices
	s.mcpServer.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List all registered devices with their power status"),
		),
		s.handleListDevices,
	)

	// Get device
	s.mcpServer.AddTool(
		mcp.NewTool("get_device",
			mcp.WithDescription("Get a registered device by id"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id, e.g. living_room_plug"),
			),
		),
		s.handleGetDevice,
	)

	// Add device
	s.mcpServer.AddTool(
		mcp.NewTool("add_device",
			mcp.WithDescription("Register a Wi-Fi or Z-Wave device. Wi-Fi devices need an ip, Z-Wave devices a node_id."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Display name; the id is derived from it when omitted"),
			),
			mcp.WithString("transport",
				mcp.Required(),
				mcp.Enum("wifi", "zwave"),
				mcp.Description("Radio the device is reached over"),
			),
			mcp.WithString("id",
				mcp.Description("Explicit device id (optional)"),
			),
			mcp.WithString("kind",
				mcp.Enum("light", "switch", "plug", "dimmer", "sensor", "thermostat", "lock", "unknown"),
				mcp.Description("Device kind (default unknown)"),
			),
			mcp.WithString("ip",
				mcp.Description("IPv4 address, wifi only"),
			),
			mcp.WithNumber("node_id",
				mcp.Description("Z-Wave node id 1-232, zwave only"),
			),
		),
		s.handleAddDevice,
	)

	// Remove device
	s.mcpServer.AddTool(
		mcp.NewTool("remove_device",
			mcp.WithDescription("Remove a device from the registry"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
		),
		s.handleRemoveDevice,
	)

	// Set device state
	s.mcpServer.AddTool(
		mcp.NewTool("set_device_state",
			mcp.WithDescription("Set the power state of a device. The state object is validated against its JSON Schema."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
			mcp.WithObject("state",
				mcp.Required(),
				mcp.Description("State to set, e.g. {\"on\": true}"),
			),
		),
		s.handleSetDeviceState,
	)

	// Turn on (convenience)
	s.mcpServer.AddTool(
		mcp.NewTool("turn_on",
			mcp.WithDescription("Turn on a device"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
		),
		s.handleTurnOn,
	)

	// Turn off (convenience)
	s.mcpServer.AddTool(
		mcp.NewTool("turn_off",
			mcp.WithDescription("Turn off a device"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Device id"),
			),
		),
		s.handleTurnOff,
	)

	// Discovery
	s.mcpServer.AddTool(
		mcp.NewTool("discover_devices",
			mcp.WithDescription("Scan for Wi-Fi and Z-Wave devices not yet registered"),
			mcp.WithString("transport",
				mcp.Enum("wifi", "zwave"),
				mcp.Description("Limit the scan to one transport (optional)"),
			),
		),
		s.handleDiscoverDevices,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("discovery_history",
			mcp.WithDescription("Recent discovery scans, newest first"),
			mcp.WithNumber("limit",
				mcp.Description("Maximum events 1-50 (default 10)"),
			),
		),
		s.handleDiscoveryHistory,
	)

	// Scenes
	s.mcpServer.AddTool(
		mcp.NewTool("list_scenes",
			mcp.WithDescription("List the scene catalog"),
		),
		s.handleListScenes,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("activate_scene",
			mcp.WithDescription("Activate a scene, switching every registered device on or off"),
			mcp.WithString("scene_id",
				mcp.Required(),
				mcp.Description("Scene id, e.g. scene_all_off"),
			),
		),
		s.handleActivateScene,
	)
}
