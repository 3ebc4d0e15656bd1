package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/device/schema"
	"github.com/urmzd/myhub/pkg/discovery"
	"github.com/urmzd/myhub/pkg/scene"
	"github.com/urmzd/myhub/pkg/telemetry"
)

// Discoverer runs discovery scans.
type Discoverer interface {
	Discover(ctx context.Context) (*discovery.Result, error)
	DiscoverTransport(ctx context.Context, transport device.Transport) (*discovery.Result, error)
}

// Deps are the hub components exposed as tools.
type Deps struct {
	Registry  device.Registry
	Discovery Discoverer
	Scenes    *scene.Activator
	Telemetry *telemetry.Log
	Validator *schema.Validator
}

// Server wraps the MCP server with MyHub's registry, discovery and scene tools
type Server struct {
	mcpServer *server.MCPServer
	registry  device.Registry
	discovery Discoverer
	scenes    *scene.Activator
	telemetry *telemetry.Log
	validator *schema.Validator
}

// NewServer creates a new MCP server over the hub components
func NewServer(deps Deps) *Server {
	s := &Server{
		registry:  deps.Registry,
		discovery: deps.Discovery,
		scenes:    deps.Scenes,
		telemetry: deps.Telemetry,
		validator: deps.Validator,
	}
	if s.validator == nil {
		s.validator = schema.NewValidator()
	}

	s.mcpServer = server.NewMCPServer(
		"myhub",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
