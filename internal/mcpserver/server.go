// Package mcpserver exposes room state, betting and balances as MCP tools
// over the streamable HTTP transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"roundhouse/internal/app/accounts"
	"roundhouse/internal/app/rounds"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type Server struct {
	rounds   *rounds.Service
	accounts *accounts.Service

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(rs *rounds.Service, as *accounts.Service) *Server {
	mcpSrv := server.NewMCPServer(
		"roundhouse",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		rounds:     rs,
		accounts:   as,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerPublicTools()
	s.registerGameplayTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"room://{room_id}/state",
			"room_state",
			mcp.WithTemplateDescription("Current round state of a room"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			raw := string(request.Params.URI)
			if !strings.HasPrefix(raw, "room://") || !strings.HasSuffix(raw, "/state") {
				return nil, nil
			}
			roomID := strings.TrimSuffix(strings.TrimPrefix(raw, "room://"), "/state")
			if roomID == "" {
				return nil, nil
			}
			state, err := s.rounds.State(ctx, roomID)
			if err != nil {
				return nil, err
			}
			payload, err := json.Marshal(state)
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{URI: raw, MIMEType: "application/json", Text: string(payload)},
			}, nil
		},
	)
}
