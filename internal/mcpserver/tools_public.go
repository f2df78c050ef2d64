package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPublicTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_rooms",
			mcp.WithDescription("List enabled rooms"),
			mcp.WithString("game", mcp.Description("Optional game: baccarat|sicbo|roulette|lottery")),
		),
		s.handleListRooms,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_room_state",
			mcp.WithDescription("Current round, phase, countdown and recent outcomes of a room"),
			mcp.WithString("room_id", mcp.Required(), mcp.Description("Room id")),
		),
		s.handleGetRoomState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_round_history",
			mcp.WithDescription("Rounds of a room, newest first"),
			mcp.WithString("room_id", mcp.Required(), mcp.Description("Room id")),
			mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 500")),
			mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
		),
		s.handleListRoundHistory,
	)
}

func (s *Server) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.rounds.Rooms(ctx, request.GetString("game", ""))
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"items": items}), nil
}

func (s *Server) handleGetRoomState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID, err := request.RequireString("room_id")
	if err != nil {
		return toolError("validation", err.Error()), nil
	}
	state, err := s.rounds.State(ctx, roomID)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(state), nil
}

func (s *Server) handleListRoundHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID, err := request.RequireString("room_id")
	if err != nil {
		return toolError("validation", err.Error()), nil
	}
	limit, offset := clampPagination(request.GetInt("limit", defaultPageLimit), request.GetInt("offset", 0), maxPageLimit)
	items, err := s.rounds.History(ctx, roomID, limit, offset)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"items": items, "limit": limit, "offset": offset}), nil
}
