package mcpserver

import (
	"context"
	"encoding/json"

	"roundhouse/internal/app/rounds"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerGameplayTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"place_bets",
			mcp.WithDescription("Place one or more bets on the open round of a room"),
			mcp.WithString("room_id", mcp.Required(), mcp.Description("Room id")),
			mcp.WithString("round_id", mcp.Required(), mcp.Description("Round the bets target")),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Betting user")),
			mcp.WithArray("bets", mcp.Required(),
				mcp.Description("Bets as {kind, numbers, amount_cc}"),
				mcp.Items(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"kind":      map[string]any{"type": "string"},
						"numbers":   map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
						"amount_cc": map[string]any{"type": "integer"},
					},
					"required": []string{"kind", "amount_cc"},
				}),
			),
		),
		s.handlePlaceBets,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_balance",
			mcp.WithDescription("Wallet and bank balance of a user"),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("User id")),
		),
		s.handleGetBalance,
	)
}

func (s *Server) handlePlaceBets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := rounds.PlaceBetsRequest{}
	var err error
	if req.RoomID, err = request.RequireString("room_id"); err != nil {
		return toolError("validation", err.Error()), nil
	}
	if req.RoundID, err = request.RequireString("round_id"); err != nil {
		return toolError("validation", err.Error()), nil
	}
	if req.UserID, err = request.RequireString("user_id"); err != nil {
		return toolError("validation", err.Error()), nil
	}
	raw, err := json.Marshal(request.GetArguments()["bets"])
	if err != nil {
		return toolError("validation", "bets must be an array"), nil
	}
	if err := json.Unmarshal(raw, &req.Bets); err != nil {
		return toolError("validation", "bets must be an array of {kind, numbers, amount_cc}"), nil
	}
	res, err := s.rounds.PlaceBets(ctx, req)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleGetBalance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return toolError("validation", err.Error()), nil
	}
	bal, err := s.accounts.Balance(ctx, userID)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(bal), nil
}
