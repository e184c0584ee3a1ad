package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/taigrr/filemove-mcp/internal/types"
)

func handleFileMove(ctx context.Context, req *mcp.CallToolRequest, input FileMoveInput) (*mcp.CallToolResult, FileMoveOutput, error) {
	result := mover.Move(types.MoveParams{
		Source:          input.Source,
		Destination:     input.Destination,
		CreateDirectory: input.CreateDirectory,
	})

	output := FileMoveOutput{
		Success:     result.Success(),
		Kind:        string(result.Kind),
		Message:     result.Message,
		Source:      result.Source,
		Destination: result.Destination,
	}

	// Failures are tool results, not protocol errors.
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: result.Message}},
		IsError: result.IsError(),
	}, output, nil
}
