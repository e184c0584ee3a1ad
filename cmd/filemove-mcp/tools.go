package main

import "github.com/modelcontextprotocol/go-sdk/mcp"

type (
	// FileMoveInput contains parameters for moving a file.
	FileMoveInput struct {
		Source          string `json:"source" jsonschema:"Source file path relative to the project root"`
		Destination     string `json:"destination" jsonschema:"Destination file path relative to the project root"`
		CreateDirectory bool   `json:"createDirectory,omitempty" jsonschema:"Create the destination directory if it does not exist (default: false)"`
	}

	// FileMoveOutput contains the result of moving a file.
	FileMoveOutput struct {
		Success     bool   `json:"success"`
		Kind        string `json:"kind"`
		Message     string `json:"message"`
		Source      string `json:"source,omitempty"`
		Destination string `json:"destination,omitempty"`
	}
)

func registerTools(server *mcp.Server) {
	destructive := true
	openWorld := false

	mcp.AddTool(server, &mcp.Tool{
		Name:  "file-move",
		Title: "File Move",
		Description: "Move a file within the project directory structure. The file is copied to the destination " +
			"and the source is deleted. Set createDirectory=true to create a missing destination directory. " +
			"If the source cannot be deleted the result is a warning and the file exists at both paths.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "File Move",
			DestructiveHint: &destructive,
			OpenWorldHint:   &openWorld,
		},
	}, handleFileMove)
}
