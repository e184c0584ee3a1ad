package main

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/filemove-mcp/internal/config"
	"github.com/taigrr/filemove-mcp/internal/types"
)

func setupTestProject(t *testing.T, seed map[string]string) afero.Fs {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/project", 0o755))
	for path, content := range seed {
		require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0o644))
	}

	cfg := config.Configuration{Root: "/project", LogLevel: "error", LogFormat: "structured"}
	require.NoError(t, setup(cfg, mem))
	return mem
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content should be text")
	return text.Text
}

func TestHandleFileMove(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mem := setupTestProject(t, map[string]string{"/project/a/in.txt": "hello"})

		res, out, err := handleFileMove(context.Background(), nil, FileMoveInput{
			Source:          "a/in.txt",
			Destination:     "b/out.txt",
			CreateDirectory: true,
		})
		require.NoError(t, err)

		assert.False(t, res.IsError)
		assert.Equal(t, "Successfully moved '/project/a/in.txt' to '/project/b/out.txt'", textOf(t, res))
		assert.True(t, out.Success)
		assert.Equal(t, string(types.KindMoved), out.Kind)
		assert.Equal(t, "/project/b/out.txt", out.Destination)

		data, err := afero.ReadFile(mem, "/project/b/out.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("missing source is a tool error", func(t *testing.T) {
		setupTestProject(t, nil)

		res, out, err := handleFileMove(context.Background(), nil, FileMoveInput{Destination: "out.txt"})
		require.NoError(t, err)

		assert.True(t, res.IsError)
		assert.Equal(t, "Error: Missing source parameter", textOf(t, res))
		assert.False(t, out.Success)
		assert.Equal(t, string(types.KindMissingParameter), out.Kind)
	})

	t.Run("source not found", func(t *testing.T) {
		setupTestProject(t, nil)

		res, _, err := handleFileMove(context.Background(), nil, FileMoveInput{Source: "gone.txt", Destination: "out.txt"})
		require.NoError(t, err)

		assert.True(t, res.IsError)
		assert.Contains(t, textOf(t, res), "/project/gone.txt")
	})

	t.Run("moving onto itself keeps the file", func(t *testing.T) {
		mem := setupTestProject(t, map[string]string{"/project/in.txt": "hello"})

		res, out, err := handleFileMove(context.Background(), nil, FileMoveInput{Source: "in.txt", Destination: "./in.txt"})
		require.NoError(t, err)

		assert.True(t, res.IsError)
		assert.Equal(t, string(types.KindSamePath), out.Kind)
		data, err := afero.ReadFile(mem, "/project/in.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})
}

func TestSetup_RejectsBadRoot(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/file.txt", []byte("x"), 0o644))

	err := setup(config.Configuration{Root: "/missing", LogLevel: "info", LogFormat: "structured"}, mem)
	require.Error(t, err)

	err = setup(config.Configuration{Root: "/file.txt", LogLevel: "info", LogFormat: "structured"}, mem)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")

	require.NoError(t, mem.MkdirAll("/ok", 0o755))
	err = setup(config.Configuration{Root: "/ok", LogLevel: "chatty", LogFormat: "structured"}, mem)
	require.Error(t, err)
}

func TestServer_FileMoveOverMCP(t *testing.T) {
	mem := setupTestProject(t, map[string]string{"/project/docs/draft.md": "# Draft"})
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := newServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, "file-move", tools.Tools[0].Name)
	assert.Equal(t, "File Move", tools.Tools[0].Title)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "file-move",
		Arguments: map[string]any{
			"source":          "docs/draft.md",
			"destination":     "archive/2024/draft.md",
			"createDirectory": true,
		},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Successfully moved '/project/docs/draft.md' to '/project/archive/2024/draft.md'", textOf(t, res))

	exists, err := afero.Exists(mem, "/project/docs/draft.md")
	require.NoError(t, err)
	assert.False(t, exists)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name: "file-move",
		Arguments: map[string]any{
			"source":      "docs/draft.md",
			"destination": "archive/2024/draft.md",
		},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "does not exist")
}
