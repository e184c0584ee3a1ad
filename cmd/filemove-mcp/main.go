// Package main implements an MCP server exposing a file-move tool over a project root.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/taigrr/filemove-mcp/internal/config"
	"github.com/taigrr/filemove-mcp/internal/files"
	"github.com/taigrr/filemove-mcp/internal/logging"
	"github.com/taigrr/filemove-mcp/internal/move"
	"github.com/taigrr/filemove-mcp/internal/pathfilter"
)

const (
	serverName   = "filemove-mcp"
	configName   = "filemove"
	configType   = "yaml"
	envPrefix    = "FILEMOVE"
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagLogFmt   = "log-format"
	flagIgnore   = "ignore"
)

var (
	mover  *move.Service
	logger = zap.NewNop()
)

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   serverName + " [root]",
		Short: "MCP server that moves files within a project directory",
		Long: `filemove-mcp is a Model Context Protocol (MCP) server exposing a
single file-move tool. Paths are resolved relative to the project
root; a move copies the file, optionally creating the destination
directory, then deletes the source. If the source cannot be deleted
the copy is kept and reported as a warning.`,
		Example: `filemove-mcp ~/src/project
filemove-mcp --config ./filemove.yaml
filemove-mcp config ~/src/project`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServer,
	}

	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "Path to a configuration file (YAML)")
	flags.String(flagLogLevel, "", "Log level: debug, info, warn, error")
	flags.String(flagLogFmt, "", "Log format: structured or console")
	flags.StringSlice(flagIgnore, nil, "Additional glob patterns the tool may not touch")

	cmd.AddCommand(newConfigCommand())
	return cmd
}

// loadConfiguration merges file, environment, and command-line settings.
func loadConfiguration(cmd *cobra.Command, args []string) (config.Configuration, string, error) {
	flags := cmd.Flags()
	explicitFile, _ := flags.GetString(flagConfig)

	loader := config.NewLoader(configName, configType, envPrefix, []string{"."})
	cfg, used, err := loader.Load(explicitFile, flagOverrides(flags, args))
	if err != nil {
		return config.Configuration{}, "", fmt.Errorf("unable to load configuration: %w", err)
	}
	return cfg, used, nil
}

// flagOverrides returns only the settings the user passed explicitly.
func flagOverrides(flags *pflag.FlagSet, args []string) map[string]any {
	overrides := make(map[string]any)
	if len(args) > 0 {
		overrides[config.KeyRoot] = args[0]
	}
	if flags.Changed(flagLogLevel) {
		overrides[config.KeyLogLevel], _ = flags.GetString(flagLogLevel)
	}
	if flags.Changed(flagLogFmt) {
		overrides[config.KeyLogFormat], _ = flags.GetString(flagLogFmt)
	}
	if flags.Changed(flagIgnore) {
		overrides[config.KeyIgnoredPatterns], _ = flags.GetStringSlice(flagIgnore)
	}
	return overrides
}

// setup builds the logger and move service from configuration.
func setup(cfg config.Configuration, fsys afero.Fs) error {
	isDir, err := afero.IsDir(fsys, cfg.Root)
	if err != nil {
		return fmt.Errorf("invalid root %s: %w", cfg.Root, err)
	}
	if !isDir {
		return fmt.Errorf("invalid root %s: not a directory", cfg.Root)
	}

	l, err := logging.NewFactory().CreateLogger(logging.Level(cfg.LogLevel), logging.Format(cfg.LogFormat))
	if err != nil {
		return err
	}
	logger = l

	mover = move.New(cfg.Root, files.New(fsys), pathfilter.New(&cfg.PathFilterConfig), logger)
	return nil
}

func newServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, nil)

	registerTools(server)
	return server
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, used, err := loadConfiguration(cmd, args)
	if err != nil {
		return err
	}

	if err := setup(cfg, afero.NewOsFs()); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting MCP server",
		zap.String("root", mover.Root()),
		zap.String("config_file", used),
		zap.String("version", version),
	)

	if err := newServer().Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("error running server: %w", err)
	}

	return nil
}
