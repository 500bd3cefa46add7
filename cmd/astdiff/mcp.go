package main

import (
	"github.com/spf13/cobra"

	"github.com/astdiff-tech/astdiff/internal/config"
	"github.com/astdiff-tech/astdiff/internal/logging"
	"github.com/astdiff-tech/astdiff/pkg/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve comparison tools over the Model Context Protocol",
		Long: `Start an MCP server on stdin/stdout exposing revision comparison to MCP
clients such as coding assistants.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return err
			}

			logLevel := cfg.Logging.Level
			if verbose {
				logLevel = "debug"
			}

			server := mcp.NewServer(mcp.ServerDeps{
				Logger: logging.New(logLevel, cfg.Logging.Format),
			})

			return server.Run(cmd.Context())
		},
	}

	return cmd
}
