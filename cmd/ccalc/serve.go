package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/ccalc"
	"github.com/njchilds90/ccalc/internal/config"
	"github.com/njchilds90/ccalc/internal/console"
	"github.com/njchilds90/ccalc/internal/mcpserver"
	"github.com/njchilds90/ccalc/internal/server"
)

func (a *app) consoleCmd() *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Start the interactive menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("theme") {
				theme = a.cfg.Console.Theme
			}
			c := console.New(a.calc, cmd.InOrStdin(), cmd.OutOrStdout(), console.Options{Theme: theme, Logger: a.log})
			return c.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "auto, dark, light or notty")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve the calculator tools over HTTP:

  POST /tool     run a tool call {"tool": "diff", "params": {"expr": "x**2"}}
  GET  /schema   tool schema
  GET  /health   liveness check
  GET  /metrics  Prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Server.Addr
			}
			return server.New(a.calc, a.log).Run(cmd.Context(), addr, a.cfg.GetShutdownTimeout())
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")
	return cmd
}

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.log.Info("mcp server starting", "tools", len(ccalc.ToolSpecs()))
			return mcpserver.New(a.calc, version, a.log).Listen(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the tool schema as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := ccalc.SchemaJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init FILE",
		Short: "Write the default configuration to FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ccalc",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ccalc version %s\n", version)
		},
	}
}
