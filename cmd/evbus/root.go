package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"evbus/internal/app"
	"evbus/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type runFlags struct {
	config      string
	addr        string
	logLevel    string
	corsOrigins string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "evbus",
		Short:         "In-process event dispatcher host with an HTTP control surface",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newConfigCmd(), newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Start the host loop and HTTP server",
		Example: "  evbus run --config ~/.config/evbus.yaml --addr :9090",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			app.New(cfg).Run()
			return nil
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	cmd.Flags().StringVar(&f.addr, "addr", config.DefaultAddr, "HTTP listen address, e.g. :8080")
	cmd.Flags().StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level: off|debug|info|warn|error")
	cmd.Flags().StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")
	return cmd
}

// resolveConfig loads the config file when given, applies explicitly set
// flags over it and validates the result.
func resolveConfig(cmd *cobra.Command, f runFlags) (config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		loaded, err := config.Load(f.config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = f.addr
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if origins := splitCSV(f.corsOrigins); len(origins) > 0 {
		cfg.CORSEnabled = true
		cfg.CORSAllowedOrigins = origins
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	cmd.AddCommand(&cobra.Command{
		Use:     "check <path>",
		Short:   "Load and validate a config file",
		Example: "  evbus config check ./evbus.toml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: addr=%s log_level=%s update=%s fixed_update=%s\n",
				cfg.Addr, cfg.LogLevel, cfg.UpdateInterval(), cfg.FixedUpdateInterval())
			return nil
		},
	})
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// splitCSV splits a comma-separated list, trimming blanks and dropping empty
// entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
