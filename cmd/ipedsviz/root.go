package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ipedsviz/internal/config"
	"ipedsviz/internal/controls"
	"ipedsviz/internal/export"
	"ipedsviz/internal/server"
	"ipedsviz/internal/trace"
	"ipedsviz/internal/ui"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	source     string
	debug      bool
}

func newRootCmd() *cobra.Command {
	var g globals
	root := &cobra.Command{
		Use:           "ipedsviz",
		Short:         "Explore the IPEDS library and institution dataset",
		Long:          "ipedsviz loads the IPEDS extract and shows it as a scatter plot or an animated map,\nin the terminal (default), over HTTP, or as exported files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), g)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&g.source, "source", "", "dataset URL or file path (overrides config)")
	pf.BoolVar(&g.debug, "debug", false, "write a debug log (ipedsviz-debug.log in TUI mode)")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Run the terminal dashboard",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTUI(cmd.Context(), g)
			},
		},
		newServeCmd(&g),
		newExportCmd(&g),
		newColumnsCmd(&g),
		newConfigCmd(&g),
	)
	return root
}

// loadConfig resolves the config file, the environment and --source.
func loadConfig(g globals) (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if g.source != "" {
		cfg.Source = g.source
	}
	return cfg, nil
}

// withTracing installs the OTLP exporter for the lifetime of fn.
func withTracing(ctx context.Context, cfg config.Config, fn func(context.Context) error) error {
	exp, err := trace.Setup(ctx, trace.Options{
		Endpoint:    cfg.OTel.Endpoint,
		ServiceName: cfg.OTel.ServiceName,
		Insecure:    cfg.OTel.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := exp.Shutdown(context.Background()); err != nil {
			log.Printf("main: trace shutdown: %v", err)
		}
	}()
	return fn(ctx)
}

func runTUI(ctx context.Context, g globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	// Log lines would corrupt the alt screen.
	if g.debug {
		f, err := tea.LogToFile("ipedsviz-debug.log", "ipedsviz")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	return withTracing(ctx, cfg, func(ctx context.Context) error {
		model := ui.NewAppModel(cfg.Loader(), cfg.Defaults, cfg.ExportDir).AsTeaModel()
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := p.Run()
		return err
	})
}

func newServeCmd(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*g)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withTracing(ctx, cfg, func(ctx context.Context) error {
				return server.New(cfg.Loader(), cfg.Defaults).ListenAndServe(ctx, cfg.Addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

// exportFlags mirror the Control Panel selectors.
type exportFlags struct {
	mode    string
	out     string
	x       string
	y       string
	display string
	color   string
	year    int
	filter  string
	values  []string
	size    string
}

// request turns the flags that were set into a Control Panel request.
func (f exportFlags) request(cmd *cobra.Command) controls.Request {
	req := controls.Request{}
	str := map[string]string{
		controls.KeyX:       f.x,
		controls.KeyY:       f.y,
		controls.KeyDisplay: f.display,
		controls.KeyColor:   f.color,
		controls.KeyFilter:  f.filter,
		controls.KeySize:    f.size,
	}
	for name, v := range str {
		if cmd.Flags().Changed(name) {
			req.Set(name, v)
		}
	}
	if cmd.Flags().Changed(controls.KeyYear) {
		req.Set(controls.KeyYear, strconv.Itoa(f.year))
	}
	if cmd.Flags().Changed(controls.KeyValues) {
		req.Set(controls.KeyValues, f.values...)
	}
	return req
}

func newExportCmd(g *globals) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chart, its figure and the filtered rows to files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*g)
			if err != nil {
				return err
			}
			mode, err := controls.ParseMode(f.mode)
			if err != nil {
				return err
			}
			dir := f.out
			if dir == "" {
				dir = cfg.ExportDir
			}
			return withTracing(cmd.Context(), cfg, func(ctx context.Context) error {
				ds, err := cfg.Loader().Load(ctx)
				if err != nil {
					return err
				}
				panel, err := controls.Build(ds, mode, f.request(cmd), cfg.Defaults)
				if err != nil {
					return err
				}
				res, err := export.Run(ctx, dir, ds, panel.Selection())
				if err != nil {
					return err
				}
				if res.Spec.Empty() {
					fmt.Fprintln(cmd.OutOrStdout(), "No rows match the current selection.")
				}
				for _, p := range res.Files {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return nil
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.mode, "mode", "plot", "view to export: plot or map")
	fl.StringVar(&f.out, "out", "", "output directory (default from config)")
	fl.StringVar(&f.x, controls.KeyX, "", "plot X-axis column")
	fl.StringVar(&f.y, controls.KeyY, "", "plot Y-axis column")
	fl.StringVar(&f.display, controls.KeyDisplay, "", "plot hover column")
	fl.StringVar(&f.color, controls.KeyColor, "", "plot color column")
	fl.IntVar(&f.year, controls.KeyYear, 0, "plot year")
	fl.StringVar(&f.filter, controls.KeyFilter, "", "map filter column")
	fl.StringSliceVar(&f.values, controls.KeyValues, nil, "map filter values (comma separated)")
	fl.StringVar(&f.size, controls.KeySize, "", "map dot size column")
	return cmd
}

func newColumnsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the dataset columns with their type and missing counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*g)
			if err != nil {
				return err
			}
			ds, err := cfg.Loader().Load(cmd.Context())
			if err != nil {
				return err
			}
			writeColumns(cmd.OutOrStdout(), ds.Schema())
			return nil
		},
	}
}

func newConfigCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*g)
			if err != nil {
				return err
			}
			b, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
