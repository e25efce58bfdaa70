package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/plotforge/plotforge"
	"github.com/plotforge/plotforge/chartspec"
	"github.com/plotforge/plotforge/engine"
	"github.com/plotforge/plotforge/helpers"
	"github.com/plotforge/plotforge/render"
)

// ============================================================================
// PLOTFORGE CLI — render, validate, inspect
// ============================================================================

var (
	flagConfig  string
	flagOutput  string
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "plotforge",
		Short:         "Derive and render charts from tabular data and a declarative config",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flagVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			})))
		},
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(renderCmd(), validateCmd(), inspectCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

// ============================================================================
// RENDER
// ============================================================================

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <data.csv>",
		Short: "Render a chart from a CSV file and a chart config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, metadata, err := loadRows(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(flagConfig, metadata)
			if err != nil {
				return err
			}

			orch := engine.New(
				engine.WithLogger(slog.Default()),
			)
			spec := orch.Render(engine.Input{
				Rows:     rows,
				Metadata: metadata,
				Config:   cfg,
				Animate:  true,
			})
			slog.Info("render pass complete", "state", spec.State, "chartType", spec.ChartType)

			out := os.Stdout
			if flagOutput != "" {
				f, err := os.Create(flagOutput)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return render.NewHTMLRenderer().Render(spec, out)
		},
	}
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "chart config file (YAML or JSON)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output HTML file (default stdout)")
	return cmd
}

// ============================================================================
// VALIDATE
// ============================================================================

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Validate a chart config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0], nil)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}
			fmt.Println("config valid")
			return nil
		},
	}
	return cmd
}

// ============================================================================
// INSPECT
// ============================================================================

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <data.csv>",
		Short: "Show inferred column metadata for a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, metadata, err := loadRows(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%d rows, %d columns\n\n", len(rows), len(metadata))
			for _, m := range metadata {
				fmt.Printf("%-24s %-8s unique=%d", m.Name, m.SimpleType, m.UniqueValues)
				if m.MinValue != nil {
					fmt.Printf("  range=[%v, %v]", m.MinValue, m.MaxValue)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the plotforge version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("plotforge", plotforge.Version)
		},
	}
}

// ============================================================================
// LOADING
// ============================================================================

func loadRows(path string) ([]engine.Row, []chartspec.ColumnMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read data file: %w", err)
	}
	rows, metadata, err := helpers.ParseCSV(data)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("parsed CSV", "rows", len(rows), "columns", len(metadata))
	return rows, metadata, nil
}

// loadConfig reads a config file over the defaults. YAML is a superset of
// JSON, so one decoder covers both. Column formats absent from the file are
// filled from the inferred metadata.
func loadConfig(path string, metadata []chartspec.ColumnMetadata) (chartspec.ChartConfig, error) {
	cfg := chartspec.DefaultChartConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if cfg.ColumnLabelFormats == nil {
		cfg.ColumnLabelFormats = make(map[string]chartspec.ColumnLabelFormat)
	}
	for name, f := range helpers.DefaultFormats(metadata) {
		if _, ok := cfg.ColumnLabelFormats[name]; !ok {
			cfg.ColumnLabelFormats[name] = f
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
