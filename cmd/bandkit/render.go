package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bandkit/bandkit/internal/config"
	"github.com/bandkit/bandkit/internal/engine"
	"github.com/bandkit/bandkit/internal/render"
	"github.com/bandkit/bandkit/internal/stream"
)

var (
	recordsPath   string
	outFormat     string
	outFile       string
	paramFlags    []string
	localeFlag    string
	recordTimeout time.Duration
)

// renderCmd represents the render command.
var renderCmd = &cobra.Command{
	Use:   "render <definition.yaml>",
	Short: "Render a report from a record stream",
	Long: `Load a report definition, run it against a JSON-lines record stream
and write the rendered output.

Parameters declared by the report are supplied with repeated --param
flags. Values are decoded as JSON when possible, so numbers and booleans
arrive typed:
  --param region=EMEA --param min_amount=100 --param draft=true`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRenderAction(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&recordsPath, "records", "-", "JSON-lines record file (default: stdin)")
	renderCmd.Flags().StringVar(&outFormat, "format", "json", "Output format: json, yaml, html, text")
	renderCmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file path (default: stdout)")
	renderCmd.Flags().StringArrayVar(&paramFlags, "param", nil, "Report parameter as key=value (repeatable)")
	renderCmd.Flags().StringVar(&localeFlag, "locale", "", "Locale override for formatting")
	renderCmd.Flags().DurationVar(&recordTimeout, "timeout-per-record", 0, "Bound on pulling each record (0 disables)")
}

// runRenderAction implements the core logic for the render command.
func runRenderAction(ctx context.Context, definitionPath string) error {
	slog.Info("loading definition", "path", definitionPath)

	loader := config.NewDefinitionLoader()
	def, err := loader.Load(definitionPath)
	if err != nil {
		return fmt.Errorf("failed to load definition: %w", err)
	}

	slog.Info("definition loaded", "name", def.Metadata.Name, "version", def.Metadata.Version)

	eng, err := engine.New(def)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	src, closeSrc, err := openRecords(recordsPath)
	if err != nil {
		return err
	}
	defer closeSrc()

	params, err := parseParams(paramFlags)
	if err != nil {
		return err
	}

	cfg := engine.DefaultRunConfig()
	cfg.Locale = localeFlag
	cfg.TimeoutPerRecord = recordTimeout

	result, runErr := eng.Run(ctx, src, params, cfg)

	slog.Info("run finished",
		"outcome", result.Outcome,
		"records", result.Summary.Records,
		"pages", result.Summary.Pages,
		"instructions", result.Summary.Instructions,
		"warnings", result.Summary.Warnings,
		"duration", result.Duration.Round(time.Millisecond))

	for _, w := range result.Warnings {
		slog.Warn("element warning", "band", w.Band, "element", w.Element, "record", w.Record, "message", w.Message)
	}

	// Partial output from failed or cancelled runs is still rendered so
	// the caller can inspect it; the exit code reflects the outcome.
	driver, err := render.NewRegistry().Lookup(outFormat)
	if err != nil {
		return err
	}
	output, err := driver.Render(result.Instructions, render.Options{
		Indent: true,
		Title:  def.Metadata.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	if err := writeOutput(output); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("run %s: %w", result.Outcome, runErr)
	}
	return nil
}

// openRecords opens the record stream, "-" meaning stdin.
func openRecords(path string) (stream.Source, func(), error) {
	if path == "-" {
		return stream.NewJSONLSource(os.Stdin), func() {}, nil
	}
	//nolint:gosec // G304: User-controlled record file path is intentional
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open records: %w", err)
	}
	return stream.NewJSONLSource(file), func() { _ = file.Close() }, nil
}

// parseParams turns repeated key=value flags into a typed parameter map.
func parseParams(flags []string) (map[string]any, error) {
	params := make(map[string]any, len(flags))
	for _, flag := range flags {
		key, raw, ok := strings.Cut(flag, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", flag)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw // not JSON, keep as string
		}
		params[key] = value
	}
	return params, nil
}

// writeOutput writes the rendered bytes to the output file or stdout.
func writeOutput(output []byte) error {
	if outFile == "" {
		_, err := os.Stdout.Write(output)
		return err
	}
	//nolint:gosec // G304: User-controlled output file path is intentional
	if err := os.WriteFile(outFile, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	slog.Info("output written", "file", outFile, "format", outFormat)
	return nil
}
