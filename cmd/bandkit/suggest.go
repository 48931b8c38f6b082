package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bandkit/bandkit/internal/chart"
	"github.com/bandkit/bandkit/internal/stream"
)

var (
	suggestRecords string
	seriesFields   []string
	labelField     string
	suggestLimit   int
)

// suggestCmd represents the suggest command.
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest chart types for fields of a record stream",
	Long: `Read a JSON-lines record stream, collect the named fields as series
and rank plausible chart types for them. Labels participate in the
ranking: time-like labels favor line charts, few categories favor pies.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSuggestAction(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringVar(&suggestRecords, "records", "-", "JSON-lines record file (default: stdin)")
	suggestCmd.Flags().StringArrayVar(&seriesFields, "series", nil, "Record field to collect as a series (repeatable)")
	suggestCmd.Flags().StringVar(&labelField, "label", "", "Record field holding the series labels")
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", chart.DefaultLimit, "Maximum number of suggestions")

	_ = suggestCmd.MarkFlagRequired("series")
}

func runSuggestAction(ctx context.Context) error {
	src, closeSrc, err := openRecords(suggestRecords)
	if err != nil {
		return err
	}
	defer closeSrc()

	fields := seriesFields
	if labelField != "" {
		fields = append(fields, labelField)
	}

	series, err := collectSeries(ctx, src, fields)
	if err != nil {
		return err
	}

	suggestions := chart.Suggest(series, suggestLimit)
	if len(suggestions) == 0 {
		return fmt.Errorf("no usable values found for fields %v", fields)
	}

	out, err := json.MarshalIndent(suggestions, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

// collectSeries drains the stream, keeping the named fields column-wise.
func collectSeries(ctx context.Context, src stream.Source, fields []string) (map[string][]any, error) {
	series := make(map[string][]any, len(fields))
	for {
		record, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return series, nil
		}
		if err != nil {
			return nil, err
		}
		for _, field := range fields {
			if value, ok := record[field]; ok {
				series[field] = append(series[field], value)
			}
		}
	}
}
