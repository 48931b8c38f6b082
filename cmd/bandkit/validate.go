package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bandkit/bandkit/internal/config"
	"github.com/bandkit/bandkit/internal/engine"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate <definition.yaml>",
	Short: "Validate a report definition without running it",
	Long: `Load a report definition and run every static check a run would:
structural validation, format spec compilation and expression
compilation. Reports all problems at once and exits non-zero if any
are found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		loader := config.NewDefinitionLoader()
		def, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		// Building the engine compiles every spec and expression eagerly.
		if _, err := engine.New(def); err != nil {
			return err
		}

		slog.Info("definition is valid",
			"name", def.Metadata.Name,
			"version", def.Metadata.Version,
			"groups", len(def.Groups),
			"variables", len(def.Variables),
			"bands", len(def.Bands))
		fmt.Printf("%s (v%s): ok\n", def.Metadata.Name, def.Metadata.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
