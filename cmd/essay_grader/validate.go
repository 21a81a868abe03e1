package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/essay-grader/internal/schemas"
	schemafiles "github.com/jonathan/essay-grader/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a schema",
	Long: `Validate a score request, score report or benchmark summary. --schema takes either
an embedded schema name (` + strings.Join(schemafiles.Names, ", ") + `) or a path to a schema file.`,
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Embedded schema name or path to a JSON Schema file (required)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON file to validate (required)")
	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	err := validateFile(validateSchema, validateJSON)
	if err == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed with %d error(s)\n", len(validationErr.Errors))
	}
	return err
}

// validateFile validates jsonPath against an embedded schema when schema names one,
// and against the schema file at that path otherwise.
func validateFile(schema, jsonPath string) error {
	if isEmbeddedSchema(schema) {
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return fmt.Errorf("JSON file not found: %s", jsonPath)
		}
		return schemas.ValidateEmbedded(schema, data)
	}
	return schemas.ValidateJSON(schema, jsonPath)
}

func isEmbeddedSchema(name string) bool {
	return slices.Contains(schemafiles.Names, name)
}
