package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyroxx/androrm/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Models []string          `json:"models,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError is a single model-definition problem with source position.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModelOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate model definitions without compiling",
		Long: `Validate CUE model definitions: field types, relation targets,
and inheritance chains. Faster than compiling a query for development
feedback.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, opts, cmd)
		},
	}

	addModelFlags(cmd, opts)

	return cmd
}

func runValidate(rootOpts *RootOptions, opts *ModelOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   rootOpts.Verbose,
	}

	reg, err := loadRegistry(opts)
	if err != nil {
		return outputValidationFailure(formatter, err)
	}

	names := make([]string, 0, len(reg.Models()))
	for _, m := range reg.Models() {
		formatter.VerboseLog("Validated model: %s", m.Name())
		names = append(names, m.Name())
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Models: names})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d model(s) valid\n", len(names))
	return nil
}

// outputValidationFailure renders a load error, mapping structured load
// errors to their source position.
func outputValidationFailure(formatter *OutputFormatter, err error) error {
	verr := ValidationError{Field: "models", Message: err.Error()}

	var loadErr *schema.LoadError
	if errors.As(err, &loadErr) {
		verr.Field = loadErr.Field
		verr.Message = loadErr.Message
		if loadErr.Pos.IsValid() {
			verr.File = loadErr.Pos.Filename()
			verr.Line = loadErr.Pos.Line()
		}
	}

	if formatter.Format == "json" {
		if encErr := formatter.Error(ErrCodeLoadFailed, verr.Message, verr); encErr != nil {
			return encErr
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	if verr.Line > 0 {
		fmt.Fprintf(formatter.Writer, "  %s:%d\n", verr.File, verr.Line)
	}
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", verr.Field, verr.Message)
	return NewExitError(ExitFailure, "validation failed")
}
