package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyroxx/androrm/internal/qbuild"
	"github.com/cyroxx/androrm/internal/sqlgen"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	ModelOptions
}

// CompileResult holds the compiled query.
type CompileResult struct {
	Model string `json:"model"`
	SQL   string `json:"sql"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <model> <filter-expr>",
		Short: "Compile a filter expression to SQL",
		Long: `Compile a filter expression against a model into a SQL query.

Filter paths use dots to traverse relations, and AND combines filters:

  androrm compile --models ./models Branch "product.name = 'Widgets' AND name = 'Acme'"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], args[1], cmd)
		},
	}

	addModelFlags(cmd, &opts.ModelOptions)

	return cmd
}

func runCompile(opts *CompileOptions, model, expr string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	sel, err := compileQuery(opts, formatter, model, expr)
	if err != nil {
		return err
	}

	result := CompileResult{Model: model, SQL: sel.SQL()}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, result.SQL)
	return nil
}

// compileQuery loads the registry, parses the expression, and compiles it.
// Failures are written through the formatter and returned as ExitErrors, so
// callers only propagate.
func compileQuery(opts *CompileOptions, formatter *OutputFormatter, model, expr string) (*sqlgen.Select, error) {
	reg, err := loadRegistry(&opts.ModelOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "loading models", err)
	}
	formatter.VerboseLog("Loaded %d model(s) from %s", len(reg.Models()), opts.Models)

	filters, err := qbuild.ParseFilters(expr)
	if err != nil {
		_ = formatter.Error(ErrCodeBadFilter, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "parsing filters", err)
	}

	sel, err := qbuild.NewCompiler(reg).Compile(model, filters)
	if err != nil {
		_ = formatter.Error(compileErrorCode(err), err.Error(), nil)
		return nil, WrapExitError(ExitFailure, "compiling filters", err)
	}
	return sel, nil
}
