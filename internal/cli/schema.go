package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyroxx/androrm/internal/store"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
	ModelOptions
	DB string // optional database to apply the DDL to
}

// SchemaResult holds the generated DDL.
type SchemaResult struct {
	Statements []string `json:"statements"`
	Applied    bool     `json:"applied"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print or apply the DDL for the model definitions",
		Long: `Generate CREATE TABLE statements for every model, including
many-to-many join tables. With --db, the statements are applied to the
database instead of printed:

  androrm schema --models ./models
  androrm schema --models ./models --db app.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(opts, cmd)
		},
	}

	addModelFlags(cmd, &opts.ModelOptions)
	cmd.Flags().StringVar(&opts.DB, "db", "", "apply the DDL to this SQLite database")

	return cmd
}

func runSchema(opts *SchemaOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	reg, err := loadRegistry(&opts.ModelOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading models", err)
	}

	stmts := store.CreateTableStatements(reg)

	if opts.DB != "" {
		st, err := store.Open(opts.DB)
		if err != nil {
			_ = formatter.Error(ErrCodeQueryError, err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening database", err)
		}
		defer st.Close()

		if err := st.CreateTables(cmd.Context(), reg); err != nil {
			_ = formatter.Error(ErrCodeQueryError, err.Error(), nil)
			return WrapExitError(ExitCommandError, "applying DDL", err)
		}
		formatter.VerboseLog("Applied %d statement(s) to %s", len(stmts), opts.DB)
	}

	result := SchemaResult{Statements: stmts, Applied: opts.DB != ""}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	for _, stmt := range stmts {
		fmt.Fprintln(formatter.Writer, stmt+";")
	}
	return nil
}
