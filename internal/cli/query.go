package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyroxx/androrm/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*CompileOptions
	DB string // database file path
}

// QueryResult holds the executed query and its rows.
type QueryResult struct {
	Model string           `json:"model"`
	SQL   string           `json:"sql"`
	Rows  []map[string]any `json:"rows"`
	Count int              `json:"count"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{CompileOptions: &CompileOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "query <model> <filter-expr>",
		Short: "Compile a filter expression and execute it",
		Long: `Compile a filter expression against a model and run the resulting
query against a SQLite database:

  androrm query --models ./models --db app.db Branch "product.name = 'Widgets'"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], args[1], cmd)
		},
	}

	addModelFlags(cmd, &opts.ModelOptions)
	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite database file")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runQuery(opts *QueryOptions, model, expr string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	sel, err := compileQuery(opts.CompileOptions, formatter, model, expr)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Executing: %s", sel.SQL())

	st, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeQueryError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	dbRows, err := st.Query(cmd.Context(), sel)
	if err != nil {
		_ = formatter.Error(ErrCodeQueryError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "executing query", err)
	}
	defer dbRows.Close()

	rows, err := store.ScanRows(dbRows)
	if err != nil {
		_ = formatter.Error(ErrCodeQueryError, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading rows", err)
	}

	result := QueryResult{Model: model, SQL: sel.SQL(), Rows: rows, Count: len(rows)}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return printRows(formatter, rows)
}

// printRows renders rows as one "col=value" line per row, columns sorted for
// stable output.
func printRows(formatter *OutputFormatter, rows []map[string]any) error {
	for _, row := range rows {
		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		parts := make([]string, len(cols))
		for i, col := range cols {
			parts[i] = fmt.Sprintf("%s=%v", col, row[col])
		}
		fmt.Fprintln(formatter.Writer, strings.Join(parts, " "))
	}
	fmt.Fprintf(formatter.Writer, "%d row(s)\n", len(rows))
	return nil
}
