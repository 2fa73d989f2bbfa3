package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cyroxx/androrm/internal/qbuild"
	"github.com/cyroxx/androrm/internal/schema"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric    = "ERROR"
	ErrCodeLoadFailed = "LOAD_FAILED"
	ErrCodeBadFilter  = "BAD_FILTER"
	ErrCodeQueryError = "QUERY_ERROR"
)

// ModelOptions holds the model-loading flags shared by every command that
// needs a registry.
type ModelOptions struct {
	Models     string // path to a CUE file or directory
	PrimaryKey string // primary key column override
}

// addModelFlags registers the shared model-loading flags on a command.
func addModelFlags(cmd *cobra.Command, opts *ModelOptions) {
	cmd.Flags().StringVarP(&opts.Models, "models", "m", "", "path to CUE model definitions (file or directory)")
	cmd.Flags().StringVar(&opts.PrimaryKey, "primary-key", "", "primary key column override")
	_ = cmd.MarkFlagRequired("models")
}

// loadRegistry loads the model registry from the --models flag.
// A directory loads every CUE file in it as one instance; a file loads
// standalone.
func loadRegistry(opts *ModelOptions) (*schema.Registry, error) {
	if opts.Models == "" {
		return nil, fmt.Errorf("--models is required")
	}

	var schemaOpts []schema.Option
	if opts.PrimaryKey != "" {
		schemaOpts = append(schemaOpts, schema.WithPrimaryKey(opts.PrimaryKey))
	}

	info, err := os.Stat(opts.Models)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", opts.Models, err)
	}
	if info.IsDir() {
		return schema.LoadDir(opts.Models, schemaOpts...)
	}

	src, err := os.ReadFile(opts.Models)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.Models, err)
	}
	return schema.LoadString(string(src), schemaOpts...)
}

// compileErrorCode maps an error from the compiler to an output code,
// preferring the structured compile error code when one is present.
func compileErrorCode(err error) string {
	var cerr *qbuild.CompileError
	if errors.As(err, &cerr) {
		return string(cerr.Code)
	}
	return ErrCodeGeneric
}
