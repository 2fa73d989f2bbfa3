package schema

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// LoadError represents a model-definition error with source position.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// LoadString parses model definitions from CUE source and returns a
// validated registry.
func LoadString(src string, opts ...Option) (*Registry, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return loadValue(v, opts...)
}

// LoadDir loads every CUE file in a directory as one instance and returns a
// validated registry.
func LoadDir(dir string, opts ...Option) (*Registry, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Field: "dir", Message: fmt.Sprintf("model directory not found: %s", dir)}
	}
	if err != nil {
		return nil, fmt.Errorf("accessing model directory: %w", err)
	}
	if !info.IsDir() {
		return nil, &LoadError{Field: "dir", Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Field: "dir", Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return loadValue(v, opts...)
}

// loadValue extracts every entry under "model:" into a registry.
func loadValue(v cue.Value, opts ...Option) (*Registry, error) {
	modelsVal := v.LookupPath(cue.ParsePath("model"))
	if !modelsVal.Exists() {
		return nil, &LoadError{Field: "model", Message: "no model definitions found", Pos: v.Pos()}
	}

	iter, err := modelsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	reg := New(opts...)
	for iter.Next() {
		m, err := parseModel(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

func parseModel(name string, v cue.Value) (*Model, error) {
	var opts []ModelOption

	if table, ok, err := optionalString(v, "table"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithTable(table))
	}
	if parent, ok, err := optionalString(v, "extends"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithParent(parent))
	}

	m := NewModel(name, opts...)

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &LoadError{
			Field:   name + ".fields",
			Message: "fields is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		f, err := parseField(name, iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		if err := m.DeclareField(iter.Label(), f); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func parseField(model, name string, v cue.Value) (Field, error) {
	fieldPath := model + "." + name

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return nil, &LoadError{Field: fieldPath, Message: "type is required", Pos: v.Pos()}
	}
	typ, err := typeVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	column, _, err := optionalString(v, "column")
	if err != nil {
		return nil, err
	}

	switch typ {
	case "char", "varchar":
		maxLength, err := optionalInt(v, "maxLength")
		if err != nil {
			return nil, err
		}
		return Scalar{Column: column, SQLType: "varchar", MaxLength: maxLength}, nil
	case "text":
		return Scalar{Column: column, SQLType: "text"}, nil
	case "integer", "int":
		return Scalar{Column: column, SQLType: "integer"}, nil
	case "boolean", "bool":
		return Scalar{Column: column, SQLType: "boolean"}, nil
	case "date":
		return Scalar{Column: column, SQLType: "date"}, nil
	case "fk":
		target, err := requireString(v, fieldPath, "target")
		if err != nil {
			return nil, err
		}
		return ForeignKey{Column: column, Target: target}, nil
	case "m2m":
		target, err := requireString(v, fieldPath, "target")
		if err != nil {
			return nil, err
		}
		through, _, err := optionalString(v, "through")
		if err != nil {
			return nil, err
		}
		return ManyToMany{JoinTable: through, Target: target}, nil
	case "o2m":
		target, err := requireString(v, fieldPath, "target")
		if err != nil {
			return nil, err
		}
		return OneToMany{Target: target}, nil
	default:
		return nil, &LoadError{
			Field:   fieldPath,
			Message: fmt.Sprintf("unsupported field type %q", typ),
			Pos:     typeVal.Pos(),
		}
	}
}

func optionalString(v cue.Value, path string) (string, bool, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return "", false, nil
	}
	s, err := val.String()
	if err != nil {
		return "", false, formatCUEError(err)
	}
	return s, true, nil
}

func optionalInt(v cue.Value, path string) (int, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return 0, nil
	}
	n, err := val.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func requireString(v cue.Value, fieldPath, path string) (string, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return "", &LoadError{
			Field:   fieldPath,
			Message: path + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}
