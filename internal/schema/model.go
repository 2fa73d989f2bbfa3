package schema

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Model describes one relational entity: its table, its declared fields in
// declaration order, and the model it extends, if any.
//
// Build a model with NewModel and DeclareField, then hand it to a Registry.
// Once registered it must not be mutated; compilation assumes read-only
// metadata.
type Model struct {
	name   string
	table  string
	parent string

	fieldNames []string
	fields     map[string]Field
}

// ModelOption configures a model at construction time.
type ModelOption func(*Model)

// WithTable overrides the derived table name.
func WithTable(table string) ModelOption {
	return func(m *Model) { m.table = table }
}

// WithParent declares the model this one extends. Inherited fields resolve
// after declared ones.
func WithParent(name string) ModelOption {
	return func(m *Model) { m.parent = name }
}

// NewModel creates a model. The table name defaults to the normalized,
// lower-cased model name.
func NewModel(name string, opts ...ModelOption) *Model {
	m := &Model{
		name:   name,
		table:  TableName(name),
		fields: make(map[string]Field),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TableName derives the default table name for a model name. Names are
// NFC-normalized before lower-casing so two spellings of the same name can
// never yield two tables.
func TableName(model string) string {
	return strings.ToLower(norm.NFC.String(model))
}

// DeclareField adds a field to the model. Redeclaring a name is an error;
// shadowing an inherited field is allowed and takes precedence on lookup.
func (m *Model) DeclareField(name string, f Field) error {
	if _, dup := m.fields[name]; dup {
		return fmt.Errorf("model %s: field %s declared twice", m.name, name)
	}
	m.fieldNames = append(m.fieldNames, name)
	m.fields[name] = f
	return nil
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Table returns the table name.
func (m *Model) Table() string { return m.table }

// Parent returns the name of the extended model, or "" if none.
func (m *Model) Parent() string { return m.parent }

// Field looks up a declared field. Inherited fields are not consulted; the
// registry walks the parent chain.
func (m *Model) Field(name string) (Field, bool) {
	f, ok := m.fields[name]
	return f, ok
}

// Declared returns the declared field names in declaration order.
func (m *Model) Declared() []string {
	names := make([]string, len(m.fieldNames))
	copy(names, m.fieldNames)
	return names
}

// ColumnName returns the column a field is stored under, defaulting to the
// field name for scalar and foreign-key fields without an explicit column.
func ColumnName(name string, f Field) string {
	switch d := f.(type) {
	case Scalar:
		if d.Column != "" {
			return d.Column
		}
	case ForeignKey:
		if d.Column != "" {
			return d.Column
		}
	}
	return name
}
