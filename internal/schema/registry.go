package schema

import (
	"fmt"
	"strings"
)

// DefaultPrimaryKey is the identifier column name used when a registry is
// created without an explicit override. The primary-key column name is
// global: one fixed string shared by every table.
const DefaultPrimaryKey = "id"

// Registry holds the registered models and the global primary-key column
// name. Register everything up front, then treat the registry as read-only;
// the compiler relies on that for lock-free concurrent compilation.
type Registry struct {
	pk     string
	names  []string
	models map[string]*Model
}

// Option configures a registry at construction time.
type Option func(*Registry)

// WithPrimaryKey overrides the global primary-key column name.
func WithPrimaryKey(pk string) Option {
	return func(r *Registry) { r.pk = pk }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		pk:     DefaultPrimaryKey,
		models: make(map[string]*Model),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PrimaryKey returns the global primary-key column name.
func (r *Registry) PrimaryKey() string { return r.pk }

// Register adds a model. Registering the same name twice is an error.
// Relation targets and parents may be registered in any order; Validate
// checks that every reference resolves.
func (r *Registry) Register(m *Model) error {
	if _, dup := r.models[m.Name()]; dup {
		return fmt.Errorf("model %s registered twice", m.Name())
	}
	r.names = append(r.names, m.Name())
	r.models[m.Name()] = m
	return nil
}

// Model looks up a registered model by name.
func (r *Registry) Model(name string) (*Model, bool) {
	m, ok := r.models[name]
	return m, ok
}

// Models returns all registered models in registration order.
func (r *Registry) Models() []*Model {
	out := make([]*Model, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.models[name])
	}
	return out
}

// Parent returns the model m extends, if any.
func (r *Registry) Parent(m *Model) (*Model, bool) {
	if m.Parent() == "" {
		return nil, false
	}
	p, ok := r.models[m.Parent()]
	return p, ok
}

// Field resolves a field by name on m, consulting the parent chain when the
// model does not declare it.
func (r *Registry) Field(m *Model, name string) (Field, bool) {
	for cur := m; cur != nil; {
		if f, ok := cur.Field(name); ok {
			return f, true
		}
		p, ok := r.Parent(cur)
		if !ok {
			return nil, false
		}
		cur = p
	}
	return nil, false
}

// FieldNames returns every field name visible on m: declared first, then
// inherited, in declaration order. Shadowed names appear once.
func (r *Registry) FieldNames(m *Model) []string {
	var names []string
	seen := make(map[string]bool)
	for cur := m; cur != nil; {
		for _, name := range cur.Declared() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		p, ok := r.Parent(cur)
		if !ok {
			break
		}
		cur = p
	}
	return names
}

// Validate checks that every parent and relation target names a registered
// model, that no extends chain loops back on itself, and that no
// many-to-many relation targets its own model.
func (r *Registry) Validate() error {
	for _, name := range r.names {
		m := r.models[name]
		if m.Parent() != "" {
			if _, ok := r.models[m.Parent()]; !ok {
				return fmt.Errorf("model %s extends unknown model %s", name, m.Parent())
			}
		}
		for _, fn := range m.Declared() {
			f, _ := m.Field(fn)
			target := ""
			switch d := f.(type) {
			case ForeignKey:
				target = d.Target
			case ManyToMany:
				// A join table between a table and itself would carry two
				// identically named columns.
				if d.Target == name {
					return fmt.Errorf("model %s: field %s is a many-to-many relation onto itself", name, fn)
				}
				target = d.Target
			case OneToMany:
				target = d.Target
			}
			if target == "" {
				continue
			}
			if _, ok := r.models[target]; !ok {
				return fmt.Errorf("model %s: field %s targets unknown model %s", name, fn, target)
			}
		}
	}
	// Field and FieldNames walk the parent chain, so it must terminate.
	for _, name := range r.names {
		if err := r.checkParentChain(name); err != nil {
			return err
		}
	}
	return nil
}

// checkParentChain rejects extends chains that loop back on themselves.
func (r *Registry) checkParentChain(name string) error {
	path := []string{name}
	seen := map[string]bool{name: true}
	for cur := r.models[name]; cur.Parent() != ""; {
		p, ok := r.models[cur.Parent()]
		if !ok {
			break
		}
		if seen[p.Name()] {
			path = append(path, p.Name())
			return fmt.Errorf("inheritance cycle: %s", strings.Join(path, " -> "))
		}
		seen[p.Name()] = true
		path = append(path, p.Name())
		cur = p
	}
	return nil
}
