package qbuild

import (
	"fmt"
	"strconv"

	"github.com/cyroxx/androrm/internal/schema"
	"github.com/cyroxx/androrm/internal/sqlgen"
)

// Compiler compiles filters against a schema registry. It holds no mutable
// state, so one Compiler can serve concurrent compilations as long as the
// registry is not mutated underneath it.
type Compiler struct {
	reg *schema.Registry
}

// NewCompiler creates a compiler over the given registry.
func NewCompiler(reg *schema.Registry) *Compiler {
	return &Compiler{reg: reg}
}

// Compile combines an ordered, non-empty list of filters on the named model
// with AND semantics and returns the complete Select. Any failure aborts
// the whole compilation; no filter is ever silently dropped.
func (c *Compiler) Compile(model string, filters []Filter) (*sqlgen.Select, error) {
	m, ok := c.reg.Model(model)
	if !ok {
		return nil, fmt.Errorf("model %s not registered", model)
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("model %s: no filters given", model)
	}
	return c.buildQuery(m, filters, 0)
}

// buildQuery compiles filters[0] into a Select over m's full rows, then
// recursively self-joins it on primary key against the Select for the
// remaining filters. The self-join chain intersects the identifier sets of
// independently-shaped sub-queries; folding every predicate into one WHERE
// would not work because each filter's sub-select may have a different FROM
// structure.
func (c *Compiler) buildQuery(m *schema.Model, filters []Filter, depth int) (*sqlgen.Select, error) {
	f := filters[0]
	if err := checkPath(m, f); err != nil {
		return nil, err
	}

	pk := c.reg.PrimaryKey()
	var sub *sqlgen.Select

	if len(f.Path) == 1 {
		field, err := c.resolveField(m, f.Path[0])
		if err != nil {
			return nil, err
		}
		if schema.Relational(field) {
			// Gather matching identifiers through the relation, then
			// re-attach the full rows by primary key.
			ids, err := c.buildJoin(m, f.Path, f, depth)
			if err != nil {
				return nil, err
			}
			join := &sqlgen.Join{
				Left:    sqlgen.Aliased{Source: sqlgen.Table(m.Table()), Alias: "a"},
				Right:   sqlgen.Aliased{Source: ids, Alias: "b"},
				OnLeft:  pk,
				OnRight: m.Table(),
			}
			sub = &sqlgen.Select{From: join, Projection: []string{"a.*"}}
		} else {
			sub = &sqlgen.Select{
				From:  sqlgen.Table(m.Table()),
				Where: sqlgen.NewWhere(f.Clause),
			}
		}
	} else {
		ids, err := c.buildJoin(m, f.Path, f, depth)
		if err != nil {
			return nil, err
		}
		left := "outer" + strconv.Itoa(depth+1)
		join := &sqlgen.Join{
			Left:    sqlgen.Aliased{Source: sqlgen.Table(m.Table()), Alias: left},
			Right:   sqlgen.Aliased{Source: ids, Alias: "outer" + strconv.Itoa(depth+2)},
			OnLeft:  pk,
			OnRight: m.Table(),
		}
		sub = &sqlgen.Select{From: join, Projection: []string{left + ".*"}}
	}

	if len(filters) == 1 {
		return sub, nil
	}

	rest, err := c.buildQuery(m, filters[1:], depth+2)
	if err != nil {
		return nil, err
	}

	left := "outerSelf" + strconv.Itoa(depth)
	join := &sqlgen.Join{
		Left:    sqlgen.Aliased{Source: sub, Alias: left},
		Right:   sqlgen.Aliased{Source: rest, Alias: "outerSelf" + strconv.Itoa(depth+1)},
		OnLeft:  pk,
		OnRight: pk,
	}
	return &sqlgen.Select{From: join, Projection: []string{left + ".*"}}, nil
}

// buildJoin compiles one filter's path into a Select whose rows, projected
// under a single column aliased to m's table name, are the identifiers of
// m's table satisfying the filter through the path.
//
// The depth counter increases by exactly 2 per relational hop so generated
// aliases never collide within one expansion. It is threaded explicitly;
// re-entrant and concurrent compilations each own their own counter.
func (c *Compiler) buildJoin(m *schema.Model, path []string, f Filter, depth int) (*sqlgen.Select, error) {
	name := path[0]
	field, err := c.resolveField(m, name)
	if err != nil {
		return nil, err
	}

	if len(path) == 1 {
		if m2m, ok := field.(schema.ManyToMany); ok {
			target, err := c.targetModel(m, name, m2m.Target)
			if err != nil {
				return nil, err
			}
			// The match runs against the far side of the relation table,
			// so the comparison key becomes the target table's column.
			// WithKey copies: the caller's statement stays untouched.
			stmt := f.Clause.WithKey(target.Table())
			return &sqlgen.Select{
				From:       sqlgen.Table(schema.RelationTable(m2m, m.Table(), target.Table())),
				Projection: []string{m.Table()},
				Where:      sqlgen.NewWhere(stmt),
			}, nil
		}
		if _, ok := field.(schema.OneToMany); ok {
			return nil, newUnsupportedRelationError(m.Name(), name)
		}
		return &sqlgen.Select{
			From:       sqlgen.Table(m.Table()),
			Projection: []string{c.reg.PrimaryKey() + " AS " + m.Table()},
			Where:      sqlgen.NewWhere(f.Clause),
		}, nil
	}

	if !schema.Relational(field) {
		return nil, newMalformedPathError(m.Name(),
			fmt.Sprintf("segment %s of path %s is not relational", name, f.PathString()))
	}

	spec, err := c.unwrapRelation(m, name, field)
	if err != nil {
		return nil, err
	}
	inner, err := c.buildJoin(spec.target, path[1:], f, depth+2)
	if err != nil {
		return nil, err
	}

	join := &sqlgen.Join{
		Left:    sqlgen.Aliased{Source: sqlgen.Table(spec.leftTable), Alias: "table" + strconv.Itoa(depth)},
		Right:   sqlgen.Aliased{Source: inner, Alias: "table" + strconv.Itoa(depth+1)},
		OnLeft:  spec.onLeft,
		OnRight: spec.onRight,
	}
	return &sqlgen.Select{
		From: join,
		Projection: []string{
			"table" + strconv.Itoa(depth) + "." + spec.selectColumn + " AS " + spec.selectAlias,
		},
	}, nil
}

// checkPath rejects empty paths and empty segments before any resolution
// happens.
func checkPath(m *schema.Model, f Filter) error {
	if len(f.Path) == 0 {
		return newMalformedPathError(m.Name(), "empty filter path")
	}
	for _, seg := range f.Path {
		if seg == "" {
			return newMalformedPathError(m.Name(),
				fmt.Sprintf("path %q contains an empty segment", f.PathString()))
		}
	}
	return nil
}
