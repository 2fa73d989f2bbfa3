package qbuild

import (
	"fmt"

	"github.com/cyroxx/androrm/internal/schema"
)

// joinSpec fully determines one SQL-level join step for one relation hop.
type joinSpec struct {
	// leftTable is the table forming the left side of the join.
	leftTable string

	// selectColumn is the column projected out of the join.
	selectColumn string

	// selectAlias is the name the projected column is visible under. It is
	// always the origin table's name, so foreign-key and many-to-many hops
	// stack uniformly.
	selectAlias string

	// onLeft and onRight are the join key columns of the left and right
	// sides.
	onLeft  string
	onRight string

	// target is the model the hop lands on.
	target *schema.Model
}

// unwrapRelation computes the join parameters for traversing a relational
// field declared on m.
//
// Many-to-many hops route through the relation table, whose columns are
// named after the endpoint tables. Foreign-key hops join the origin table's
// key column directly. One-to-many hops fail; they are never silently
// approximated.
func (c *Compiler) unwrapRelation(m *schema.Model, fieldName string, f schema.Field) (joinSpec, error) {
	switch d := f.(type) {
	case schema.ManyToMany:
		target, err := c.targetModel(m, fieldName, d.Target)
		if err != nil {
			return joinSpec{}, err
		}
		return joinSpec{
			leftTable:    schema.RelationTable(d, m.Table(), target.Table()),
			selectColumn: m.Table(),
			selectAlias:  m.Table(),
			onLeft:       target.Table(),
			onRight:      target.Table(),
			target:       target,
		}, nil
	case schema.ForeignKey:
		target, err := c.targetModel(m, fieldName, d.Target)
		if err != nil {
			return joinSpec{}, err
		}
		return joinSpec{
			leftTable:    m.Table(),
			selectColumn: c.reg.PrimaryKey(),
			selectAlias:  m.Table(),
			onLeft:       schema.ColumnName(fieldName, d),
			onRight:      target.Table(),
			target:       target,
		}, nil
	case schema.OneToMany:
		return joinSpec{}, newUnsupportedRelationError(m.Name(), fieldName)
	default:
		return joinSpec{}, fmt.Errorf("model %s: field %s is not relational", m.Name(), fieldName)
	}
}
