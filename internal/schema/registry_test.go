package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNameDefaults(t *testing.T) {
	m := NewModel("Branch")
	assert.Equal(t, "branch", m.Table())

	m = NewModel("Branch", WithTable("branches"))
	assert.Equal(t, "branches", m.Table())
}

func TestDeclareFieldRejectsDuplicate(t *testing.T) {
	m := NewModel("Branch")
	require.NoError(t, m.DeclareField("name", Scalar{SQLType: "varchar"}))
	err := m.DeclareField("name", Scalar{SQLType: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(NewModel("Branch")))

	m, ok := reg.Model("Branch")
	require.True(t, ok)
	assert.Equal(t, "Branch", m.Name())

	err := reg.Register(NewModel("Branch"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")
}

func TestRegistryPrimaryKey(t *testing.T) {
	assert.Equal(t, "id", New().PrimaryKey())
	assert.Equal(t, "pk", New(WithPrimaryKey("pk")).PrimaryKey())
}

func TestFieldNamesDeclaredThenInherited(t *testing.T) {
	reg := New()

	base := NewModel("Base")
	require.NoError(t, base.DeclareField("created", Scalar{SQLType: "date"}))
	require.NoError(t, base.DeclareField("name", Scalar{SQLType: "text"}))
	require.NoError(t, reg.Register(base))

	branch := NewModel("Branch", WithParent("Base"))
	require.NoError(t, branch.DeclareField("name", Scalar{SQLType: "varchar", MaxLength: 50}))
	require.NoError(t, branch.DeclareField("city", Scalar{SQLType: "varchar"}))
	require.NoError(t, reg.Register(branch))

	// Declared names first, inherited after; the shadowed "name" appears once.
	assert.Equal(t, []string{"name", "city", "created"}, reg.FieldNames(branch))
}

func TestValidateCatchesDanglingReferences(t *testing.T) {
	reg := New()
	branch := NewModel("Branch")
	require.NoError(t, branch.DeclareField("product", ForeignKey{Target: "Product"}))
	require.NoError(t, reg.Register(branch))

	err := reg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model Product")

	reg2 := New()
	require.NoError(t, reg2.Register(NewModel("Branch", WithParent("Base"))))
	err = reg2.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extends unknown model Base")
}

func TestValidateRejectsInheritanceCycle(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(NewModel("Branch", WithParent("Base"))))
	require.NoError(t, reg.Register(NewModel("Base", WithParent("Branch"))))

	err := reg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inheritance cycle")
	assert.Contains(t, err.Error(), "Branch -> Base -> Branch")

	// A model extending itself is the degenerate case.
	reg2 := New()
	require.NoError(t, reg2.Register(NewModel("Branch", WithParent("Branch"))))
	err = reg2.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inheritance cycle: Branch -> Branch")
}

func TestFieldResolvesOnValidatedCycleFreeChain(t *testing.T) {
	reg := New()
	base := NewModel("Base")
	require.NoError(t, base.DeclareField("created", Scalar{SQLType: "date"}))
	require.NoError(t, reg.Register(base))
	branch := NewModel("Branch", WithParent("Base"))
	require.NoError(t, reg.Register(branch))
	require.NoError(t, reg.Validate())

	_, ok := reg.Field(branch, "created")
	assert.True(t, ok)
	_, ok = reg.Field(branch, "colour")
	assert.False(t, ok)
}

func TestValidateRejectsSelfManyToMany(t *testing.T) {
	reg := New()
	person := NewModel("Person")
	require.NoError(t, person.DeclareField("friends", ManyToMany{Target: "Person"}))
	require.NoError(t, reg.Register(person))

	err := reg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "many-to-many relation onto itself")
}

func TestColumnNameDefaults(t *testing.T) {
	assert.Equal(t, "name", ColumnName("name", Scalar{SQLType: "varchar"}))
	assert.Equal(t, "label", ColumnName("name", Scalar{Column: "label", SQLType: "varchar"}))
	assert.Equal(t, "product", ColumnName("product", ForeignKey{Target: "Product"}))
	assert.Equal(t, "product_fk", ColumnName("product", ForeignKey{Column: "product_fk", Target: "Product"}))
}

func TestRelationTableConvention(t *testing.T) {
	m := ManyToMany{Target: "Supplier"}
	assert.Equal(t, "branch_supplier", RelationTable(m, "branch", "supplier"))
	// Order of endpoints does not matter.
	assert.Equal(t, "branch_supplier", RelationTable(m, "supplier", "branch"))
	// Explicit join table wins.
	m.JoinTable = "branch_suppliers"
	assert.Equal(t, "branch_suppliers", RelationTable(m, "branch", "supplier"))
}

func TestRelational(t *testing.T) {
	assert.False(t, Relational(Scalar{SQLType: "text"}))
	assert.True(t, Relational(ForeignKey{Target: "Product"}))
	assert.True(t, Relational(ManyToMany{Target: "Supplier"}))
	assert.True(t, Relational(OneToMany{Target: "Branch"}))
}
