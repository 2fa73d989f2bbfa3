package qbuild

import (
	"fmt"

	"github.com/cyroxx/androrm/internal/schema"
)

// resolveField looks up a field on the model, retrying up the inheritance
// chain. Pure lookup, no side effects.
func (c *Compiler) resolveField(m *schema.Model, name string) (schema.Field, error) {
	if f, ok := c.reg.Field(m, name); ok {
		return f, nil
	}
	return nil, newUnresolvedFieldError(m.Name(), name, c.reg.FieldNames(m))
}

// targetModel resolves a relation's target model name through the registry.
func (c *Compiler) targetModel(m *schema.Model, fieldName, target string) (*schema.Model, error) {
	t, ok := c.reg.Model(target)
	if !ok {
		return nil, fmt.Errorf("model %s: field %s targets unregistered model %s", m.Name(), fieldName, target)
	}
	return t, nil
}
