// Package schema holds the model metadata the query compiler resolves
// field paths against.
//
// A Model pairs a table name with an ordered set of declared fields; a model
// may extend a parent model, in which case lookups fall back to the parent
// chain in declared-then-inherited order. Field descriptors are a sealed
// set: Scalar, ForeignKey, ManyToMany, and OneToMany.
//
// Models live in a Registry, which also owns the one global primary-key
// column name shared by every table. The registry is immutable after
// registration and validation, which is what makes concurrent compilations
// safe without locking.
//
// Definitions can be written in CUE and loaded with LoadDir or LoadString:
//
//	model: Branch: {
//		fields: {
//			name:    {type: "char", maxLength: 50}
//			product: {type: "fk", target: "Product"}
//		}
//	}
package schema
