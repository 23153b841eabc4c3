package model

import (
	"testing"

	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
)

// Compile-time registry: every tenant-scoped entity kind must implement the
// scoping capability. A new kind that should be isolated fails this list.
var _ = []tenantscope.Scoped{
	(*User)(nil),
	(*Material)(nil),
	(*Product)(nil),
	(*ProductCategory)(nil),
	(*Recipe)(nil),
	(*ProductionRun)(nil),
	(*Customer)(nil),
	(*CustomerOrder)(nil),
	(*Supplier)(nil),
	(*StorageLocation)(nil),
	(*QualityStatus)(nil),
}

func TestReferenceDataIsNotScoped(t *testing.T) {
	// Shared reference data must not carry the capability; if one of these
	// starts embedding the scope it silently changes query semantics.
	for name, m := range map[string]interface{}{
		"Tenant":        &Tenant{},
		"UnitOfMeasure": &UnitOfMeasure{},
		"Permission":    &Permission{},
	} {
		if _, scoped := m.(tenantscope.Scoped); scoped {
			t.Errorf("%s must not be tenant-scoped", name)
		}
	}
}
