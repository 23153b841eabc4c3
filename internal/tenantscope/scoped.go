package tenantscope

import (
	"reflect"
	"sync"
)

// Scope carries the tenant column. Embedding it is what registers a model as
// tenant-scoped: the plugin recognizes scoped models through the Scoped
// interface, so a new entity kind cannot opt in without compiling against it.
type Scope struct {
	TenantID uint `json:"tenant_id" gorm:"index;not null"`
}

// OwnerTenant returns the tenant the record belongs to, zero if unset.
func (s *Scope) OwnerTenant() uint { return s.TenantID }

// BindTenant assigns the owning tenant. Called by the plugin when stamping
// creates; a non-zero value is never overwritten.
func (s *Scope) BindTenant(tenantID uint) { s.TenantID = tenantID }

// Scoped is the capability a model gains by embedding Scope.
type Scoped interface {
	OwnerTenant() uint
	BindTenant(uint)
}

var (
	scopedType  = reflect.TypeOf((*Scoped)(nil)).Elem()
	scopedCache sync.Map // reflect.Type -> bool
)

// isScoped reports whether the model type embeds Scope. Cached per type since
// it runs on every statement.
func isScoped(modelType reflect.Type) bool {
	if cached, ok := scopedCache.Load(modelType); ok {
		return cached.(bool)
	}
	scoped := reflect.PointerTo(modelType).Implements(scopedType)
	scopedCache.Store(modelType, scoped)
	return scoped
}
