package tenantscope

import (
	"reflect"

	"gorm.io/gorm"
)

const uniqueLookupSetting = "tenantscope:unique_lookup"

// ByUniqueKey marks the statement as a lookup by a globally unique key
// (primary id, email). The tenant filter is not injected up front; the loaded
// row is classified after the read instead. Use as a scope:
//
//	db.Scopes(tenantscope.ByUniqueKey).Where("email = ?", email).First(&user)
func ByUniqueKey(db *gorm.DB) *gorm.DB {
	return db.Set(uniqueLookupSetting, true)
}

// LookupOutcome classifies a unique-key read against the bound tenant.
type LookupOutcome int

const (
	// LookupFound means the row belongs to the bound tenant.
	LookupFound LookupOutcome = iota
	// LookupNotFound means no row matched the key.
	LookupNotFound
	// LookupForbidden means the row belongs to another tenant. Callers never
	// see this outcome: it is reported as not-found so the existence of the
	// key under another tenant is not confirmed.
	LookupForbidden
)

// classifyLookup inspects a loaded record. Only struct destinations are
// classified; unique-key lookups load a single record by construction.
func classifyLookup(rv reflect.Value, rows int64, tenantID uint) LookupOutcome {
	if rows == 0 {
		return LookupNotFound
	}
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return LookupNotFound
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || !rv.CanAddr() {
		return LookupFound
	}
	scoped, ok := rv.Addr().Interface().(Scoped)
	if !ok {
		return LookupFound
	}
	if scoped.OwnerTenant() != tenantID {
		return LookupForbidden
	}
	return LookupFound
}

// validateLookup runs after gorm:query. For statements marked ByUniqueKey it
// suppresses rows owned by a foreign tenant: the destination is zeroed and
// the statement reports gorm.ErrRecordNotFound, indistinguishable from a
// miss. With no tenant bound the raw result passes through, which is what
// the login-by-email path relies on.
func validateLookup(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil || !isScoped(stmt.Schema.ModelType) {
		return
	}
	if _, unique := stmt.Settings.Load(uniqueLookupSetting); !unique {
		return
	}
	tenantID, bound := FromContext(stmt.Context)
	if !bound {
		return
	}
	if classifyLookup(stmt.ReflectValue, db.RowsAffected, tenantID) == LookupForbidden {
		stmt.ReflectValue.Set(reflect.Zero(stmt.ReflectValue.Type()))
		db.RowsAffected = 0
		db.AddError(gorm.ErrRecordNotFound)
	}
}
