package tenantscope

import (
	"reflect"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tenantField is the struct field Scope contributes to every scoped model.
const tenantField = "TenantID"

// Plugin rewrites every statement against the tenant bound to the statement
// context. Register it once on the shared *gorm.DB; after that no call site
// has to remember a tenant filter:
//
//   - reads (Find/First/Take/Count/Rows) get `tenant_id = ?` injected unless
//     the caller already constrains the column
//   - creates get the tenant stamped onto the destination, per element for
//     batch creates; an explicitly set tenant is left alone
//   - updates and deletes get the same filter injection as reads
//   - unique-key lookups marked with ByUniqueKey skip the filter and are
//     checked after the read instead (see lookup.go)
//
// With no tenant bound the statement runs unscoped. That is the deliberate
// bootstrap behavior for the pre-authentication login lookup; every other
// code path binds a tenant before touching the database.
type Plugin struct{}

func (Plugin) Name() string { return "tenantscope" }

func (Plugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenantscope:filter_query", filterRead); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("tenantscope:validate_lookup", validateLookup); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenantscope:filter_row", filterRead); err != nil {
		return err
	}
	if err := db.Callback().Create().Before("gorm:create").Register("tenantscope:stamp_create", stampCreate); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenantscope:filter_update", filterWrite); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").Register("tenantscope:filter_delete", filterWrite)
}

func filterRead(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Schema == nil || !isScoped(stmt.Schema.ModelType) {
		return
	}
	if _, unique := stmt.Settings.Load(uniqueLookupSetting); unique {
		// Deferred to the post-read check: a global unique key must not be
		// AND-ed with the tenant filter or legitimate cross-tenant lookups
		// (login by email) would come back empty.
		return
	}
	tenantID, bound := FromContext(stmt.Context)
	if !bound {
		return
	}
	injectFilter(db, tenantID)
}

func filterWrite(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Schema == nil || !isScoped(stmt.Schema.ModelType) {
		return
	}
	tenantID, bound := FromContext(stmt.Context)
	if !bound {
		return
	}
	injectFilter(db, tenantID)
}

// injectFilter ANDs `tenant_id = ?` onto the statement unless the caller's
// conditions already constrain the column.
func injectFilter(db *gorm.DB, tenantID uint) {
	stmt := db.Statement
	field := stmt.Schema.LookUpField(tenantField)
	if field == nil {
		return
	}
	if c, ok := stmt.Clauses["WHERE"]; ok {
		if where, ok := c.Expression.(clause.Where); ok && constrainsColumn(where.Exprs, field.DBName) {
			return
		}
	}
	stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName},
			Value:  tenantID,
		},
	}})
}

// constrainsColumn walks the caller's conditions looking for an existing
// constraint on the tenant column.
func constrainsColumn(exprs []clause.Expression, column string) bool {
	for _, expr := range exprs {
		switch e := expr.(type) {
		case clause.Eq:
			if columnName(e.Column) == column {
				return true
			}
		case clause.IN:
			if columnName(e.Column) == column {
				return true
			}
		case clause.Expr:
			if strings.Contains(e.SQL, column) {
				return true
			}
		case clause.NamedExpr:
			if strings.Contains(e.SQL, column) {
				return true
			}
		case clause.AndConditions:
			if constrainsColumn(e.Exprs, column) {
				return true
			}
		case clause.OrConditions:
			if constrainsColumn(e.Exprs, column) {
				return true
			}
		case clause.NotConditions:
			if constrainsColumn(e.Exprs, column) {
				return true
			}
		}
	}
	return false
}

func columnName(col interface{}) string {
	switch c := col.(type) {
	case clause.Column:
		return c.Name
	case string:
		return c
	}
	return ""
}

// stampCreate assigns the bound tenant to every destination record that does
// not already carry one. A caller-supplied tenant wins: that is the
// privileged path used by pre-authentication registration.
func stampCreate(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Schema == nil || !isScoped(stmt.Schema.ModelType) {
		return
	}
	tenantID, bound := FromContext(stmt.Context)
	if !bound {
		return
	}
	switch stmt.ReflectValue.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < stmt.ReflectValue.Len(); i++ {
			stampRecord(stmt.ReflectValue.Index(i), tenantID)
		}
	case reflect.Struct:
		stampRecord(stmt.ReflectValue, tenantID)
	}
}

func stampRecord(rv reflect.Value, tenantID uint) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || !rv.CanAddr() {
		return
	}
	if scoped, ok := rv.Addr().Interface().(Scoped); ok {
		if scoped.OwnerTenant() == 0 {
			scoped.BindTenant(tenantID)
		}
	}
}
