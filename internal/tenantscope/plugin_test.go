package tenantscope_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Oscarts/backery2-app-sub002/internal/model"
	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bakery.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Use(tenantscope.Plugin{}))
	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Material{},
		&model.Product{},
		&model.ProductCategory{},
		&model.Recipe{},
		&model.ProductionRun{},
		&model.Customer{},
		&model.CustomerOrder{},
		&model.Supplier{},
		&model.StorageLocation{},
		&model.QualityStatus{},
		&model.UnitOfMeasure{},
	))
	return db
}

func seedTenants(t *testing.T, db *gorm.DB) (bakeryA, bakeryB model.Tenant) {
	t.Helper()

	bakeryA = model.Tenant{Name: "Bakery A", Slug: "bakery-a", Active: true}
	bakeryB = model.Tenant{Name: "Bakery B", Slug: "bakery-b", Active: true}
	require.NoError(t, db.Create(&bakeryA).Error)
	require.NoError(t, db.Create(&bakeryB).Error)
	return bakeryA, bakeryB
}

func boundCtx(tenantID uint) context.Context {
	return tenantscope.NewContext(context.Background(), tenantID)
}

func seedMaterial(t *testing.T, db *gorm.DB, tenantID uint, name string) model.Material {
	t.Helper()

	m := model.Material{
		Name:  name,
		Scope: tenantscope.Scope{TenantID: tenantID},
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func TestFindReturnsOnlyBoundTenantRows(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	seedMaterial(t, db, bakeryA.ID, "flour")
	seedMaterial(t, db, bakeryA.ID, "butter")
	seedMaterial(t, db, bakeryA.ID, "yeast")
	seedMaterial(t, db, bakeryB.ID, "sugar")
	seedMaterial(t, db, bakeryB.ID, "salt")

	var materials []model.Material
	require.NoError(t, db.WithContext(boundCtx(bakeryA.ID)).Find(&materials).Error)

	assert.Len(t, materials, 3)
	for _, m := range materials {
		assert.Equal(t, bakeryA.ID, m.TenantID)
	}
}

func TestFirstAndCountAreScoped(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	seedMaterial(t, db, bakeryA.ID, "flour")
	seedMaterial(t, db, bakeryB.ID, "flour")

	var m model.Material
	require.NoError(t, db.WithContext(boundCtx(bakeryB.ID)).Where("name = ?", "flour").First(&m).Error)
	assert.Equal(t, bakeryB.ID, m.TenantID)

	var count int64
	require.NoError(t, db.WithContext(boundCtx(bakeryB.ID)).Model(&model.Material{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestScopingCoversEveryRegisteredKind(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	// One record per kind for each tenant. A kind missing from the scoping
	// capability would return both rows below.
	for _, tenantID := range []uint{bakeryA.ID, bakeryB.ID} {
		scope := tenantscope.Scope{TenantID: tenantID}
		require.NoError(t, db.Create(&model.User{Email: fmt.Sprintf("u%d@example.com", tenantID), Password: "x", Scope: scope}).Error)
		require.NoError(t, db.Create(&model.Material{Name: "flour", Scope: scope}).Error)
		require.NoError(t, db.Create(&model.Product{Name: "croissant", Price: 2.5, Scope: scope}).Error)
		require.NoError(t, db.Create(&model.ProductCategory{Name: "viennoiserie", Scope: scope}).Error)
		require.NoError(t, db.Create(&model.Recipe{Name: "croissant", ProductID: 1, Scope: scope}).Error)
		require.NoError(t, db.Create(&model.ProductionRun{RecipeID: 1, Quantity: 10, Scope: scope}).Error)
		require.NoError(t, db.Create(&model.Customer{Name: "Ada", Scope: scope}).Error)
		require.NoError(t, db.Create(&model.CustomerOrder{OrderNumber: fmt.Sprintf("ORD-%d", tenantID), CustomerID: 1, Scope: scope}).Error)
		require.NoError(t, db.Create(&model.Supplier{Name: "Mill Co", Scope: scope}).Error)
		require.NoError(t, db.Create(&model.StorageLocation{Name: "dry storage", Scope: scope}).Error)
		require.NoError(t, db.Create(&model.QualityStatus{Name: "passed", Passing: true, Scope: scope}).Error)
	}

	ctx := boundCtx(bakeryA.ID)
	for kind, dest := range map[string]interface{}{
		"users":             &[]model.User{},
		"materials":         &[]model.Material{},
		"products":          &[]model.Product{},
		"product_categories": &[]model.ProductCategory{},
		"recipes":           &[]model.Recipe{},
		"production_runs":   &[]model.ProductionRun{},
		"customers":         &[]model.Customer{},
		"customer_orders":   &[]model.CustomerOrder{},
		"suppliers":         &[]model.Supplier{},
		"storage_locations": &[]model.StorageLocation{},
		"quality_statuses":  &[]model.QualityStatus{},
	} {
		result := db.WithContext(ctx).Find(dest)
		require.NoError(t, result.Error, kind)
		assert.Equal(t, int64(1), result.RowsAffected, "kind %s leaked foreign rows", kind)
	}
}

func TestCallerTenantFilterIsNotOverridden(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	seedMaterial(t, db, bakeryA.ID, "flour")
	seedMaterial(t, db, bakeryB.ID, "sugar")

	// A caller that already constrains the tenant column keeps its filter;
	// this is the privileged cross-tenant path.
	var materials []model.Material
	require.NoError(t, db.WithContext(boundCtx(bakeryA.ID)).
		Where("tenant_id = ?", bakeryB.ID).
		Find(&materials).Error)

	require.Len(t, materials, 1)
	assert.Equal(t, bakeryB.ID, materials[0].TenantID)
}

func TestReferenceDataIsNotFiltered(t *testing.T) {
	db := newTestDB(t)
	bakeryA, _ := seedTenants(t, db)

	require.NoError(t, db.Create(&model.UnitOfMeasure{Name: "kilogram", Symbol: "kg"}).Error)
	require.NoError(t, db.Create(&model.UnitOfMeasure{Name: "litre", Symbol: "l"}).Error)

	var units []model.UnitOfMeasure
	require.NoError(t, db.WithContext(boundCtx(bakeryA.ID)).Find(&units).Error)
	assert.Len(t, units, 2)

	var tenants []model.Tenant
	require.NoError(t, db.WithContext(boundCtx(bakeryA.ID)).Find(&tenants).Error)
	assert.Len(t, tenants, 2)
}

func TestCreateStampsBoundTenant(t *testing.T) {
	db := newTestDB(t)
	bakeryA, _ := seedTenants(t, db)

	order := model.CustomerOrder{OrderNumber: "ORD-1", CustomerID: 1}
	require.NoError(t, db.WithContext(boundCtx(bakeryA.ID)).Create(&order).Error)
	assert.Equal(t, bakeryA.ID, order.TenantID)

	var stored model.CustomerOrder
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, bakeryA.ID, stored.TenantID)
}

func TestCreateKeepsExplicitTenant(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	// Explicit caller intent wins over the bound tenant.
	order := model.CustomerOrder{
		OrderNumber: "ORD-2",
		CustomerID:  1,
		Scope:       tenantscope.Scope{TenantID: bakeryB.ID},
	}
	require.NoError(t, db.WithContext(boundCtx(bakeryA.ID)).Create(&order).Error)

	var stored model.CustomerOrder
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, bakeryB.ID, stored.TenantID)
}

func TestBatchCreateStampsEachElement(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	materials := []model.Material{
		{Name: "flour"},
		{Name: "imported butter", Scope: tenantscope.Scope{TenantID: bakeryB.ID}},
		{Name: "yeast"},
	}
	require.NoError(t, db.WithContext(boundCtx(bakeryA.ID)).Create(&materials).Error)

	assert.Equal(t, bakeryA.ID, materials[0].TenantID)
	assert.Equal(t, bakeryB.ID, materials[1].TenantID)
	assert.Equal(t, bakeryA.ID, materials[2].TenantID)
}

func TestCreateWithoutContextLeavesTenantAlone(t *testing.T) {
	db := newTestDB(t)
	bakeryA, _ := seedTenants(t, db)

	m := model.Material{Name: "flour", Scope: tenantscope.Scope{TenantID: bakeryA.ID}}
	require.NoError(t, db.Create(&m).Error)
	assert.Equal(t, bakeryA.ID, m.TenantID)
}

func TestUniqueKeyLookupSuppressesForeignRow(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	user := model.User{
		Email:    "baker@bakery-b.example",
		Password: "x",
		Scope:    tenantscope.Scope{TenantID: bakeryB.ID},
	}
	require.NoError(t, db.Create(&user).Error)

	var found model.User
	result := db.WithContext(boundCtx(bakeryA.ID)).
		Scopes(tenantscope.ByUniqueKey).
		Where("email = ?", user.Email).
		First(&found)

	// A foreign-tenant hit must be indistinguishable from a miss.
	assert.ErrorIs(t, result.Error, gorm.ErrRecordNotFound)
	assert.Zero(t, result.RowsAffected)
	assert.Zero(t, found.ID)
	assert.Empty(t, found.Email)
}

func TestUniqueKeyLookupReturnsOwnRow(t *testing.T) {
	db := newTestDB(t)
	_, bakeryB := seedTenants(t, db)

	user := model.User{
		Email:    "baker@bakery-b.example",
		Password: "x",
		Scope:    tenantscope.Scope{TenantID: bakeryB.ID},
	}
	require.NoError(t, db.Create(&user).Error)

	var found model.User
	result := db.WithContext(boundCtx(bakeryB.ID)).
		Scopes(tenantscope.ByUniqueKey).
		Where("email = ?", user.Email).
		First(&found)

	require.NoError(t, result.Error)
	assert.Equal(t, user.ID, found.ID)
}

func TestUniqueKeyLookupUnboundReturnsAnyRow(t *testing.T) {
	db := newTestDB(t)
	_, bakeryB := seedTenants(t, db)

	user := model.User{
		Email:    "baker@bakery-b.example",
		Password: "x",
		Scope:    tenantscope.Scope{TenantID: bakeryB.ID},
	}
	require.NoError(t, db.Create(&user).Error)

	// The login path: no tenant bound yet, the lookup must see every tenant.
	var found model.User
	result := db.Scopes(tenantscope.ByUniqueKey).
		Where("email = ?", user.Email).
		First(&found)

	require.NoError(t, result.Error)
	assert.Equal(t, bakeryB.ID, found.TenantID)
}

func TestUpdateCannotTouchForeignRows(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	foreign := seedMaterial(t, db, bakeryB.ID, "sugar")

	result := db.WithContext(boundCtx(bakeryA.ID)).
		Model(&model.Material{}).
		Where("id = ?", foreign.ID).
		Update("quantity", 99)

	require.NoError(t, result.Error)
	assert.Zero(t, result.RowsAffected)

	var stored model.Material
	require.NoError(t, db.First(&stored, foreign.ID).Error)
	assert.Zero(t, stored.Quantity)
}

func TestDeleteCannotTouchForeignRows(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	foreign := seedMaterial(t, db, bakeryB.ID, "sugar")

	result := db.WithContext(boundCtx(bakeryA.ID)).Delete(&model.Material{}, foreign.ID)
	require.NoError(t, result.Error)
	assert.Zero(t, result.RowsAffected)

	var count int64
	require.NoError(t, db.Model(&model.Material{}).Where("id = ?", foreign.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateAndDeleteWorkWithinTenant(t *testing.T) {
	db := newTestDB(t)
	bakeryA, _ := seedTenants(t, db)

	own := seedMaterial(t, db, bakeryA.ID, "flour")
	ctx := boundCtx(bakeryA.ID)

	result := db.WithContext(ctx).Model(&model.Material{}).Where("id = ?", own.ID).Update("quantity", 12.5)
	require.NoError(t, result.Error)
	assert.Equal(t, int64(1), result.RowsAffected)

	result = db.WithContext(ctx).Delete(&model.Material{}, own.ID)
	require.NoError(t, result.Error)
	assert.Equal(t, int64(1), result.RowsAffected)
}

func TestConcurrentTenantsStayIsolated(t *testing.T) {
	db := newTestDB(t)
	bakeryA, bakeryB := seedTenants(t, db)

	for i := 0; i < 5; i++ {
		seedMaterial(t, db, bakeryA.ID, fmt.Sprintf("a-material-%d", i))
	}
	for i := 0; i < 3; i++ {
		seedMaterial(t, db, bakeryB.ID, fmt.Sprintf("b-material-%d", i))
	}

	// Interleave many units of work for two tenants; each must only ever see
	// its own rows regardless of scheduling.
	run := func(tenantID uint, want int) {
		ctx := boundCtx(tenantID)
		for i := 0; i < 50; i++ {
			var materials []model.Material
			if err := db.WithContext(ctx).Find(&materials).Error; err != nil {
				t.Errorf("tenant %d: %v", tenantID, err)
				return
			}
			if len(materials) != want {
				t.Errorf("tenant %d saw %d rows, want %d", tenantID, len(materials), want)
				return
			}
			for _, m := range materials {
				if m.TenantID != tenantID {
					t.Errorf("tenant %d saw row of tenant %d", tenantID, m.TenantID)
					return
				}
			}
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); run(bakeryA.ID, 5) }()
		go func() { defer wg.Done(); run(bakeryB.ID, 3) }()
	}
	wg.Wait()
}
