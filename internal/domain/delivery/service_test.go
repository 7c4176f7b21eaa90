package delivery

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DeliveryCost{}))

	return NewService(db), db
}

func TestCostFor_UnknownZone(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.CostFor(Zone("MOON"))
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestCostFor_MissingRowIsAnError(t *testing.T) {
	svc, _ := setupTestService(t)

	// Valid zone, but no configured row: never silently defaults
	_, err := svc.CostFor(ZoneInsideDhaka)
	assert.ErrorIs(t, err, ErrCostNotConfigured)
}

func TestEnsureDefaults_SeedsMissingZones(t *testing.T) {
	svc, _ := setupTestService(t)

	require.NoError(t, svc.EnsureDefaults())

	inside, err := svc.CostFor(ZoneInsideDhaka)
	require.NoError(t, err)
	assert.Equal(t, DefaultInsideDhakaCost, inside)

	outside, err := svc.CostFor(ZoneOutsideDhaka)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutsideDhakaCost, outside)
}

func TestEnsureDefaults_IsIdempotent(t *testing.T) {
	svc, db := setupTestService(t)

	require.NoError(t, svc.EnsureDefaults())

	// An admin override must survive repeated seeding
	_, err := svc.UpdateCost(ZoneInsideDhaka, &UpdateCostRequest{Amount: 9000})
	require.NoError(t, err)

	require.NoError(t, svc.EnsureDefaults())
	require.NoError(t, svc.EnsureDefaults())

	cost, err := svc.CostFor(ZoneInsideDhaka)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), cost)

	var count int64
	require.NoError(t, db.Model(&DeliveryCost{}).Count(&count).Error)
	assert.Equal(t, int64(len(Zones())), count)
}

func TestUpdateCost(t *testing.T) {
	svc, _ := setupTestService(t)
	require.NoError(t, svc.EnsureDefaults())

	updated, err := svc.UpdateCost(ZoneOutsideDhaka, &UpdateCostRequest{Amount: 15000})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), updated.Amount)

	cost, err := svc.CostFor(ZoneOutsideDhaka)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), cost)

	_, err = svc.UpdateCost(Zone("MOON"), &UpdateCostRequest{Amount: 1})
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestGetCosts(t *testing.T) {
	svc, _ := setupTestService(t)
	require.NoError(t, svc.EnsureDefaults())

	costs, err := svc.GetCosts()
	require.NoError(t, err)
	assert.Len(t, costs, 2)
}
