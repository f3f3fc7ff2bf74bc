package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", sqliteDSN("a.db"))
	assert.Equal(t, "a.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", sqliteDSN("a.db?mode=rwc"))
	assert.Equal(t, "a.db?_pragma=journal_mode(wal)", sqliteDSN("a.db?_pragma=journal_mode(wal)"))
}

func TestConnectAndMigrate_Sqlite(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	loc := domain.Location{Name: "Indiranagar", City: "Bengaluru", IsActive: true}
	require.NoError(t, db.Create(&loc).Error)
	scr := domain.Screen{LocationID: loc.ID, Name: "S1", Capacity: 10, PricePerHour: 1000, IsActive: true}
	require.NoError(t, db.Create(&scr).Error)

	var got domain.Screen
	require.NoError(t, db.First(&got, scr.ID).Error)
	assert.Equal(t, loc.ID, got.LocationID)
	assert.True(t, got.IsActive)
}
