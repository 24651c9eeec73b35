package fence

import (
	"testing"
	"time"

	pg "locshare/internal/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	prev := pg.DB
	pg.DB = gdb
	t.Cleanup(func() {
		pg.DB = prev
		sqlDB.Close()
	})

	return mock
}

func TestRefresh_LoadsCirclesAndBuildsFences(t *testing.T) {
	mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "circles"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "radius_meters", "created_at", "updated_at", "deleted_at"},
		).AddRow("c1", "Family", nil, now, now, nil))

	mock.ExpectQuery(`SELECT \* FROM "locations"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "circle_id", "name", "latitude", "longitude", "radius_meters", "created_at"},
		).
			AddRow("l1", "c1", "Home", 6.9271, 79.8612, nil, now).
			AddRow("l2", "c1", "School", 6.9000, 79.9000, nil, now.Add(time.Minute)))

	svc := &FenceService{current: emptySnapshot()}
	require.NoError(t, svc.Refresh())

	fences := svc.ActiveFences()
	require.Len(t, fences, 1)
	assert.Equal(t, "l1", fences[0].Key.LocationID)
	assert.Equal(t, "Family", fences[0].CircleName)

	assert.NoError(t, mock.ExpectationsWereMet())
}
