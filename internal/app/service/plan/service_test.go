package plan

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/keurgym/membership/internal/models"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewService(gdb, zap.NewNop().Sugar()), mock
}

func planRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "price_xof", "duration_days", "features", "active", "created_at", "updated_at"}).
		AddRow("p-1", "Basique", 15000, 30, []byte(`["open_gym"]`), true, now, now)
}

func TestList_ActiveOnly(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM "plan" WHERE active = \$1 ORDER BY price_xof asc`).
		WithArgs(true).
		WillReturnRows(planRows())

	plans, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Equal(t, "Basique", plans[0].Name)
	require.Equal(t, int64(15000), plans[0].PriceXOF)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT \* FROM "plan" WHERE id = \$1 ORDER BY "plan"\."id" LIMIT \$2`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrPlanNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RejectsInvalidPlan(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.Create(context.Background(), &models.Plan{Name: "", PriceXOF: 0, DurationDays: 0})
	require.Error(t, err)
}

func TestDeactivate_AlreadyInactiveIsNoOp(t *testing.T) {
	svc, mock := newMockService(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "plan" WHERE id = \$1 ORDER BY "plan"\."id" LIMIT \$2`).
		WithArgs("p-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price_xof", "duration_days", "features", "active", "created_at", "updated_at"}).
			AddRow("p-1", "Basique", 15000, 30, []byte(`[]`), false, now, now))

	p, err := svc.Deactivate(context.Background(), "p-1")
	require.NoError(t, err)
	require.False(t, p.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}
