package membership

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

	"github.com/keurgym/membership/pkg/config"
	"github.com/keurgym/membership/pkg/types"
)

const lockMembershipQuery = `SELECT \* FROM "membership" WHERE id = \$1 ORDER BY "membership"\."id" LIMIT \$2 FOR UPDATE`

func newMockEngine(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewService(gdb, &config.Config{}, zap.NewNop().Sugar()), mock
}

func lockedRow(status types.MembershipStatus, expireAt *time.Time, suspendReason *string) *sqlmock.Rows {
	now := time.Now()
	var start *time.Time
	if expireAt != nil {
		s := expireAt.Add(-testDuration)
		start = &s
	}
	return sqlmock.NewRows([]string{"id", "member_id", "plan_id", "status", "start_at", "expire_at", "suspend_reason", "created_at", "updated_at"}).
		AddRow("m-1", "u-1", "p-1", string(status), start, expireAt, suspendReason, now, now)
}

// Re-suspending keeps the original reason and writes nothing back.
func TestSuspend_AlreadySuspendedIsNoOp(t *testing.T) {
	svc, mock := newMockEngine(t)
	reason := "equipment maintenance"
	future := time.Now().Add(10 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(lockMembershipQuery).WithArgs("m-1", 1).
		WillReturnRows(lockedRow(types.MembershipStatusSuspended, &future, &reason))
	mock.ExpectCommit()

	m, err := svc.Suspend(context.Background(), "m-1", "another reason")
	require.NoError(t, err)
	require.Equal(t, types.MembershipStatusSuspended, m.Status)
	require.Equal(t, reason, *m.SuspendReason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReinstate_ActiveIsNoOp(t *testing.T) {
	svc, mock := newMockEngine(t)
	future := time.Now().Add(10 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(lockMembershipQuery).WithArgs("m-1", 1).
		WillReturnRows(lockedRow(types.MembershipStatusActive, &future, nil))
	mock.ExpectCommit()

	m, err := svc.Reinstate(context.Background(), "m-1")
	require.NoError(t, err)
	require.Equal(t, types.MembershipStatusActive, m.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A reinstate that previously landed on expired (the suspension outlived the
// paid period) converges when retried instead of erroring.
func TestReinstate_ExpiredIsNoOp(t *testing.T) {
	svc, mock := newMockEngine(t)
	past := time.Now().Add(-24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(lockMembershipQuery).WithArgs("m-1", 1).
		WillReturnRows(lockedRow(types.MembershipStatusExpired, &past, nil))
	mock.ExpectCommit()

	m, err := svc.Reinstate(context.Background(), "m-1")
	require.NoError(t, err)
	require.Equal(t, types.MembershipStatusExpired, m.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_AlreadyCancelledIsNoOp(t *testing.T) {
	svc, mock := newMockEngine(t)
	future := time.Now().Add(10 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(lockMembershipQuery).WithArgs("m-1", 1).
		WillReturnRows(lockedRow(types.MembershipStatusCancelled, &future, nil))
	mock.ExpectCommit()

	m, err := svc.Cancel(context.Background(), "m-1")
	require.NoError(t, err)
	require.Equal(t, types.MembershipStatusCancelled, m.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Expired is outside cancel's reach; the transaction still commits so any
// lazy expiry applied under the lock would be kept.
func TestCancel_ExpiredIsRejected(t *testing.T) {
	svc, mock := newMockEngine(t)
	past := time.Now().Add(-24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(lockMembershipQuery).WithArgs("m-1", 1).
		WillReturnRows(lockedRow(types.MembershipStatusExpired, &past, nil))
	mock.ExpectCommit()

	m, err := svc.Cancel(context.Background(), "m-1")
	require.ErrorIs(t, err, ErrInvalidState)
	require.Nil(t, m)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuspend_UnknownMembership(t *testing.T) {
	svc, mock := newMockEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockMembershipQuery).WithArgs("m-404", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	m, err := svc.Suspend(context.Background(), "m-404", "whatever")
	require.ErrorIs(t, err, ErrMembershipNotFound)
	require.Nil(t, m)
	require.NoError(t, mock.ExpectationsWereMet())
}
