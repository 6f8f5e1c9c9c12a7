package payment

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

	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/pkg/config"
	"github.com/keurgym/membership/pkg/types"
)

const lockPaymentQuery = `SELECT \* FROM "payment" WHERE external_ref = \$1 ORDER BY "payment"\."id" LIMIT \$2 FOR UPDATE`

func newMockLedger(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	log := zap.NewNop().Sugar()
	engine := membership.NewService(gdb, &config.Config{}, log)
	return NewService(gdb, log, engine), mock
}

func paymentRow(status types.PaymentStatus, paidAt *time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "membership_id", "amount_xof", "currency", "method", "status", "external_ref", "paid_at", "refunded_at", "metadata", "created_at", "updated_at"}).
		AddRow("pay-1", "m-1", int64(15000), "XOF", "wave", string(status), "ref-1", paidAt, nil, []byte(`{}`), now, now)
}

// A succeeded gateway event flips the payment and activates the pending
// membership inside the same transaction.
func TestRecordGatewayEvent_SucceededActivatesMembership(t *testing.T) {
	svc, mock := newMockLedger(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(lockPaymentQuery).WithArgs("ref-1", 1).
		WillReturnRows(paymentRow(types.PaymentStatusInitiated, nil))
	mock.ExpectExec(`UPDATE "payment" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "membership" WHERE id = \$1 ORDER BY "membership"\."id" LIMIT \$2 FOR UPDATE`).
		WithArgs("m-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "plan_id", "status", "start_at", "expire_at", "suspend_reason", "created_at", "updated_at"}).
			AddRow("m-1", "u-1", "p-1", string(types.MembershipStatusPending), nil, nil, nil, now, now))
	mock.ExpectQuery(`SELECT \* FROM "plan" WHERE id = \$1 ORDER BY "plan"\."id" LIMIT \$2`).
		WithArgs("p-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price_xof", "duration_days", "features", "active", "created_at", "updated_at"}).
			AddRow("p-1", "Basique", int64(15000), 30, []byte(`[]`), true, now, now))
	mock.ExpectExec(`UPDATE "membership" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "membership_log"`).
		WillReturnRows(sqlmock.NewRows([]string{"before", "after", "extra"}).
			AddRow([]byte(`null`), []byte(`null`), []byte(`{}`)))
	mock.ExpectCommit()

	p, err := svc.RecordGatewayEvent(context.Background(), "ref-1", types.PaymentStatusSucceeded, nil)
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusSucceeded, p.Status)
	require.NotNil(t, p.PaidAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A redelivered succeeded event writes nothing and returns the stored record.
func TestRecordGatewayEvent_ReplayedSucceededIsNoOp(t *testing.T) {
	svc, mock := newMockLedger(t)
	paidAt := time.Now().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(lockPaymentQuery).WithArgs("ref-1", 1).
		WillReturnRows(paymentRow(types.PaymentStatusSucceeded, &paidAt))
	mock.ExpectCommit()

	p, err := svc.RecordGatewayEvent(context.Background(), "ref-1", types.PaymentStatusSucceeded, nil)
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusSucceeded, p.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A refund on a failed payment is a ledger/gateway disagreement; nothing is
// written and the transaction rolls back.
func TestRecordGatewayEvent_ConflictRollsBack(t *testing.T) {
	svc, mock := newMockLedger(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockPaymentQuery).WithArgs("ref-1", 1).
		WillReturnRows(paymentRow(types.PaymentStatusFailed, nil))
	mock.ExpectRollback()

	p, err := svc.RecordGatewayEvent(context.Background(), "ref-1", types.PaymentStatusRefunded, nil)
	require.ErrorIs(t, err, ErrConflictingPaymentState)
	require.Nil(t, p)
	require.NoError(t, mock.ExpectationsWereMet())
}
