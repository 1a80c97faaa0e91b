package implementation

import (
	"context"
	"testing"
	"time"

	"snochat-be/internal/repository/specification"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestTryDeduct(t *testing.T) {
	userId := uuid.New()

	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{name: "balance covers the amount", rowsAffected: 1, want: true},
		{name: "balance too low or row missing", rowsAffected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewCreditRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE "user_credits" SET .+ WHERE user_id = \$3 AND service = \$4 AND amount >= \$5`).
				WithArgs(1, sqlmock.AnyArg(), userId, "sno", 1).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			mock.ExpectCommit()

			ok, err := repo.TryDeduct(context.Background(), userId, "sno", 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdd(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCreditRepository(db)
	userId := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "user_credits" SET .+ WHERE user_id = \$3 AND service = \$4`).
		WithArgs(120, sqlmock.AnyArg(), userId, "sno").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Add(context.Background(), userId, "sno", 120))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditFindOne(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCreditRepository(db)
	userId := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"user_id", "service", "amount", "created_at", "updated_at"}).
		AddRow(userId, "sno", 39, now, now)
	mock.ExpectQuery(`SELECT \* FROM "user_credits" WHERE user_id = \$1 AND service = \$2`).
		WithArgs(userId, "sno", 1).
		WillReturnRows(rows)

	balance, err := repo.FindOne(context.Background(),
		specification.OwnedBy{UserID: userId},
		specification.ByService{Service: "sno"},
	)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, userId, balance.UserId)
	assert.Equal(t, "sno", balance.Service)
	assert.Equal(t, 39, balance.Amount)
}

func TestCreditFindOne_NotFoundIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCreditRepository(db)
	userId := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "user_credits"`).
		WithArgs(userId, "sno", 1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "service", "amount"}))

	balance, err := repo.FindOne(context.Background(),
		specification.OwnedBy{UserID: userId},
		specification.ByService{Service: "sno"},
	)
	require.NoError(t, err)
	assert.Nil(t, balance)
}
