package repository_test

import (
	"context"
	"regexp"
	"testing"

	"deposit-service/models"
	"deposit-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormDepositRepository(gormDB)

	deposit := &models.Deposit{
		UserID:      "1",
		PhoneNumber: "0788000000",
		Amount:      500,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "deposits"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), deposit)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), deposit.ID)
	assert.Equal(t, models.DepositStatusPending, deposit.Status)
}

func TestCreate_ForcesPendingStatus(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormDepositRepository(gormDB)

	deposit := &models.Deposit{
		UserID:      "1",
		PhoneNumber: "0788000000",
		Amount:      500,
		Status:      models.DepositStatusSuccessful, // must be ignored
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "deposits"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), deposit)
	assert.NoError(t, err)
	assert.Equal(t, models.DepositStatusPending, deposit.Status)
}

func TestFindByID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormDepositRepository(gormDB)

	rows := sqlmock.NewRows([]string{"id", "user_id", "phone_number", "amount", "status"}).
		AddRow(1, "1", "0788000000", 500.0, "pending")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deposits"`)).
		WillReturnRows(rows)

	deposit, err := repo.FindByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), deposit.ID)
	assert.Equal(t, models.DepositStatusPending, deposit.Status)
}

func TestFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormDepositRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deposits"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	deposit, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrDepositNotFound)
	assert.Nil(t, deposit)
}

func TestFinalize_Applied(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormDepositRepository(gormDB)

	txID := "TX1"
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "deposits" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := repo.Finalize(context.Background(), 1, models.DepositStatusSuccessful, &txID)
	assert.NoError(t, err)
	assert.True(t, applied)
}

func TestFinalize_AlreadyTerminal(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormDepositRepository(gormDB)

	// The conditional update matches no row when the deposit already left
	// the pending state; a duplicate callback must not touch it.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "deposits" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	applied, err := repo.Finalize(context.Background(), 1, models.DepositStatusFailed, nil)
	assert.NoError(t, err)
	assert.False(t, applied)
}
