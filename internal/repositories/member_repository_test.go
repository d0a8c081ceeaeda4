package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyLedger(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberRepository(db)

	dbMock.ExpectExec(`UPDATE members SET outstanding_balance = \$1, total_paid = \$2, insurance_status = \$3`).
		WithArgs(0.0, 150.0, "active", sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.ApplyLedger(db, 1, 0, 150, "active")
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestApplyLedger_MissingMember(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberRepository(db)

	dbMock.ExpectExec(`UPDATE members SET outstanding_balance`).
		WithArgs(0.0, 150.0, "active", sqlmock.AnyArg(), int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.ApplyLedger(db, 999, 0, 150, "active")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncrementOutstanding_RunsInsideTransaction(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberRepository(db)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(`UPDATE members SET outstanding_balance = outstanding_balance \+ \$1`).
		WithArgs(200.0, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.IncrementOutstanding(tx, 1, 200))
	require.NoError(t, tx.Commit())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSumOutstandingBalance_ExcludesDeletedMembers(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberRepository(db)

	dbMock.ExpectQuery(`SELECT COALESCE\(SUM\(outstanding_balance\), 0\) FROM members WHERE gym_id = \$1 AND is_deleted = FALSE`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(320.5))

	total, err := repo.SumOutstandingBalance(10)
	require.NoError(t, err)
	assert.Equal(t, 320.5, total)
}

func TestSumOutstandingBalance_EmptyGym(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberRepository(db)

	// COALESCE keeps the zero-member case at 0, not NULL.
	dbMock.ExpectQuery(`SELECT COALESCE\(SUM\(outstanding_balance\), 0\)`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))

	total, err := repo.SumOutstandingBalance(10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}
