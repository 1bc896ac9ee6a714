package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecWithCheck(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectExec("UPDATE paddocks").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, ExecWithCheck(context.Background(), db, "UPDATE paddocks SET deleted_at = now()", ExecUpdate))

	mock.ExpectExec("UPDATE paddocks").WillReturnResult(sqlmock.NewResult(0, 0))
	err = ExecWithCheck(context.Background(), db, "UPDATE paddocks SET deleted_at = now()", ExecUpdate)
	assert.ErrorIs(t, err, ErrNoRowsAffected)

	mock.ExpectExec("INSERT INTO farms").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, ExecWithCheck(context.Background(), db, "INSERT INTO farms DEFAULT VALUES", ExecInsert))

	mock.ExpectExec("DELETE").WillReturnError(errors.New("boom"))
	err = ExecWithCheck(context.Background(), db, "DELETE FROM farms", ExecDelete)
	assert.ErrorContains(t, err, "failed to execute query")

	assert.NoError(t, mock.ExpectationsWereMet())
}
