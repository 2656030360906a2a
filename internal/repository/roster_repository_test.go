package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newRosterRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRosterRepositoryGetRoster(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	rows := sqlmock.NewRows([]string{"roll_no", "name", "parent_contact"}).
		AddRow("101", "Asha", "9100000001").
		AddRow("102", "Bilal", "")
	mock.ExpectQuery("SELECT roll_no, name, COALESCE").WillReturnRows(rows)

	students, err := repo.GetRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "101", students[0].RollNo)
	require.Equal(t, "Asha", students[0].Name)
	require.Equal(t, "", students[1].ParentContact)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryGetRosterEmpty(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery("SELECT roll_no, name, COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"roll_no", "name", "parent_contact"}))

	students, err := repo.GetRoster(context.Background())
	require.NoError(t, err)
	require.Empty(t, students)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryGetRosterFailure(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery("SELECT roll_no, name, COALESCE").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.GetRoster(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
