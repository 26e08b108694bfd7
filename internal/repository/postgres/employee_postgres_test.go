package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

var employeeCols = []string{"id", "name", "national_id", "position", "phone", "email", "hired_on", "status"}

func strp(s string) *string { return &s }

func TestEmployeePostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmployeePostgres(db)

	mock.ExpectQuery("FROM employees WHERE id = ").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(7, "Ana Ruiz", "101", "Operaria", nil, "ana@example.com", "2023-04-01", "activo"))
	mock.ExpectQuery("FROM employees WHERE id = ").WithArgs(int64(8)).
		WillReturnError(sql.ErrNoRows)

	e, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "101", e.Cedula)
	assert.Equal(t, strp("Operaria"), e.Position)
	assert.Nil(t, e.Phone)
	assert.Equal(t, strp("2023-04-01"), e.HiredOn)
	assert.Equal(t, model.EmployeeActive, e.Status)

	_, err = repo.FindByID(context.Background(), 8)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeePostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmployeePostgres(db)

	mock.ExpectQuery(`FROM employees ORDER BY id DESC`).
		WillReturnRows(sqlmock.NewRows(employeeCols).
			AddRow(9, "Luis", "202", nil, nil, nil, nil, "inactivo").
			AddRow(7, "Ana Ruiz", "101", "Operaria", "8888", nil, "2023-04-01", "activo"))

	list, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(9), list[0].ID)
	assert.Nil(t, list[0].HiredOn)
	assert.Equal(t, strp("8888"), list[1].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeePostgres_List_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmployeePostgres(db)

	mock.ExpectQuery("FROM employees").WillReturnRows(sqlmock.NewRows(employeeCols))

	list, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestEmployeePostgres_Create(t *testing.T) {
	e := &model.Employee{Name: "Ana Ruiz", Cedula: "101", Email: strp("ana@example.com"), HiredOn: strp("2023-04-01"), Status: model.EmployeeActive}

	t.Run("ok", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO employees .* \$6::date`).
			WithArgs("Ana Ruiz", "101", nil, nil, "ana@example.com", "2023-04-01", "activo").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

		out, err := NewEmployeePostgres(db).Create(context.Background(), e)

		require.NoError(t, err)
		assert.Equal(t, int64(12), out.ID)
		assert.Zero(t, e.ID, "input is not mutated")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("national id taken", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery("INSERT INTO employees").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "employees_national_id_key"})

		_, err := NewEmployeePostgres(db).Create(context.Background(), e)

		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestEmployeePostgres_Update(t *testing.T) {
	e := &model.Employee{ID: 7, Name: "Ana Ruiz", Cedula: "101", Position: strp("Jefa"), Status: model.EmployeeInactive}

	t.Run("ok", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec("UPDATE employees").
			WithArgs("Ana Ruiz", "101", "Jefa", nil, "inactivo", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewEmployeePostgres(db).Update(context.Background(), e))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec("UPDATE employees").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, NewEmployeePostgres(db).Update(context.Background(), e), repository.ErrNotFound)
	})

	t.Run("national id taken", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec("UPDATE employees").WillReturnError(&pgconn.PgError{Code: "23505"})

		assert.ErrorIs(t, NewEmployeePostgres(db).Update(context.Background(), e), repository.ErrDuplicate)
	})
}

func TestEmployeePostgres_Delete(t *testing.T) {
	tests := []struct {
		name    string
		expect  func(sqlmock.Sqlmock)
		want    bool
		wantErr error
	}{
		{
			name: "deleted",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec("DELETE FROM employees WHERE id = ").WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
			},
			want: true,
		},
		{
			name: "absent",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec("DELETE FROM employees").WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "documents still attached",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec("DELETE FROM employees").
					WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "employee_documents_employee_id_fkey"})
			},
			wantErr: repository.ErrInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			tt.expect(mock)

			ok, err := NewEmployeePostgres(db).Delete(context.Background(), 7)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
