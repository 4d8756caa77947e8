package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/and161185/veriuser/internal/errs"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestKV_Load_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewKV(db)

	mock.ExpectQuery(`SELECT value FROM veriuser_kv WHERE key=\$1`).
		WithArgs("veriuser_users").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"123456"}]`)))

	got, err := r.Load(context.Background(), "veriuser_users")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"123456"}]`, string(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKV_Load_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewKV(db)

	mock.ExpectQuery(`SELECT value FROM veriuser_kv WHERE key=\$1`).
		WithArgs("veriuser_statuses").
		WillReturnError(pgx.ErrNoRows)

	_, err := r.Load(context.Background(), "veriuser_statuses")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestKV_Load_DBError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewKV(db)

	boom := errors.New("boom")
	mock.ExpectQuery(`SELECT value FROM veriuser_kv`).
		WithArgs("k").
		WillReturnError(boom)

	_, err := r.Load(context.Background(), "k")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, errs.ErrNotFound)
}

func TestKV_Save_Upserts(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewKV(db)

	mock.ExpectExec(`INSERT INTO veriuser_kv \(key, value, updated_at\) VALUES \(\$1,\$2,now\(\)\)`).
		WithArgs("veriuser_categories", []byte(`[]`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Save(context.Background(), "veriuser_categories", []byte(`[]`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKV_Save_Error(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewKV(db)

	mock.ExpectExec(`INSERT INTO veriuser_kv`).
		WithArgs("k", []byte(`{}`)).
		WillReturnError(errors.New("conn reset"))

	err := r.Save(context.Background(), "k", []byte(`{}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "save k")
}
