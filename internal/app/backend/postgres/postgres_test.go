package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/yigit/cuetclass/internal/app/backend"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, backend.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "departments_code_key"}, backend.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, backend.ErrConflict},
		{"check", &pgconn.PgError{Code: "23514"}, backend.ErrValidation},
		{"other", errors.New("connection reset"), backend.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.err, "op"), tt.want)
		})
	}

	assert.NoError(t, translate(nil, "op"))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	if p := nullable("dept-1"); assert.NotNil(t, p) {
		assert.Equal(t, "dept-1", *p)
	}
}

func TestCheckDate(t *testing.T) {
	assert.NoError(t, checkDate("2024-01-15"))
	assert.ErrorIs(t, checkDate("2024-13-01"), backend.ErrValidation)
	assert.ErrorIs(t, checkDate(""), backend.ErrValidation)
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, 2, distinct([]string{"student-2", "student-3", "student-2"}))
	assert.Equal(t, 0, distinct(nil))
}
