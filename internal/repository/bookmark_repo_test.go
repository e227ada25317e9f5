package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError_UniqueViolation(t *testing.T) {
	err := translateError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	assert.True(t, errors.Is(err, ErrDuplicateBookmark))
}

func TestTranslateError_Passthrough(t *testing.T) {
	fk := &pq.Error{Code: "23503"}
	assert.Equal(t, error(fk), translateError(fk))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translateError(plain))
}
