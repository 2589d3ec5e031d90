package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		err  *Error
		code int
		kind error
	}{
		{NotFound("folio", 1, LocationParams, "no existe"), http.StatusNotFound, ErrNotFound},
		{Conflict("folio", 1, LocationParams, "ya eliminada"), http.StatusConflict, ErrConflict},
		{BusinessRule("iva", "9000", LocationBody, "iva incorrecto"), http.StatusUnprocessableEntity, ErrBusinessRule},
		{Invalid("exento_iva", "x", LocationBody, "yes o no"), http.StatusBadRequest, ErrInvalidInput},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.True(t, errors.Is(tc.err, tc.kind))
		require.Len(t, tc.err.Violations, 1)
		assert.Equal(t, "field", tc.err.Violations[0].Type)
	}
}

func TestNewError_InvalidCodeBecomes500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, NewError(200, ErrConflict).Code)
	assert.Equal(t, http.StatusInternalServerError, NewError(0, ErrConflict).Code)
	assert.Equal(t, http.StatusTeapot, NewError(http.StatusTeapot, ErrConflict).Code)
}

func TestAsError_ThroughWrapping(t *testing.T) {
	base := NotFound("rut_receptor", "1-9", LocationBody, "la empresa no existe")
	wrapped := fmt.Errorf("crear factura: %w", base)

	de, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Same(t, base, de)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	_, ok = AsError(errors.New("otro"))
	assert.False(t, ok)
}

func TestError_Message(t *testing.T) {
	err := BusinessRule("iva", "9000", LocationBody, "iva incorrecto")
	assert.Equal(t, "regla de negocio incumplida: iva: iva incorrecto", err.Error())
	assert.Equal(t, "conflicto con el estado actual", NewError(http.StatusConflict, ErrConflict).Error())
}
