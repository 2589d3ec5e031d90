package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrBusinessRule = errors.New("regla de negocio incumplida")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
)

// Ubicaciones posibles del valor que originó una violación.
const (
	LocationBody   = "body"
	LocationParams = "params"
)

// Violation describe un campo que no cumple una validación o regla de negocio.
type Violation struct {
	Type     string `json:"type"`
	Msg      string `json:"msg"`
	Value    any    `json:"value"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// Error es el portador estructurado de fallas de validación y reglas de negocio.
// Code es el status HTTP que el handler debe responder; Kind permite errors.Is contra los sentinelas.
type Error struct {
	Code       int
	Kind       error
	Violations []Violation
}

// NewError construye el portador. El código es obligatorio: un código fuera del rango 4xx/5xx
// se considera un error de programación y se reemplaza por 500.
func NewError(code int, kind error, violations ...Violation) *Error {
	if code < 400 || code > 599 {
		code = http.StatusInternalServerError
	}
	return &Error{Code: code, Kind: kind, Violations: violations}
}

func fieldViolation(path string, value any, location, msg string) Violation {
	return Violation{Type: "field", Msg: msg, Value: value, Path: path, Location: location}
}

// NotFound: la entidad referenciada no existe.
func NotFound(path string, value any, location, msg string) *Error {
	return NewError(http.StatusNotFound, ErrNotFound, fieldViolation(path, value, location, msg))
}

// Conflict: la entidad ya existe o ya está en el estado solicitado.
func Conflict(path string, value any, location, msg string) *Error {
	return NewError(http.StatusConflict, ErrConflict, fieldViolation(path, value, location, msg))
}

// BusinessRule: los datos están bien formados pero no cumplen una regla (montos, IVA, duplicados).
func BusinessRule(path string, value any, location, msg string) *Error {
	return NewError(http.StatusUnprocessableEntity, ErrBusinessRule, fieldViolation(path, value, location, msg))
}

// Invalid: el valor no tiene la forma esperada.
func Invalid(path string, value any, location, msg string) *Error {
	return NewError(http.StatusBadRequest, ErrInvalidInput, fieldViolation(path, value, location, msg))
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return e.Kind.Error()
	}
	v := e.Violations[0]
	if v.Path == "" {
		return fmt.Sprintf("%v: %s", e.Kind, v.Msg)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, v.Path, v.Msg)
}

// Unwrap expone el sentinela para errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// AsError extrae el portador estructurado de una cadena de errores.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
