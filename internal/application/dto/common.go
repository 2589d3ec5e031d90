package dto

import "github.com/jhoicas/Gestion-api/internal/domain"

// ErrorsResponse cuerpo de error HTTP normalizado: una entrada por campo inválido.
type ErrorsResponse struct {
	Errors []domain.Violation `json:"errors"`
}

// HealthResponse respuesta de GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
