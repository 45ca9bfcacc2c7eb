// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"team-task-manager/internal/transport/http/middleware"
	"team-task-manager/internal/usecase"

	"go.uber.org/zap"
)

// Handler serves the REST API on top of the usecase layer.
type Handler struct {
	log        *zap.SugaredLogger
	uc         usecase.InterfaceUsecase
	sessions   *middleware.Sessions
	production bool
}

// NewHandler constructs an HTTP handler with service dependencies. production
// hides internal error messages from clients.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase, sessions *middleware.Sessions, production bool) *Handler {
	return &Handler{
		log:        log.Named("http"),
		uc:         usecase,
		sessions:   sessions,
		production: production,
	}
}
