package controllers

import (
	"net/http"

	"github.com/rzbill/soid/internal/runtime"
	logpkg "github.com/rzbill/soid/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general *GeneralController
	ids     *IDsController
	ledger  *LedgerController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, logger logpkg.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt),
		ids:     NewIDsController(rt, logger),
		ledger:  NewLedgerController(rt),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.ids.RegisterRoutes(mux)
	r.ledger.RegisterRoutes(mux)
}
