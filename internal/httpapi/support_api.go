package httpapi

import (
	"context"
	"net/http"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
)

type supportSubmitter interface {
	Submit(ctx context.Context, params models.CreateSupportParams) (*models.SupportRequest, error)
}

// SupportAPI handles contact form submissions
type SupportAPI struct {
	support supportSubmitter
	logger  *logging.Logger
}

func NewSupportAPI(support supportSubmitter, logger *logging.Logger) *SupportAPI {
	return &SupportAPI{support: support, logger: logger}
}

func (api *SupportAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	if api.support == nil {
		api.logger.Warn("Support API routes not registered: no database configured")
		return
	}
	mux.HandleFunc("/api/support", corsMiddleware(api.handleSubmit))
}

// handleSubmit handles POST /api/support {name, email, subject, message}
func (api *SupportAPI) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var params models.CreateSupportParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	req, err := api.support.Submit(r.Context(), params)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, msgInvalidInput)
			return
		}
		api.logger.Error("Support submission failed", logging.WithField("error", err.Error()))
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}
