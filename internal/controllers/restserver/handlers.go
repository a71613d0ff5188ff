package restserver

import (
	"errors"
	"net/http"

	"github.com/chrissnell/ws2300/internal/constants"
	"github.com/chrissnell/ws2300/internal/log"
	"github.com/chrissnell/ws2300/internal/station"
	"github.com/chrissnell/ws2300/pkg/responseformat"
	"github.com/chrissnell/ws2300/pkg/ws2300"
	"github.com/gorilla/mux"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

type errorResponse struct {
	Error     string `json:"error" yaml:"error"`
	RequestID string `json:"request_id,omitempty" yaml:"request_id,omitempty"`
}

type healthResponse struct {
	Healthy bool           `json:"healthy" yaml:"healthy"`
	Version string         `json:"version" yaml:"version"`
	Station station.Status `json:"station" yaml:"station"`
}

// GetSnapshot reads every field from the station.
func (h *Handlers) GetSnapshot(w http.ResponseWriter, req *http.Request) {
	snap, err := h.controller.source.Snapshot(req.Context())
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, snap)
}

// GetField reads a single field named in the path.
func (h *Handlers) GetField(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["field"]

	value, err := h.controller.source.Field(req.Context(), name)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, map[string]any{name: value})
}

// ListFields returns the names accepted by GetField.
func (h *Handlers) ListFields(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, ws2300.Fields())
}

// GetHealth reports 503 when the latest station read failed.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	st := h.controller.source.Status()
	resp := healthResponse{
		Healthy: st.Reads == 0 || st.LastError == "",
		Version: constants.Version,
		Station: st,
	}

	status := http.StatusOK
	if !resp.Healthy {
		status = http.StatusServiceUnavailable
	}
	h.write(w, req, status, resp)
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusServiceUnavailable
	switch {
	case errors.Is(err, ws2300.ErrUnknownField):
		status = http.StatusNotFound
	case errors.Is(err, ws2300.ErrDecode):
		status = http.StatusBadGateway
	}

	h.write(w, req, status, errorResponse{Error: err.Error(), RequestID: requestID(req)})
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data, nil); err != nil {
		log.Errorf("error writing response: %v", err)
	}
}
