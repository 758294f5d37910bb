package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/core/prediction"
	"github.com/kilianp07/matchcast/infra/dataset"
	"github.com/kilianp07/matchcast/infra/firestore"
	"github.com/kilianp07/matchcast/infra/logger"
)

type handler struct {
	backend Backend
	log     logger.Logger
}

// predict serves GET /api/predict?red=a,b,c&blue=d,e,f.
func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	red, err := rosterParam(r, "red")
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	blue, err := rosterParam(r, "blue")
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	rep, err := h.backend.Predict(r.Context(), red, blue)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, rep)
}

// averages serves GET /api/averages?teams=a,b; no teams lists every team.
func (h *handler) averages(w http.ResponseWriter, r *http.Request) {
	avgs, err := h.backend.Averages(r.Context(), model.ParseTeamIDs(r.URL.Query().Get("teams")))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, avgs)
}

// teamAverages serves GET /api/teams/{team}/averages.
func (h *handler) teamAverages(w http.ResponseWriter, r *http.Request) {
	team := model.TeamID(chi.URLParam(r, "team"))
	avgs, err := h.backend.Averages(r.Context(), []model.TeamID{team})
	if err != nil {
		h.fail(w, err)
		return
	}
	if len(avgs) == 0 || avgs[0].Entries == 0 {
		h.errorResponse(w, http.StatusNotFound, fmt.Sprintf("team %s not found in data", team))
		return
	}
	h.jsonResponse(w, http.StatusOK, avgs[0])
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, prediction.ErrInvalidRoster), errors.Is(err, firestore.ErrTeamsRequired):
		status = http.StatusBadRequest
	case errors.Is(err, prediction.ErrNoDataset), errors.Is(err, dataset.ErrUnreadable):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		h.log.Errorf("api request failed: %v", err)
	}
	h.errorResponse(w, status, err.Error())
}

func rosterParam(r *http.Request, name string) (model.Roster, error) {
	ids := model.ParseTeamIDs(r.URL.Query().Get(name))
	ro, err := model.NewRoster(ids)
	if err != nil {
		return ro, fmt.Errorf("%s: %w", name, err)
	}
	return ro, nil
}

// jsonResponse writes data as JSON. Data that cannot be encoded is answered
// with 500.
func (h *handler) jsonResponse(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		h.log.Errorf("api encode response: %v", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "response could not be encoded"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.log.Warnf("api write response: %v", err)
	}
}

func (h *handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
