package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	core "github.com/kilianp07/matchcast/core/diagnostics"
)

// Querier returns stored diagnostic entries.
type Querier interface {
	Diagnostics(ctx context.Context, q core.Query) ([]core.Entry, error)
}

// NewLogHandler returns an HTTP handler exposing diagnostics via GET
// /api/diagnostics. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty. Queries returning an error that
// matches unavailable are answered with 404.
func NewLogHandler(store Querier, token string, unavailable error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		params := r.URL.Query()
		q := core.Query{
			RequestID: params.Get("request_id"),
			Component: params.Get("component"),
			Team:      params.Get("team"),
		}
		for key, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
			s := params.Get(key)
			if s == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, "invalid "+key+": "+err.Error(), http.StatusBadRequest)
				return
			}
			*dst = t
		}
		entries, err := store.Diagnostics(r.Context(), q)
		if err != nil {
			status := http.StatusInternalServerError
			if unavailable != nil && errors.Is(err, unavailable) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		if entries == nil {
			entries = []core.Entry{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
