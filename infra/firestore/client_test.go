package firestore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/matchcast/auth"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/infra/dataset"
)

const prefix = "/projects/scout/databases/(default)/documents/"

func fakeFirestore(t *testing.T) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var mu sync.Mutex
	var reqs []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqs = append(reqs, r)
		mu.Unlock()
		team := strings.TrimPrefix(r.URL.Path, prefix)
		w.Header().Set("Content-Type", "application/json")
		switch team {
		case "254":
			if r.URL.Query().Get("pageToken") == "" {
				_, _ = w.Write([]byte(`{"documents": [
					{"name": "projects/scout/databases/(default)/documents/254/12", "fields": {"autoFuel": {"integerValue": "9"}}},
					{"name": "projects/scout/databases/(default)/documents/254/empty"}
				], "nextPageToken": "p2"}`))
				return
			}
			_, _ = w.Write([]byte(`{"documents": [
				{"name": "projects/scout/databases/(default)/documents/254/3", "fields": {"autoFuel": {"integerValue": "4"}, "endgameClimbLevel": {"stringValue": "2"}}}
			]}`))
		case "9999":
			w.WriteHeader(http.StatusNotFound)
		case "1111":
			_, _ = w.Write([]byte(`{}`))
		case "broken":
			_, _ = w.Write([]byte(`{"documents": [`))
		default:
			http.Error(w, "permission denied", http.StatusForbidden)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestLoadFollowsPagesAndSkipsMissingTeams(t *testing.T) {
	srv, reqs := fakeFirestore(t)
	src, err := New(context.Background(), Config{BaseURL: srv.URL, ProjectID: "scout", APIKey: "k1", Auth: auth.Conf{AccessToken: "tok"}}, nil)
	require.NoError(t, err)

	ds, err := src.Load(context.Background(), []model.TeamID{"254", "9999", "1111"})
	require.NoError(t, err)
	assert.Equal(t, []model.TeamID{"254"}, ds.Teams())
	ms := ds.Matches("254")
	require.Len(t, ms, 2)
	assert.Equal(t, "3", ms[0].MatchID)
	assert.Equal(t, model.ClimbLevel(2), ms[0].EndgameClimb)
	assert.Equal(t, 9.0, ms[1].AutoFuel)

	for _, r := range *reqs {
		assert.Equal(t, "k1", r.URL.Query().Get("key"))
		assert.Equal(t, "1000", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
	}
}

func TestLoadErrors(t *testing.T) {
	srv, _ := fakeFirestore(t)
	src, err := New(context.Background(), Config{BaseURL: srv.URL, ProjectID: "scout"}, nil)
	require.NoError(t, err)

	_, err = src.Load(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrTeamsRequired))

	_, err = src.Load(context.Background(), []model.TeamID{"denied"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")

	_, err = src.FetchTeam(context.Background(), "broken")
	assert.True(t, errors.Is(err, dataset.ErrUnreadable))

	_, err = New(context.Background(), Config{}, nil)
	assert.Error(t, err)
}
