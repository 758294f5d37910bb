// Package firestore loads scouting records from the Firestore REST API, where
// each team is a collection and each match a document in it.
package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/matchcast/auth"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/infra/dataset"
	"github.com/kilianp07/matchcast/infra/logger"
)

// DefaultBaseURL is the public Firestore REST endpoint.
const DefaultBaseURL = "https://firestore.googleapis.com/v1"

const pageSize = "1000"

// ErrTeamsRequired is returned when Load is called without a team list; the
// REST API cannot enumerate top level collections with an API key.
var ErrTeamsRequired = errors.New("firestore source needs an explicit team list")

// Config locates the project and carries its credentials.
type Config struct {
	BaseURL     string        `json:"base_url"`
	ProjectID   string        `json:"project_id"`
	APIKey      string        `json:"api_key"`
	Auth        auth.Conf     `json:"auth"`
	Timeout     time.Duration `json:"timeout"`
	Concurrency int           `json:"concurrency"`
}

// Source implements dataset.Source over the REST API.
type Source struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// New builds a Source. Bearer credentials in cfg.Auth are attached to every
// request; the API key, when set, is sent as the key query parameter.
func New(ctx context.Context, cfg Config, log logger.Logger) (*Source, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firestore project id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	client, err := auth.HTTPClient(ctx, cfg.Auth, &http.Client{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("firestore auth: %w", err)
	}
	return &Source{cfg: cfg, client: client, log: logger.OrNop(log)}, nil
}

func (s *Source) Name() string { return "firestore" }

// Load fetches every requested team concurrently. Teams without documents
// are absent from the result.
func (s *Source) Load(ctx context.Context, teams []model.TeamID) (model.Dataset, error) {
	if len(teams) == 0 {
		return nil, ErrTeamsRequired
	}
	var mu sync.Mutex
	ds := make(model.Dataset, len(teams))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, team := range teams {
		team := team
		g.Go(func() error {
			ms, err := s.FetchTeam(ctx, team)
			if err != nil {
				return err
			}
			if len(ms) == 0 {
				return nil
			}
			mu.Lock()
			ds[team] = ms
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

type document struct {
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields"`
}

type listResponse struct {
	Documents     []document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

// FetchTeam lists the match documents of one team, following pagination.
// A missing collection yields no records and no error.
func (s *Source) FetchTeam(ctx context.Context, team model.TeamID) ([]model.MatchRecord, error) {
	raw := map[string]any{}
	token := ""
	for {
		page, err := s.fetchPage(ctx, team, token)
		if err != nil {
			return nil, err
		}
		for _, d := range page.Documents {
			if len(d.Fields) == 0 {
				continue
			}
			raw[path.Base(d.Name)] = d.Fields
		}
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	s.log.Debugf("firestore team %s: %d matches", team, len(raw))
	return dataset.DecodeTeam(team, raw), nil
}

func (s *Source) fetchPage(ctx context.Context, team model.TeamID, pageToken string) (listResponse, error) {
	var out listResponse
	u := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s",
		strings.TrimSuffix(s.cfg.BaseURL, "/"), url.PathEscape(s.cfg.ProjectID), url.PathEscape(string(team)))
	q := url.Values{"pageSize": {pageSize}}
	if s.cfg.APIKey != "" {
		q.Set("key", s.cfg.APIKey)
	}
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
	if err != nil {
		return out, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("fetch team %s: %w", team, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return out, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return out, fmt.Errorf("fetch team %s: status %d: %s", team, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("fetch team %s: %w: %v", team, dataset.ErrUnreadable, err)
	}
	return out, nil
}
