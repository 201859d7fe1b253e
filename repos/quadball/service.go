// Package quadball talks to the REST side of the live server.
package quadball

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang/glog"
	"golang.org/x/xerrors"
)

const tournamentGamesPath = "administration/getAllTournamentPublicGameIdsAndTimes.php"

var ErrNoGames = errors.New("tournament has no games")

// Service resolves tournaments into public game ids.
type Service struct {
	baseURL    string
	httpClient *http.Client
}

// NewService creates a client for the live server at baseURL.
func NewService(baseURL string, httpClient *http.Client) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Service{baseURL: baseURL, httpClient: httpClient}
}

// TournamentGameIDs returns the public ids of all games of a tournament.
func (s *Service) TournamentGameIDs(ctx context.Context, tournamentID string) ([]string, error) {
	body, err := json.Marshal(TournamentGamesRequest{Tournament: tournamentID})
	if err != nil {
		return nil, err
	}

	// The endpoint reads a JSON body even on GET.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+tournamentGamesPath, bytes.NewReader(body))
	if err != nil {
		return nil, xerrors.Errorf("create tournament request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("fetch games of tournament %s: %w", tournamentID, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("fetch games of tournament %s: status %d: %s", tournamentID, res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var response TournamentGamesResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, xerrors.Errorf("decode games of tournament %s: %w", tournamentID, err)
	}
	if len(response.PublicGameIDs) == 0 {
		return nil, xerrors.Errorf("tournament %s: %w", tournamentID, ErrNoGames)
	}

	glog.Infof("[quadball] tournament %s has %d games\n", tournamentID, len(response.PublicGameIDs))
	return response.PublicGameIDs, nil
}
