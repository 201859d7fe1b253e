package quadball

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentGameIDs(t *testing.T) {
	var got TournamentGamesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/"+tournamentGamesPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_game_ids": ["g1", "g2"], "times": []}`))
	}))
	defer srv.Close()

	ids, err := NewService(srv.URL, nil).TournamentGameIDs(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, ids)
	assert.Equal(t, "42", got.Tournament)
}

func TestTournamentGameIDsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"public_game_ids": []}`))
	}))
	defer srv.Close()

	_, err := NewService(srv.URL+"/", nil).TournamentGameIDs(context.Background(), "42")
	assert.True(t, errors.Is(err, ErrNoGames))
	assert.EqualError(t, err, "tournament 42: tournament has no games")
}

func TestTournamentGameIDsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewService(srv.URL, nil).TournamentGameIDs(context.Background(), "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
