package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/storage/memory"
	"github.com/wordlestats/wordlebot/wordlebot/storage/mock"
	"github.com/wordlestats/wordlebot/wordlebot/tracker"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func get(t *testing.T, s *Server, path string) (int, envelope) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func seededServer(t *testing.T) *Server {
	t.Helper()
	tr := tracker.New(memory.New(), nil)
	ctx := context.Background()
	for _, post := range []struct{ user, text string }{
		{"alice", "Wordle 500 3/6\n\n⬛🟨⬛⬛⬛\n🟩🟩⬛🟩⬛\n🟩🟩🟩🟩🟩"},
		{"alice", "Wordle 501 2/6\n\n🟩🟩⬛🟩⬛\n🟩🟩🟩🟩🟩"},
		{"bob", "Wordle 500 X/6\n\n⬛⬛⬛⬛⬛\n⬛⬛⬛⬛⬛\n⬛⬛⬛⬛⬛\n⬛⬛⬛⬛⬛\n⬛⬛⬛⬛⬛\n⬛⬛⬛⬛⬛"},
	} {
		outcome, _, err := tr.Add(ctx, post.user, post.text)
		require.NoError(t, err)
		require.Equal(t, tracker.Recorded, outcome)
	}
	return New(tr, Config{Address: ":0"})
}

func TestHealth(t *testing.T) {
	s := New(tracker.New(memory.New(), nil), Config{})
	status, body := get(t, s, "/api/health")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.JSONEq(t, `{"status":"ok"}`, string(body.Data))
}

func TestLeaderboard(t *testing.T) {
	s := seededServer(t)
	status, body := get(t, s, "/api/leaderboard")
	require.Equal(t, http.StatusOK, status)

	var standings []standing
	require.NoError(t, json.Unmarshal(body.Data, &standings))
	require.Len(t, standings, 2)
	assert.Equal(t, "alice", standings[0].User)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, "bob", standings[1].User)
	assert.Equal(t, 2, standings[1].Rank)
}

func TestPlayerStats(t *testing.T) {
	s := seededServer(t)
	status, body := get(t, s, "/api/players/alice/stats")
	require.Equal(t, http.StatusOK, status)

	var stats struct {
		Played        int     `json:"played"`
		WinPercentage float64 `json:"winPercentage"`
		AverageGuess  float64 `json:"averageGuess"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, 2, stats.Played)
	assert.InDelta(t, 100, stats.WinPercentage, 0.001)
	assert.InDelta(t, 2.5, stats.AverageGuess, 0.001)
}

func TestUnknownPlayerStats(t *testing.T) {
	s := seededServer(t)
	status, body := get(t, s, "/api/players/nobody/stats")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"played":0`)
}

func TestPlayerResult(t *testing.T) {
	s := seededServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{name: "recorded", path: "/api/players/alice/results/501", wantStatus: http.StatusOK},
		{name: "missing game", path: "/api/players/alice/results/9", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "zero game", path: "/api/players/alice/results/0", wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "not a number", path: "/api/players/alice/results/abc", wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, s, tt.path)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantCode == "" {
				assert.True(t, body.Success)
				assert.Contains(t, string(body.Data), `"guesses":2`)
				return
			}
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestPlayerWeekly(t *testing.T) {
	s := seededServer(t)
	status, body := get(t, s, "/api/players/alice/weekly")
	require.Equal(t, http.StatusOK, status)

	var results []struct {
		Game int `json:"game"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &results))
	assert.Len(t, results, 2)
}

func TestStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	store.EXPECT().GetUserStats(gomock.Any(), "alice").
		Return(nil, storage.Wrap("get stats", errors.New("connection refused")))

	s := New(tracker.New(store, nil), Config{})
	status, body := get(t, s, "/api/players/alice/stats")
	assert.Equal(t, http.StatusInternalServerError, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "connection refused")
}

func TestUnknownRoute(t *testing.T) {
	s := New(tracker.New(memory.New(), nil), Config{})
	status, body := get(t, s, "/api/nope")
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "404", body.Error.Code)
}
