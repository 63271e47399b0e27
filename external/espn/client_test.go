package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const scoreboardFixture = `{
  "events": [
    {
      "id": "401772510",
      "date": "2025-09-07T17:00Z",
      "week": {"number": 1},
      "season": {"year": 2025, "type": 2},
      "competitions": [
        {
          "id": "401772510",
          "date": "2025-09-07T17:00Z",
          "competitors": [
            {"homeAway": "home", "score": "27", "winner": true, "team": {"abbreviation": "kc"}},
            {"homeAway": "away", "score": "20", "team": {"abbreviation": "BAL"}}
          ],
          "status": {"type": {"name": "STATUS_FINAL", "state": "post", "completed": true}}
        }
      ]
    },
    {
      "id": "401772511",
      "date": "2025-09-07T20:25Z",
      "week": {"number": 1},
      "season": {"year": 2025, "type": 2},
      "competitions": [
        {
          "competitors": [
            {"homeAway": "home", "score": "", "team": {"abbreviation": "SF"}},
            {"homeAway": "away", "score": "", "team": {"abbreviation": "SEA"}}
          ],
          "status": {"type": {"name": "STATUS_SCHEDULED", "state": "pre", "completed": false}}
        }
      ]
    },
    {
      "id": "",
      "competitions": []
    }
  ]
}`

func TestFetchWeek_MapsScoreboardEvents(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("week"); got != "1" {
			t.Errorf("expected week=1 query, got=%q", got)
		}
		if got := r.URL.Query().Get("seasontype"); got != "2" {
			t.Errorf("expected seasontype=2 query, got=%q", got)
		}
		_, _ = w.Write([]byte(scoreboardFixture))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	games, err := client.FetchWeek(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("expected no error, got=%v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected two games after skipping the malformed event, got=%d", len(games))
	}

	final := games[0]
	if final.ExternalID != "401772510" {
		t.Fatalf("expected external id 401772510, got=%q", final.ExternalID)
	}
	if final.HomeTeam != "KC" || final.AwayTeam != "BAL" {
		t.Fatalf("expected KC vs BAL with abbreviations uppercased, got=%q vs %q", final.HomeTeam, final.AwayTeam)
	}
	if final.Status != "FINISHED" {
		t.Fatalf("expected completed event to map to FINISHED, got=%q", final.Status)
	}
	if final.HomeScore == nil || *final.HomeScore != 27 {
		t.Fatalf("expected home score 27, got=%v", final.HomeScore)
	}
	if final.AwayScore == nil || *final.AwayScore != 20 {
		t.Fatalf("expected away score 20, got=%v", final.AwayScore)
	}
	if final.FinishedAt == nil {
		t.Fatalf("expected finished event to carry a finished timestamp")
	}
	wantKickoff := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	if !final.KickoffAt.Equal(wantKickoff) {
		t.Fatalf("expected kickoff %v, got=%v", wantKickoff, final.KickoffAt)
	}

	upcoming := games[1]
	if upcoming.Status != "SCHEDULED" {
		t.Fatalf("expected pre-game event to map to SCHEDULED, got=%q", upcoming.Status)
	}
	if upcoming.HomeScore != nil || upcoming.AwayScore != nil {
		t.Fatalf("expected no scores for a scheduled game, got home=%v away=%v", upcoming.HomeScore, upcoming.AwayScore)
	}
	if upcoming.FinishedAt != nil {
		t.Fatalf("expected no finished timestamp for a scheduled game")
	}
}

func TestFetchWeek_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(scoreboardFixture))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, MaxRetries: 2})
	games, err := client.FetchWeek(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("expected retry to recover, got=%v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected two games, got=%d", len(games))
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly two requests, got=%d", calls.Load())
	}
}

func TestFetchWeek_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, MaxRetries: 3})
	if _, err := client.FetchWeek(context.Background(), 2025, 1); err == nil {
		t.Fatalf("expected error for 404 response")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single request for a non-retryable status, got=%d", calls.Load())
	}
}

func TestFetchWeek_RejectsInvalidArgs(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0"})
	if _, err := client.FetchWeek(context.Background(), 0, 1); err == nil {
		t.Fatalf("expected error for zero season")
	}
	if _, err := client.FetchWeek(context.Background(), 2025, 0); err == nil {
		t.Fatalf("expected error for zero week")
	}
}

func TestMapEventStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   scoreboardStatusType
		want string
	}{
		{name: "pre", in: scoreboardStatusType{State: "pre"}, want: "SCHEDULED"},
		{name: "in progress", in: scoreboardStatusType{State: "in"}, want: "LIVE"},
		{name: "post", in: scoreboardStatusType{State: "post"}, want: "FINISHED"},
		{name: "completed flag wins", in: scoreboardStatusType{State: "in", Completed: true}, want: "FINISHED"},
		{name: "unknown defaults to scheduled", in: scoreboardStatusType{State: "tbd"}, want: "SCHEDULED"},
	}
	for _, tc := range cases {
		if got := mapEventStatus(tc.in); got != tc.want {
			t.Fatalf("%s: expected %q, got=%q", tc.name, tc.want, got)
		}
	}
}
