package pronoundb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"thermometer/internal/common"
)

func TestPronounsFromCode(t *testing.T) {
	tests := []struct {
		code string
		want string
		ok   bool
	}{
		{"hh", "he/him", true},
		{"tt", "they/them", true},
		{"shh", "she/he", true},
		{"avoid", "Avoid pronouns, use my name", true},
		{"unspecified", "", false},
		{"nonsense", "", false},
	}
	for _, test := range tests {
		got, ok := PronounsFromCode(test.code)
		if got != test.want || ok != test.ok {
			t.Errorf("PronounsFromCode(%q) = %q, %v; want %q, %v", test.code, got, ok, test.want, test.ok)
		}
	}
}

func newServer(t *testing.T, requests *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		if r.URL.Path != "/api/v1/lookup" || r.URL.Query().Get("platform") != "discord" {
			t.Errorf("unexpected request %s", r.URL)
		}
		switch r.URL.Query().Get("id") {
		case "1":
			w.Write([]byte(`{"pronouns":"tt"}`))
		case "2":
			w.Write([]byte(`{"pronouns":"unspecified"}`))
		case "3":
			w.Write([]byte(`not json`))
		case "slow":
			time.Sleep(50 * time.Millisecond)
			w.Write([]byte(`{"pronouns":"sh"}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestGetPronouns(t *testing.T) {
	var requests int32
	server := newServer(t, &requests)
	defer server.Close()

	pronoundb := NewPronounDB(server.URL+"/", time.Second, nil)
	ctx := context.Background()

	if got, ok := pronoundb.GetPronouns(ctx, "1"); !ok || got != "they/them" {
		t.Errorf("expected they/them, got %q", got)
	}
	for _, userid := range []string{"2", "3", "404"} {
		if got, ok := pronoundb.GetPronouns(ctx, userid); ok {
			t.Errorf("expected no pronouns for user %s, got %q", userid, got)
		}
	}
}

func TestGetPronounsSharesConcurrentLookups(t *testing.T) {
	var requests int32
	server := newServer(t, &requests)
	defer server.Close()

	pronoundb := NewPronounDB(server.URL, time.Second, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, _ := pronoundb.GetPronouns(context.Background(), "slow"); got != "she/her" {
				t.Errorf("expected she/her, got %q", got)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&requests); n >= 5 {
		t.Errorf("expected concurrent lookups to be shared, got %d requests", n)
	}
}

func TestGetPronounsRateLimited(t *testing.T) {
	var requests int32
	server := newServer(t, &requests)
	defer server.Close()

	pronoundb := NewPronounDB(server.URL, time.Second, []common.Restriction{{Requests: 1, Duration: time.Minute}})
	ctx := context.Background()

	if _, ok := pronoundb.GetPronouns(ctx, "1"); !ok {
		t.Fatal("first lookup should go through")
	}
	if _, ok := pronoundb.GetPronouns(ctx, "1"); ok {
		t.Error("second lookup should be rejected by the rate limiter")
	}
	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Errorf("expected a single request to reach the server, got %d", n)
	}
}

func TestGetPronounsSurvivesFirstCallerCancelling(t *testing.T) {
	var requests int32
	server := newServer(t, &requests)
	defer server.Close()

	pronoundb := NewPronounDB(server.URL, time.Second, nil)

	// The first caller gives up while the shared request is in flight
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()
	first := make(chan struct{})
	go func() {
		defer close(first)
		pronoundb.GetPronouns(ctx, "slow")
	}()
	time.Sleep(5 * time.Millisecond)

	if got, ok := pronoundb.GetPronouns(context.Background(), "slow"); !ok || got != "she/her" {
		t.Errorf("expected she/her, got %q", got)
	}
	<-first
}
