package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProxyGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("header not set on request")
		}
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("hello"))
		case "/missing":
			w.WriteHeader(DATA_NOT_FOUND)
		case "/limited":
			w.WriteHeader(RATE_LIMIT_EXCEEDED)
		default:
			w.WriteHeader(418)
		}
	}))
	defer server.Close()

	proxy := NewProxy(map[string]string{"X-Test": "yes"}, nil, time.Second)
	ctx := context.Background()

	data, err := proxy.Get(ctx, server.URL+"/ok", true)
	if err != nil || string(data) != "hello" {
		t.Errorf("expected hello, got %q %v", data, err)
	}
	if _, err := proxy.Get(ctx, server.URL+"/missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := proxy.Get(ctx, server.URL+"/teapot", true); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
	if _, err := proxy.Get(ctx, server.URL+"/limited", true); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	// The remote end rate limited us, so non vital requests are refused for a while
	if _, err := proxy.Get(ctx, server.URL+"/ok", false); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected the penalty to reject the request, got %v", err)
	}
}
