package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/avatars/1/abc.png":
			if r.URL.Query().Get("size") != "4096" {
				t.Errorf("unexpected size %q", r.URL.Query().Get("size"))
			}
			w.Write([]byte("PNGDATA"))
		case "/banners/1/a_def.gif":
			w.Write([]byte("GIF89a"))
		case "/banners/1/gone.png":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, 4096, time.Second)
	ctx := context.Background()

	result, err := fetcher.Fetch(ctx, &Ref{KIND_AVATAR, "1", "abc"}, SLOT_AVATAR)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Usable() || result.Filename != "avatar.png" || string(result.Data) != "PNGDATA" {
		t.Errorf("unexpected result %+v", result)
	}
	if file := result.File(); file.ContentType != "image/png" {
		t.Errorf("expected png content type, got %s", file.ContentType)
	}

	result, err = fetcher.Fetch(ctx, &Ref{KIND_BANNER, "1", "a_def"}, SLOT_BANNER)
	if err != nil {
		t.Fatal(err)
	}
	if result.Filename != "banner.gif" {
		t.Errorf("animated banner should be a gif, got %s", result.Filename)
	}
	if file := result.File(); file.ContentType != "image/gif" {
		t.Errorf("expected gif content type, got %s", file.ContentType)
	}

	result, err = fetcher.Fetch(ctx, &Ref{KIND_BANNER, "1", "gone"}, SLOT_BANNER)
	if err != nil {
		t.Fatalf("not found should not be an error: %v", err)
	}
	if result.Status != RESULT_NOT_FOUND || result.Usable() {
		t.Errorf("expected not found, got %+v", result)
	}

	if _, err := fetcher.Fetch(ctx, &Ref{KIND_ICON, "1", "broken"}, SLOT_AVATAR); err == nil {
		t.Error("expected an error for a server failure")
	}

	result, err = fetcher.Fetch(ctx, nil, SLOT_AVATAR)
	if err != nil || result.Status != RESULT_ABSENT {
		t.Errorf("nil ref should be absent, got %+v %v", result, err)
	}
}
