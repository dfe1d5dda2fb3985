package instagram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"cratepress/internal/services"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		AccountID:   "12345",
		AccessToken: "token",
		BaseURL:     server.URL,
	}, WithSleeper(func(time.Duration) {}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestPublishSingleImage(t *testing.T) {
	var containerCalls, publishCalls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		switch r.URL.Path {
		case "/12345/media":
			containerCalls.Add(1)
			if r.FormValue("image_url") != "https://example.com/front.jpg" {
				t.Errorf("image_url = %q", r.FormValue("image_url"))
			}
			if r.FormValue("caption") != "caption text" {
				t.Errorf("caption = %q", r.FormValue("caption"))
			}
			if r.FormValue("access_token") != "token" {
				t.Errorf("access_token missing")
			}
			w.Write([]byte(`{"id":"container-1"}`))
		case "/12345/media_publish":
			publishCalls.Add(1)
			if r.FormValue("creation_id") != "container-1" {
				t.Errorf("creation_id = %q", r.FormValue("creation_id"))
			}
			w.Write([]byte(`{"id":"media-9"}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	mediaID, err := client.Publish(context.Background(), []string{"https://example.com/front.jpg"}, "caption text")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if mediaID != "media-9" {
		t.Fatalf("media id = %q", mediaID)
	}
	if containerCalls.Load() != 1 || publishCalls.Load() != 1 {
		t.Fatalf("calls = %d containers, %d publishes", containerCalls.Load(), publishCalls.Load())
	}
}

func TestPublishCarousel(t *testing.T) {
	var containers []url.Values
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		switch r.URL.Path {
		case "/12345/media":
			containers = append(containers, r.Form)
			w.Write([]byte(`{"id":"c-` + string(rune('0'+len(containers))) + `"}`))
		case "/12345/media_publish":
			w.Write([]byte(`{"id":"media-1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	urls := []string{"https://example.com/front.jpg", "https://example.com/back.jpg"}
	if _, err := client.Publish(context.Background(), urls, "two sides"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(containers) != 3 {
		t.Fatalf("expected 2 children + 1 carousel, got %d containers", len(containers))
	}
	for _, child := range containers[:2] {
		if child.Get("is_carousel_item") != "true" {
			t.Errorf("child missing carousel flag: %v", child)
		}
	}
	carousel := containers[2]
	if carousel.Get("media_type") != "CAROUSEL" {
		t.Errorf("carousel media_type = %q", carousel.Get("media_type"))
	}
	if carousel.Get("children") != "c-1,c-2" {
		t.Errorf("children = %q", carousel.Get("children"))
	}
	if carousel.Get("caption") != "two sides" {
		t.Errorf("caption = %q", carousel.Get("caption"))
	}
}

func TestPublishAuthFailureDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad token","type":"OAuthException","code":190}}`))
	}))

	_, err := client.Publish(context.Background(), []string{"https://example.com/a.jpg"}, "caption")
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single attempt, got %d", calls.Load())
	}
}

func TestPublishRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	var slept []time.Duration
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/12345/media":
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":{"message":"rate limited","type":"ApiError","code":4}}`))
				return
			}
			w.Write([]byte(`{"id":"container-1"}`))
		case "/12345/media_publish":
			w.Write([]byte(`{"id":"media-1"}`))
		}
	}))
	defer server.Close()

	client, err := NewClient(Config{
		AccountID:   "12345",
		AccessToken: "token",
		BaseURL:     server.URL,
	}, WithSleeper(func(d time.Duration) { slept = append(slept, d) }))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	mediaID, err := client.Publish(context.Background(), []string{"https://example.com/a.jpg"}, "caption")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if mediaID != "media-1" {
		t.Fatalf("media id = %q", mediaID)
	}
	if len(slept) != 1 {
		t.Fatalf("expected one backoff sleep, got %d", len(slept))
	}
}

func TestPublishTransientAfterExhaustedRetries(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"server exploded","type":"ApiError","code":1}}`))
	}))

	_, err := client.Publish(context.Background(), []string{"https://example.com/a.jpg"}, "caption")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if calls.Load() != defaultRetryAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultRetryAttempts, calls.Load())
	}
}

func TestPublishRejectsEmptyURLList(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := client.Publish(context.Background(), []string{"", "  "}, "caption")
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}
