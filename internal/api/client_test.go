package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"papercast/internal/api"
	"papercast/internal/config"
	"papercast/internal/credentials"
	"papercast/internal/logging"
	"papercast/internal/notifications"
)

// spyNotifier records surfaced errors so tests can assert on suppression.
type spyNotifier struct {
	mu     sync.Mutex
	errors []string
}

func (s *spyNotifier) NotifyError(_ context.Context, err error, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err.Error())
	return nil
}

func (s *spyNotifier) surfaced() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.errors...)
}

func (s *spyNotifier) NotifyPaperIngested(context.Context, string) error    { return nil }
func (s *spyNotifier) NotifyScriptsGenerated(context.Context, string) error { return nil }
func (s *spyNotifier) NotifySlidesGenerated(context.Context, string) error  { return nil }
func (s *spyNotifier) NotifyMediaReady(context.Context, string) error       { return nil }
func (s *spyNotifier) NotifyVideoCompleted(context.Context, string) error   { return nil }
func (s *spyNotifier) NotifyPaperMissing(context.Context, string) error     { return nil }
func (s *spyNotifier) TestNotification(context.Context) error               { return nil }

var _ notifications.Service = (*spyNotifier)(nil)

type clientHarness struct {
	client   *api.Client
	creds    *credentials.Store
	notifier *spyNotifier
	sleeps   []time.Duration
	hooks    int
}

func newHarness(t *testing.T, serverURL string, opts ...api.Option) *clientHarness {
	t.Helper()
	h := &clientHarness{
		creds:    credentials.NewStore(t.TempDir(), logging.NewNop()),
		notifier: &spyNotifier{},
	}
	backend := config.Backend{
		BaseURL:        serverURL,
		RequestTimeout: 5,
		RetryAttempts:  2,
		RetryDelay:     1,
	}
	base := []api.Option{
		api.WithLogger(logging.NewNop()),
		api.WithNotifier(h.notifier),
		api.WithSleeper(func(d time.Duration) { h.sleeps = append(h.sleeps, d) }),
		api.WithAuthFailureHook(func() { h.hooks++ }),
	}
	h.client = api.NewClient(backend, h.creds, append(base, opts...)...)
	return h
}

func TestRetrySucceedsAfterTransientServerFailures(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			http.Error(w, `{"detail":"temporarily down"}`, http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"title":"T","authors":"","date":""}`))
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	papers := api.NewPapers(h.client)

	meta, err := papers.Metadata(context.Background(), "p1")
	if err != nil {
		t.Fatalf("metadata after retries: %v", err)
	}
	if meta.Title != "T" {
		t.Fatalf("title = %q, want T", meta.Title)
	}
	if calls != 3 {
		t.Fatalf("server saw %d calls, want 3", calls)
	}
	if len(h.sleeps) != 2 || h.sleeps[0] != time.Second {
		t.Fatalf("sleeps = %v, want two fixed 1s delays", h.sleeps)
	}
}

func TestRetryBudgetExhausts(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"detail":"still down"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	papers := api.NewPapers(h.client)

	_, err := papers.Metadata(context.Background(), "p1")
	if !api.IsServerError(err) {
		t.Fatalf("err = %v, want server error", err)
	}
	if calls != 3 {
		t.Fatalf("server saw %d calls, want 3 (1 + 2 retries)", calls)
	}
	if got := h.notifier.surfaced(); len(got) != 1 || got[0] != "still down" {
		t.Fatalf("surfaced = %v, want one notice with backend detail", got)
	}
}

func TestClientErrorsAreNeverRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"bad request"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	papers := api.NewPapers(h.client)

	_, err := papers.Metadata(context.Background(), "p1")
	if err == nil || api.IsServerError(err) {
		t.Fatalf("err = %v, want non-retryable client error", err)
	}
	if calls != 1 {
		t.Fatalf("server saw %d calls, want 1", calls)
	}
	if len(h.sleeps) != 0 {
		t.Fatalf("unexpected retry sleeps: %v", h.sleeps)
	}
	if got := h.notifier.surfaced(); len(got) != 1 || got[0] != "bad request" {
		t.Fatalf("surfaced = %v, want generic message field", got)
	}
}

type countingFailTransport struct {
	calls int
}

func (t *countingFailTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls++
	return nil, errors.New("connection refused")
}

func TestNetworkErrorsAreNotRetried(t *testing.T) {
	transport := &countingFailTransport{}
	h := newHarness(t, "http://backend.invalid", api.WithHTTPClient(&http.Client{Transport: transport}))
	papers := api.NewPapers(h.client)

	_, err := papers.Metadata(context.Background(), "p1")
	if err == nil {
		t.Fatal("expected network error")
	}
	if transport.calls != 1 {
		t.Fatalf("transport saw %d calls, want 1", transport.calls)
	}
}

func TestAuthFailureClearsCredentialsAndFiresHookOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	h.creds.SetToken("stale-token")
	h.creds.SetUser(&credentials.Profile{ID: "u1"})
	papers := api.NewPapers(h.client)

	_, err := papers.Metadata(context.Background(), "p1")
	if !api.IsAuthFailure(err) {
		t.Fatalf("err = %v, want auth failure", err)
	}
	if h.creds.Token() != "" || h.creds.User() != nil {
		t.Fatal("credentials survived auth failure")
	}
	if h.hooks != 1 {
		t.Fatalf("auth hook fired %d times, want exactly 1", h.hooks)
	}
	if got := h.notifier.surfaced(); len(got) != 0 {
		t.Fatalf("auth failure surfaced a notice: %v", got)
	}
}

func TestBearerTokenIsAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	papers := api.NewPapers(h.client)

	if _, err := papers.Metadata(context.Background(), "p1"); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("anonymous request carried Authorization %q", gotAuth)
	}

	h.creds.SetToken("tok123")
	if _, err := papers.Metadata(context.Background(), "p1"); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization = %q, want Bearer tok123", gotAuth)
	}
}

func TestSuppressedAbsenceRejectsWithoutNotice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	slides := api.NewSlides(h.client)

	// Preview has no documented fallback, so the rejection reaches the
	// caller even though the 404 is a suppressed expected absence.
	_, err := slides.Preview(context.Background(), "p1")
	if !api.IsNotFound(err) {
		t.Fatalf("err = %v, want 404", err)
	}
	if !api.IsSuppressed(err) {
		t.Fatalf("err = %v, want suppressed", err)
	}
	if got := h.notifier.surfaced(); len(got) != 0 {
		t.Fatalf("suppressed absence surfaced a notice: %v", got)
	}
}

func TestMissingPaperIsAHardError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"paper not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	papers := api.NewPapers(h.client)

	_, err := papers.Metadata(context.Background(), "p1")
	if !api.IsNotFound(err) || api.IsSuppressed(err) {
		t.Fatalf("err = %v, want unsuppressed 404", err)
	}
	if got := h.notifier.surfaced(); len(got) != 1 || got[0] != "paper not found" {
		t.Fatalf("surfaced = %v, want the backend detail", got)
	}
}

func TestUserMessagePreference(t *testing.T) {
	tests := []struct {
		name string
		err  api.StatusError
		want string
	}{
		{
			name: "detail preferred",
			err:  api.StatusError{Detail: "specific", Message: "generic"},
			want: "specific",
		},
		{
			name: "message fallback",
			err:  api.StatusError{Message: "generic"},
			want: "generic",
		},
		{
			name: "hardcoded fallback",
			err:  api.StatusError{},
			want: "request failed",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.UserMessage(); got != tc.want {
				t.Fatalf("UserMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}
