package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"papercast/internal/config"
	"papercast/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "upload"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newCapturingServer(t *testing.T, sink *[]captured) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*sink = append(*sink, captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
		w.WriteHeader(http.StatusOK)
	}))
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	var got []captured
	server := newCapturingServer(t, &got)
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Milestones = true
	svc := notifications.NewService(&cfg)

	ctx := context.Background()
	tests := []struct {
		name           string
		notify         func() error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:          "paper ingested",
			notify:        func() error { return svc.NotifyPaperIngested(ctx, "Attention Is All You Need") },
			expectTitle:   "Papercast - Paper Ingested",
			expectMessage: "Paper ingested: Attention Is All You Need",
			expectTags:    "papercast,paper,ingested",
		},
		{
			name:           "video completed",
			notify:         func() error { return svc.NotifyVideoCompleted(ctx, "Attention Is All You Need") },
			expectTitle:    "Papercast - Video Complete",
			expectMessage:  "Ready to watch: Attention Is All You Need",
			expectTags:     "papercast,video,completed",
			expectPriority: "high",
		},
		{
			name:           "paper missing",
			notify:         func() error { return svc.NotifyPaperMissing(ctx, "p1") },
			expectTitle:    "Papercast - Paper Missing",
			expectMessage:  "Paper p1 no longer exists on the backend; the pipeline was reset to the upload step",
			expectTags:     "papercast,paper,missing",
			expectPriority: "high",
		},
		{
			name:           "error",
			notify:         func() error { return svc.NotifyError(ctx, errors.New("500 from backend"), "script generation") },
			expectTitle:    "Papercast - Error",
			expectMessage:  "Error with script generation: 500 from backend",
			expectTags:     "papercast,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got = got[:0]
			if err := tc.notify(); err != nil {
				t.Fatalf("notify: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("captured %d requests, want 1", len(got))
			}
			entry := got[0]
			if entry.title != tc.expectTitle {
				t.Errorf("title = %q, want %q", entry.title, tc.expectTitle)
			}
			if entry.message != tc.expectMessage {
				t.Errorf("message = %q, want %q", entry.message, tc.expectMessage)
			}
			if entry.tags != tc.expectTags {
				t.Errorf("tags = %q, want %q", entry.tags, tc.expectTags)
			}
			if entry.priority != tc.expectPriority {
				t.Errorf("priority = %q, want %q", entry.priority, tc.expectPriority)
			}
		})
	}
}

func TestMilestonesAreSkippedWhenDisabled(t *testing.T) {
	var got []captured
	server := newCapturingServer(t, &got)
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Milestones = false
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyScriptsGenerated(context.Background(), "T"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("captured %d requests, want 0 with milestones disabled", len(got))
	}

	// Referential failures are not a milestone; they always go out.
	if err := svc.NotifyPaperMissing(context.Background(), "p1"); err != nil {
		t.Fatalf("notify missing: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("captured %d requests, want 1", len(got))
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
