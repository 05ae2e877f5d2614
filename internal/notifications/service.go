package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"papercast/internal/config"
)

const userAgent = "Papercast/0.1.0"

// Service defines the user-facing notice surface. Errors surfaced by the
// API layer and pipeline milestones both arrive here; implementations must
// tolerate being called from any goroutine.
type Service interface {
	NotifyPaperIngested(ctx context.Context, title string) error
	NotifyScriptsGenerated(ctx context.Context, title string) error
	NotifySlidesGenerated(ctx context.Context, title string) error
	NotifyMediaReady(ctx context.Context, title string) error
	NotifyVideoCompleted(ctx context.Context, title string) error
	NotifyPaperMissing(ctx context.Context, paperID string) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notice service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		errors:     cfg.Notifications.Errors,
		milestones: cfg.Notifications.Milestones,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	errors     bool
	milestones bool
}

func (n *ntfyService) NotifyPaperIngested(ctx context.Context, title string) error {
	if !n.milestones {
		return nil
	}
	data := payload{
		title:   "Papercast - Paper Ingested",
		message: fmt.Sprintf("Paper ingested: %s", strings.TrimSpace(title)),
		tags:    []string{"papercast", "paper", "ingested"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyScriptsGenerated(ctx context.Context, title string) error {
	if !n.milestones {
		return nil
	}
	data := payload{
		title:   "Papercast - Scripts Ready",
		message: fmt.Sprintf("Narration scripts generated: %s", strings.TrimSpace(title)),
		tags:    []string{"papercast", "scripts", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySlidesGenerated(ctx context.Context, title string) error {
	if !n.milestones {
		return nil
	}
	data := payload{
		title:   "Papercast - Slides Ready",
		message: fmt.Sprintf("Slides generated: %s", strings.TrimSpace(title)),
		tags:    []string{"papercast", "slides", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyMediaReady(ctx context.Context, title string) error {
	if !n.milestones {
		return nil
	}
	data := payload{
		title:   "Papercast - Media Ready",
		message: fmt.Sprintf("Audio and video generation started: %s", strings.TrimSpace(title)),
		tags:    []string{"papercast", "media", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyVideoCompleted(ctx context.Context, title string) error {
	if !n.milestones {
		return nil
	}
	data := payload{
		title:    "Papercast - Video Complete",
		message:  fmt.Sprintf("Ready to watch: %s", strings.TrimSpace(title)),
		tags:     []string{"papercast", "video", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPaperMissing(ctx context.Context, paperID string) error {
	data := payload{
		title:    "Papercast - Paper Missing",
		message:  fmt.Sprintf("Paper %s no longer exists on the backend; the pipeline was reset to the upload step", strings.TrimSpace(paperID)),
		tags:     []string{"papercast", "paper", "missing"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Papercast - Error",
		message:  builder.String(),
		tags:     []string{"papercast", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Papercast - Test",
		message:  "Notification system test",
		tags:     []string{"papercast", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyPaperIngested(context.Context, string) error    { return nil }
func (noopService) NotifyScriptsGenerated(context.Context, string) error { return nil }
func (noopService) NotifySlidesGenerated(context.Context, string) error  { return nil }
func (noopService) NotifyMediaReady(context.Context, string) error       { return nil }
func (noopService) NotifyVideoCompleted(context.Context, string) error   { return nil }
func (noopService) NotifyPaperMissing(context.Context, string) error     { return nil }
func (noopService) NotifyError(context.Context, error, string) error     { return nil }
func (noopService) TestNotification(context.Context) error               { return nil }
