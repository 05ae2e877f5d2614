package router

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"papercast/internal/notifications"
	"papercast/internal/workflow"
)

const defaultSettleDelay = 300 * time.Millisecond

// Synchronizer keeps the workflow machine and the location surface in
// agreement. In automatic routing the machine drives the location; in manual
// routing the location drives the machine. The root path is special: it
// always forces the landing step, regardless of routing mode.
type Synchronizer struct {
	machine   *workflow.Machine
	location  Location
	logger    *slog.Logger
	notifier  notifications.Service
	loginPath string

	settleDelay time.Duration

	mu             sync.Mutex
	settleTimer    *time.Timer
	missingNotices map[string]struct{}
}

// SyncOption customizes the synchronizer.
type SyncOption func(*Synchronizer)

// WithSyncLogger overrides the default logger.
func WithSyncLogger(logger *slog.Logger) SyncOption {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSyncNotifier sets the notice service for missing-paper recovery.
func WithSyncNotifier(notifier notifications.Service) SyncOption {
	return func(s *Synchronizer) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithSettleDelay overrides the debounce applied after automatic
// navigation. A non-positive delay settles synchronously.
func WithSettleDelay(delay time.Duration) SyncOption {
	return func(s *Synchronizer) {
		s.settleDelay = delay
	}
}

// WithLoginPath sets the path auth failures redirect to.
func WithLoginPath(path string) SyncOption {
	return func(s *Synchronizer) {
		if path != "" {
			s.loginPath = normalizePath(path)
		}
	}
}

// NewSynchronizer wires a machine to a location surface.
func NewSynchronizer(machine *workflow.Machine, location Location, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		machine:        machine,
		location:       location,
		logger:         slog.Default(),
		loginPath:      "/login",
		settleDelay:    defaultSettleDelay,
		missingNotices: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncStateToLocation pushes the machine's current step onto the location
// when routing is automatic. After navigating it schedules a debounced
// return to manual routing, so a burst of rapid transitions coalesces into
// one navigation before the location surface takes over again.
func (s *Synchronizer) SyncStateToLocation() {
	state := s.machine.Snapshot()
	if state.Routing != workflow.RoutingAuto {
		return
	}

	target := PathForStep(state.CurrentStep)
	if normalizePath(s.location.Current()) != target {
		s.location.Replace(target)
		s.logger.Debug("location synced to step", "step", state.CurrentStep.String(), "path", target)
	}
	s.scheduleSettle()
}

func (s *Synchronizer) scheduleSettle() {
	if s.settleDelay <= 0 {
		s.machine.DisableAutoProgress()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settleTimer != nil {
		s.settleTimer.Stop()
	}
	s.settleTimer = time.AfterFunc(s.settleDelay, s.machine.DisableAutoProgress)
}

// OnLocationChanged reconciles the machine after the location surface moved
// on its own. The root path always forces the landing step. Any other known
// workflow path moves the machine only when routing is manual, so an
// in-flight automatic navigation is not fought over. Unknown paths are
// ignored.
func (s *Synchronizer) OnLocationChanged(path string) {
	normalized := normalizePath(path)
	if normalized == "/" {
		s.machine.SetStep(workflow.StepLanding)
		return
	}

	step, ok := StepForPath(normalized)
	if !ok {
		s.logger.Debug("ignoring unknown path", "path", normalized)
		return
	}

	state := s.machine.Snapshot()
	if state.Routing == workflow.RoutingAuto {
		return
	}
	if state.CurrentStep != step {
		s.machine.SetStep(step)
	}
}

// RedirectToLogin sends the location to the login path unless it is already
// there. Wired as the client's auth-failure hook.
func (s *Synchronizer) RedirectToLogin() {
	if normalizePath(s.location.Current()) == s.loginPath {
		return
	}
	s.location.Replace(s.loginPath)
	s.logger.Info("redirected to login", "path", s.loginPath)
}

// RecoverMissingPaper clears all paper-scoped state and routes the user back
// to the upload step, unless they are already on an entry path where the
// stale reference cannot mislead them. The notice is sent at most once per
// paper identifier.
func (s *Synchronizer) RecoverMissingPaper(ctx context.Context, paperID string) {
	s.machine.ClearPaperState()

	current := normalizePath(s.location.Current())
	if current != "/" && current != s.loginPath {
		s.machine.SetStep(workflow.StepPaperUpload)
		s.location.Replace(PathForStep(workflow.StepPaperUpload))
	}

	s.mu.Lock()
	_, seen := s.missingNotices[paperID]
	if !seen {
		s.missingNotices[paperID] = struct{}{}
	}
	s.mu.Unlock()
	if seen || s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyPaperMissing(ctx, paperID); err != nil {
		s.logger.Warn("send missing-paper notice", "error", err)
	}
}

// Stop cancels any pending settle timer.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}
}
