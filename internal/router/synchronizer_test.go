package router_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"papercast/internal/logging"
	"papercast/internal/router"
	"papercast/internal/workflow"
)

type missingSpy struct {
	mu     sync.Mutex
	papers []string
}

func (s *missingSpy) NotifyPaperMissing(_ context.Context, paperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.papers = append(s.papers, paperID)
	return nil
}

func (s *missingSpy) notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.papers...)
}

func (s *missingSpy) NotifyPaperIngested(context.Context, string) error    { return nil }
func (s *missingSpy) NotifyScriptsGenerated(context.Context, string) error { return nil }
func (s *missingSpy) NotifySlidesGenerated(context.Context, string) error  { return nil }
func (s *missingSpy) NotifyMediaReady(context.Context, string) error       { return nil }
func (s *missingSpy) NotifyVideoCompleted(context.Context, string) error   { return nil }
func (s *missingSpy) NotifyError(context.Context, error, string) error     { return nil }
func (s *missingSpy) TestNotification(context.Context) error               { return nil }

func newSynchronizer(t *testing.T, opts ...router.SyncOption) (*workflow.Machine, *router.MemoryLocation, *router.Synchronizer) {
	t.Helper()
	machine := workflow.NewMachine(logging.NewNop())
	location := router.NewMemoryLocation("/")
	base := []router.SyncOption{
		router.WithSyncLogger(logging.NewNop()),
		router.WithSettleDelay(0),
	}
	syncer := router.NewSynchronizer(machine, location, append(base, opts...)...)
	t.Cleanup(syncer.Stop)
	return machine, location, syncer
}

func TestPathMappingRoundTrips(t *testing.T) {
	steps := append([]workflow.Step{workflow.StepLanding}, workflow.AllSteps()...)
	for _, step := range steps {
		path := router.PathForStep(step)
		back, ok := router.StepForPath(path)
		if !ok || back != step {
			t.Fatalf("step %v -> %q -> (%v, %v)", step, path, back, ok)
		}
	}
	if _, ok := router.StepForPath("/nope"); ok {
		t.Fatal("unknown path mapped to a step")
	}
	if got := router.PathForStep(workflow.Step(42)); got != "/" {
		t.Fatalf("unknown step path = %q", got)
	}
}

func TestAutomaticProgressDrivesLocation(t *testing.T) {
	machine, location, syncer := newSynchronizer(t)

	machine.ProgressToNextStep()
	syncer.SyncStateToLocation()

	if got := location.Current(); got != "/api-setup" {
		t.Fatalf("location = %q, want /api-setup", got)
	}
	// Settle delay of zero returns routing to manual immediately.
	if got := machine.Snapshot().Routing; got != workflow.RoutingManual {
		t.Fatalf("routing = %q, want manual after settle", got)
	}
}

func TestManualRoutingLeavesLocationAlone(t *testing.T) {
	machine, location, syncer := newSynchronizer(t)

	machine.SetStep(workflow.StepResults)
	syncer.SyncStateToLocation()

	if got := location.Current(); got != "/" {
		t.Fatalf("location = %q, manual routing must not navigate", got)
	}
}

func TestDirectNavigationMovesMachine(t *testing.T) {
	machine, location, syncer := newSynchronizer(t)

	location.Replace("/slide-creation")
	syncer.OnLocationChanged(location.Current())

	state := machine.Snapshot()
	if state.CurrentStep != workflow.StepSlideCreation {
		t.Fatalf("step = %v, want slide-creation", state.CurrentStep)
	}
	if state.StepCompleted(workflow.StepPaperUpload) {
		t.Fatal("direct navigation marked a skipped step completed")
	}
}

func TestRootPathAlwaysForcesLanding(t *testing.T) {
	machine, location, syncer := newSynchronizer(t)

	machine.SetStep(workflow.StepMediaGeneration)
	machine.EnableAutoProgress()
	location.Replace("/")
	syncer.OnLocationChanged("/")

	if got := machine.Snapshot().CurrentStep; got != workflow.StepLanding {
		t.Fatalf("step = %v, root path must force landing even in auto routing", got)
	}
}

func TestLocationChangeIgnoredDuringAutoRouting(t *testing.T) {
	machine, _, syncer := newSynchronizer(t, router.WithSettleDelay(time.Hour))

	machine.ProgressToNextStep()
	syncer.SyncStateToLocation()
	syncer.OnLocationChanged("/results")

	if got := machine.Snapshot().CurrentStep; got != workflow.StepAPISetup {
		t.Fatalf("step = %v, auto routing must not be fought by location events", got)
	}
}

func TestUnknownPathIgnored(t *testing.T) {
	machine, _, syncer := newSynchronizer(t)

	machine.SetStep(workflow.StepResults)
	syncer.OnLocationChanged("/definitely-not-a-step")

	if got := machine.Snapshot().CurrentStep; got != workflow.StepResults {
		t.Fatalf("step = %v, unknown paths must not move the machine", got)
	}
}

func TestSettleDelayCoalescesBeforeManual(t *testing.T) {
	machine, location, syncer := newSynchronizer(t, router.WithSettleDelay(10*time.Millisecond))

	machine.ProgressToNextStep()
	syncer.SyncStateToLocation()
	machine.ProgressToNextStep()
	syncer.SyncStateToLocation()

	if got := location.Current(); got != "/paper-upload" {
		t.Fatalf("location = %q, want /paper-upload", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if machine.Snapshot().Routing == workflow.RoutingManual {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("routing never settled back to manual")
}

func TestRedirectToLoginGuardsAgainstLoops(t *testing.T) {
	_, location, syncer := newSynchronizer(t)

	syncer.RedirectToLogin()
	if got := location.Current(); got != "/login" {
		t.Fatalf("location = %q, want /login", got)
	}

	// Already on login: nothing to do, no loop.
	syncer.RedirectToLogin()
	if got := location.Current(); got != "/login" {
		t.Fatalf("location = %q after second redirect", got)
	}
}

func TestRecoverMissingPaperRoutesToUpload(t *testing.T) {
	spy := &missingSpy{}
	machine, location, syncer := newSynchronizer(t, router.WithSyncNotifier(spy))

	machine.SetStep(workflow.StepSlideCreation)
	machine.SetPaperID("p1")
	machine.SetImages([]string{"a.png"})
	location.Replace("/slide-creation")

	syncer.RecoverMissingPaper(context.Background(), "p1")

	state := machine.Snapshot()
	if state.PaperID != "" || len(state.Images) != 0 {
		t.Fatalf("paper state survived recovery: %+v", state)
	}
	if state.CurrentStep != workflow.StepPaperUpload {
		t.Fatalf("step = %v, want paper-upload", state.CurrentStep)
	}
	if got := location.Current(); got != "/paper-upload" {
		t.Fatalf("location = %q, want /paper-upload", got)
	}

	syncer.RecoverMissingPaper(context.Background(), "p1")
	if got := spy.notices(); len(got) != 1 || got[0] != "p1" {
		t.Fatalf("notices = %v, want exactly one for p1", got)
	}
}

func TestRecoverMissingPaperOnEntryPathStaysPut(t *testing.T) {
	spy := &missingSpy{}
	machine, location, syncer := newSynchronizer(t, router.WithSyncNotifier(spy))

	machine.SetPaperID("p2")

	syncer.RecoverMissingPaper(context.Background(), "p2")

	if got := machine.Snapshot().CurrentStep; got != workflow.StepLanding {
		t.Fatalf("step = %v, entry path must not be yanked to upload", got)
	}
	if got := location.Current(); got != "/" {
		t.Fatalf("location = %q, want /", got)
	}
	if got := spy.notices(); len(got) != 1 {
		t.Fatalf("notices = %v, recovery still informs the user", got)
	}
}
