package session_test

import (
	"context"
	"reflect"
	"testing"

	"papercast/internal/session"
	"papercast/internal/testsupport"
	"papercast/internal/workflow"
)

func seededState(t *testing.T) workflow.State {
	t.Helper()
	machine := workflow.NewMachine(nil)
	machine.SetPaperID("p1")
	machine.SetMetadata(workflow.PatchFrom(workflow.Metadata{Title: "T", Authors: "A", Date: "2024-01-01"}))
	machine.SetScripts(map[workflow.Section]string{
		workflow.SectionIntroduction: "intro script",
		workflow.SectionResults:      "results script",
	})
	machine.SetEditedScript(workflow.SectionResults, "revised results")
	machine.SetBulletPoints(map[workflow.Section][]string{
		workflow.SectionIntroduction: {"one", "two"},
	})
	machine.SetImages([]string{"a.png", "b.png"})
	machine.SetSelectedImage(workflow.SectionIntroduction, "a.png")
	machine.SetSlides([]string{"slide1.png"})
	machine.SetAudioFiles([]string{"intro.mp3"})
	machine.SetVideoPath("final.mp4")
	machine.SetStep(workflow.StepSlideCreation)
	machine.MarkStepCompleted(workflow.StepPaperUpload)
	machine.MarkStepCompleted(workflow.StepScriptGeneration)
	return machine.Snapshot()
}

func TestCreateAndResumeRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	state := seededState(t)

	created, err := store.Create(ctx, "/slide-creation", state)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected session ID to be assigned")
	}
	if created.CurrentPath != "/slide-creation" {
		t.Fatalf("current path = %q", created.CurrentPath)
	}

	fetched, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected session to exist")
	}
	if !reflect.DeepEqual(fetched.State, state) {
		t.Fatalf("resumed state diverged:\n got %#v\nwant %#v", fetched.State, state)
	}
}

func TestTransientFieldsAreNotPersisted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	state := seededState(t)
	state.Loading = true
	state.LastError = "mid-flight failure"

	created, err := store.Create(ctx, "/results", state)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.State.Loading {
		t.Fatal("loading flag survived persistence")
	}
	if fetched.State.LastError != "" {
		t.Fatalf("last error survived persistence: %q", fetched.State.LastError)
	}
}

func TestLatestPrefersMostRecentlySaved(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.NewSession(t, store, "/", workflow.NewMachine(nil).Snapshot())
	second := testsupport.NewSession(t, store, "/api-setup", workflow.NewMachine(nil).Snapshot())

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Fatalf("latest = %#v, want session %s", latest, second.ID)
	}

	state := seededState(t)
	if err := store.Save(ctx, first.ID, "/results", state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	latest, err = store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.ID != first.ID {
		t.Fatalf("latest after save = %#v, want session %s", latest, first.ID)
	}
	if latest.CurrentPath != "/results" {
		t.Fatalf("current path = %q", latest.CurrentPath)
	}
	if latest.State.PaperID != "p1" {
		t.Fatalf("paper id = %q", latest.State.PaperID)
	}
}

func TestDeleteAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	sess := testsupport.NewSession(t, store, "/", workflow.NewMachine(nil).Snapshot())
	testsupport.NewSession(t, store, "/api-setup", workflow.NewMachine(nil).Snapshot())

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	fetched, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched != nil {
		t.Fatal("deleted session still present")
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete of missing session failed: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("sessions after clear = %d, want 0", len(sessions))
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	// Reopening the same database succeeds while versions agree.
	reopened, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened.Close()
}

func TestCorruptStateRowSurfacesDecodeError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	state := workflow.NewMachine(nil).Snapshot()
	state.CurrentStep = workflow.Step(42)

	if _, err := store.Create(ctx, "/", state); err == nil {
		t.Fatal("expected encode-side rejection of unknown step")
	}
}
