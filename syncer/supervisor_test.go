package syncer

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func waitIdle(t *testing.T, sup *Supervisor) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !sup.Status().Running {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("supervisor still running")
}

func TestSupervisorSingleSlot(t *testing.T) {
	sup := NewSupervisor()
	started := make(chan struct{})
	release := make(chan struct{})

	if err := sup.Trigger("first", func() error {
		close(started)
		<-release
		return nil
	}); err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	<-started

	if err := sup.Run("second", func() error { return nil }); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("concurrent run not dropped: %v", err)
	}
	if err := sup.Trigger("third", func() error { return nil }); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("concurrent trigger not dropped: %v", err)
	}
	if status := sup.Status(); !status.Running || status.Name != "first" {
		t.Fatalf("status should show the active run: %+v", status)
	}

	close(release)
	waitIdle(t, sup)

	status := sup.Status()
	if status.LastName != "first" || status.LastErr != "" {
		t.Fatalf("finished run not recorded: %+v", status)
	}

	if err := sup.Run("second", func() error { return nil }); err != nil {
		t.Fatalf("slot not released: %v", err)
	}
}

func TestSupervisorRecordsFailure(t *testing.T) {
	sup := NewSupervisor()
	wantErr := fmt.Errorf("pass exploded")
	if err := sup.Run("failing", func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("run error not propagated: %v", err)
	}
	status := sup.Status()
	if status.Running || status.LastErr != "pass exploded" {
		t.Fatalf("failure not recorded: %+v", status)
	}
}
