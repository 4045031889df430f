package almanac

import (
	"errors"
	"testing"
)

func TestStore(t *testing.T) {
	s := NewStore()

	if snap := s.Snapshot(); snap.Doc != nil || snap.Err != nil {
		t.Fatalf("fresh store snapshot = %+v", snap)
	}

	doc, err := Build(sampleAlmanac, DefaultConverter())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	s.Set(doc, true)
	snap := s.Snapshot()
	if snap.Doc != doc || !snap.FromCache || snap.Err != nil {
		t.Errorf("snapshot after Set = %+v", snap)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}

	// A failed reload replaces the snapshot wholesale; no stale document
	// lingers next to the error.
	loadErr := errors.New("backend down")
	s.SetError(loadErr)
	snap = s.Snapshot()
	if snap.Doc != nil || !errors.Is(snap.Err, loadErr) {
		t.Errorf("snapshot after SetError = %+v", snap)
	}
}
