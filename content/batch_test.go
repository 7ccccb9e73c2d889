package content

import (
	"context"
	"testing"
)

func TestBatch(t *testing.T) {
	repo, c := newFakeRepo(t)
	oldSHA := repo.seed("assets/data/old.json", []byte("{}"))
	repo.seed("assets/data/keep.json", []byte("{}"))

	changes := []Change{
		{Path: "assets/data/new.json", Content: []byte(`{"a":1}`), Action: ActionCreate},
		{Path: "assets/data/keep.json", Content: []byte(`{}`), SHA: "stale", Action: ActionUpdate},
		{Path: "assets/images/large/x.jpg", Content: []byte{0xff, 0xd8}, Action: ActionUpload},
		{Path: "assets/data/old.json", SHA: oldSHA, Action: ActionDelete},
		{Path: "assets/data/odd.json", Action: "rename"},
	}

	results := Batch(context.Background(), c, changes, "batch")
	if len(results) != len(changes) {
		t.Fatalf("results = %d, want %d", len(results), len(changes))
	}

	wantOK := []bool{true, false, true, true, false}
	for i, r := range results {
		if r.OK != wantOK[i] {
			t.Errorf("result %d (%s) ok = %v, want %v: %v", i, r.Path, r.OK, wantOK[i], r.Err)
		}
	}
	if n := len(Failed(results)); n != 2 {
		t.Errorf("Failed() = %d, want 2", n)
	}

	// One commit per successful change, all with the same message
	msgs := repo.messages()
	if len(msgs) != 3 {
		t.Fatalf("commits = %d, want 3", len(msgs))
	}
	for _, m := range msgs {
		if m != "batch" {
			t.Errorf("commit message = %q, want batch", m)
		}
	}
}

func TestBatchCancelled(t *testing.T) {
	_, c := newFakeRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Batch(ctx, c, []Change{{Path: "a.json", Action: ActionCreate}}, "m")
	if results[0].OK || results[0].Err == nil {
		t.Errorf("result = %+v, want cancelled", results[0])
	}
}
