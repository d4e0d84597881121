package request

import "testing"

func TestSetContentAppendsRevisions(t *testing.T) {
	r := &Request{}

	r.SetContent(ContentFields{TextContent: "school fees in Kilifi", Language: "en"})
	if len(r.Revisions) != 1 {
		t.Fatalf("expected 1 revision, got %d", len(r.Revisions))
	}
	if r.CurrentRevision == nil || *r.CurrentRevision != 0 {
		t.Fatalf("expected current revision 0, got %v", r.CurrentRevision)
	}

	r.SetContent(ContentFields{Topic: "education"})
	if len(r.Revisions) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(r.Revisions))
	}
	if *r.CurrentRevision != 1 {
		t.Fatalf("expected current revision 1, got %d", *r.CurrentRevision)
	}

	// Fields absent from the call are carried forward from the active revision.
	cur := r.Content()
	if cur.TextContent != "school fees in Kilifi" {
		t.Errorf("expected text carried forward, got %q", cur.TextContent)
	}
	if cur.Language != "en" {
		t.Errorf("expected language carried forward, got %q", cur.Language)
	}
	if cur.Topic != "education" {
		t.Errorf("expected topic set, got %q", cur.Topic)
	}

	// Earlier revisions are never mutated.
	if r.Revisions[0].Topic != "" {
		t.Errorf("expected first revision untouched, got topic %q", r.Revisions[0].Topic)
	}
}

func TestSetContentEmptyIsNoOp(t *testing.T) {
	r := &Request{}
	r.SetContent(ContentFields{})
	if len(r.Revisions) != 0 || r.CurrentRevision != nil || r.Edited != nil {
		t.Fatal("expected empty SetContent to change nothing")
	}
}

func TestRevertMovesPointerWithoutDroppingHistory(t *testing.T) {
	r := &Request{}
	r.SetContent(ContentFields{TextContent: "first"})
	r.SetContent(ContentFields{TextContent: "second"})
	r.SetContent(ContentFields{TextContent: "third"})

	r.Revert()
	if *r.CurrentRevision != 1 {
		t.Fatalf("expected pointer at 1 after revert, got %d", *r.CurrentRevision)
	}
	if r.TextContent() != "second" {
		t.Fatalf("expected content %q, got %q", "second", r.TextContent())
	}
	if len(r.Revisions) != 3 {
		t.Fatalf("expected history preserved, got %d revisions", len(r.Revisions))
	}

	// Reverting below revision 0 is a no-op.
	r.Revert()
	r.Revert()
	r.Revert()
	if *r.CurrentRevision != 0 {
		t.Fatalf("expected pointer floored at 0, got %d", *r.CurrentRevision)
	}
	if r.TextContent() != "first" {
		t.Fatalf("expected content %q, got %q", "first", r.TextContent())
	}
}

func TestRevertWithoutContentIsNoOp(t *testing.T) {
	r := &Request{}
	r.Revert()
	if r.CurrentRevision != nil {
		t.Fatal("expected nil pointer after revert on empty request")
	}
}

func TestSetContentAfterRevertForksHistory(t *testing.T) {
	r := &Request{}
	r.SetContent(ContentFields{TextContent: "first"})
	r.SetContent(ContentFields{TextContent: "second"})
	r.Revert()

	r.SetContent(ContentFields{Topic: "news"})
	if len(r.Revisions) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(r.Revisions))
	}
	if *r.CurrentRevision != 2 {
		t.Fatalf("expected pointer at 2, got %d", *r.CurrentRevision)
	}
	// Carry-forward comes from the reverted-to revision, not the latest one.
	if r.TextContent() != "first" {
		t.Fatalf("expected text %q, got %q", "first", r.TextContent())
	}
}

func TestSetRevision(t *testing.T) {
	r := &Request{}
	r.SetContent(ContentFields{TextContent: "first"})
	r.SetContent(ContentFields{TextContent: "second"})

	if err := r.SetRevision(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TextContent() != "first" {
		t.Fatalf("expected content %q, got %q", "first", r.TextContent())
	}

	if err := r.SetRevision(2); err != ErrRevisionOutOfRange {
		t.Fatalf("expected ErrRevisionOutOfRange, got %v", err)
	}
	if err := r.SetRevision(-1); err != ErrRevisionOutOfRange {
		t.Fatalf("expected ErrRevisionOutOfRange, got %v", err)
	}
}

func TestContentReturnsCopy(t *testing.T) {
	r := &Request{}
	r.SetContent(ContentFields{TextContent: "original"})

	cur := r.Content()
	cur.TextContent = "mutated"
	if r.TextContent() != "original" {
		t.Fatal("expected Content to return a copy, stored revision was mutated")
	}
}

func TestContentOnEmptyRequest(t *testing.T) {
	r := &Request{}
	if r.Content() != nil {
		t.Fatal("expected nil content for request without revisions")
	}
	if r.TextContent() != "" || r.Topic() != "" {
		t.Fatal("expected empty derived fields for request without revisions")
	}
}
