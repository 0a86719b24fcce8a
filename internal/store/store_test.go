package store

import (
	"errors"
	"testing"

	"storystudio/internal/book"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestLoginDerivesLowercaseID(t *testing.T) {
	s := newTestStore(t)

	u, err := s.Login("Ana.Autora@Example.COM")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if u.ID != "ana.autora@example.com" {
		t.Errorf("user id: got %q, want lowercased email", u.ID)
	}
	if u.Plan != PlanFree {
		t.Errorf("default plan: got %q, want free", u.Plan)
	}
	if !s.IsAuthenticated() {
		t.Error("store should be authenticated after login")
	}
}

func TestLoginKeepsExistingPlan(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Login("ana@example.com"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := s.SelectPlan(PlanArchitect); err != nil {
		t.Fatalf("SelectPlan failed: %v", err)
	}

	u, err := s.Login("ana@example.com")
	if err != nil {
		t.Fatalf("re-login failed: %v", err)
	}
	if u.Plan != PlanArchitect {
		t.Errorf("plan after re-login: got %q, want architect", u.Plan)
	}
}

func TestSelectPlanWithoutUser(t *testing.T) {
	s := newTestStore(t)
	if err := s.SelectPlan(PlanMaster); !errors.Is(err, ErrNoActiveUser) {
		t.Errorf("expected ErrNoActiveUser, got %v", err)
	}
	if err := func() error {
		_, lerr := s.Login("ana@example.com")
		if lerr != nil {
			return lerr
		}
		return s.SelectPlan(Plan("platinum"))
	}(); !errors.Is(err, ErrInvalidPlan) {
		t.Errorf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestLogoutClearsCollection(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Login("ana@example.com")

	if err := s.Add(book.NewDraft("história")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	s.Logout()
	if s.IsAuthenticated() {
		t.Error("store still authenticated after logout")
	}
	if len(s.Books()) != 0 {
		t.Error("in-memory collection not cleared on logout")
	}
}

func TestCollectionRoundTripThroughStore(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_, _ = s.Login("ana@example.com")

	draft := book.NewDraft("história")
	draft.Title = "O Reino de Vidro"
	draft.AppendChapter(book.Chapter{Title: "Começo", Content: "Era uma vez..."})
	if err := s.Add(draft); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	s.Logout()

	// A fresh store over the same directory simulates a reload.
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	_, _ = s2.Login("ana@example.com")

	books := s2.Books()
	if len(books) != 1 {
		t.Fatalf("restored collection length: got %d, want 1", len(books))
	}
	if books[0].Title != "O Reino de Vidro" {
		t.Errorf("restored title: %q", books[0].Title)
	}
	if len(books[0].Chapters) != 1 || books[0].Chapters[0].Content != "Era uma vez..." {
		t.Errorf("restored chapters mismatch: %+v", books[0].Chapters)
	}
}

func TestUserSwitchDoesNotLeakBooks(t *testing.T) {
	s := newTestStore(t)

	_, _ = s.Login("ana@example.com")
	if err := s.Add(book.NewDraft("segredo da Ana")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// User B has no stored books: the collection must be empty, not Ana's.
	_, _ = s.Login("beto@example.com")
	if got := len(s.Books()); got != 0 {
		t.Fatalf("user B sees %d foreign books", got)
	}

	// And Ana's books come back when she returns.
	_, _ = s.Login("ana@example.com")
	if got := len(s.Books()); got != 1 {
		t.Errorf("Ana's collection length after switch back: got %d, want 1", got)
	}
}

func TestSaveRefusedWithoutUser(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(); !errors.Is(err, ErrNoActiveUser) {
		t.Errorf("expected ErrNoActiveUser, got %v", err)
	}
}

func TestUpdateReplacesByID(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Login("ana@example.com")

	b := book.NewDraft("ideia")
	_ = s.Add(b)

	changed := *b
	changed.Title = "Título Novo"
	if err := s.Update(&changed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := s.Books()[0].Title; got != "Título Novo" {
		t.Errorf("update not applied: %q", got)
	}

	stranger := book.NewDraft("outra")
	if err := s.Update(stranger); !errors.Is(err, ErrUnknownBook) {
		t.Errorf("expected ErrUnknownBook, got %v", err)
	}
}

func TestImportAllReplacesCollection(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Login("ana@example.com")
	_ = s.Add(book.NewDraft("antiga"))

	imported := []*book.Book{book.NewDraft("nova 1"), book.NewDraft("nova 2")}
	if err := s.ImportAll(imported); err != nil {
		t.Fatalf("ImportAll failed: %v", err)
	}
	if got := len(s.Books()); got != 2 {
		t.Errorf("collection length after import: got %d, want 2", got)
	}
}

func TestActiveBookResolution(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Login("ana@example.com")

	b := book.NewDraft("ideia")
	_ = s.Add(b)

	s.Select(b.ID)
	if got := s.ActiveBook(); got == nil || got.ID != b.ID {
		t.Fatal("active book not resolved")
	}

	// Replacing the collection invalidates a dangling selection.
	_ = s.ImportAll([]*book.Book{book.NewDraft("outra")})
	if s.ActiveBook() != nil {
		t.Error("dangling selection should resolve to nil")
	}

	s.Select(b.ID)
	s.ClearActive()
	if s.ActiveBook() != nil {
		t.Error("selection should be cleared")
	}
}

func TestPendingPlanMarker(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.TakePendingPlan(); ok {
		t.Fatal("fresh store should have no pending plan")
	}

	if err := s.SetPendingPlan(PlanWriter); err != nil {
		t.Fatalf("SetPendingPlan failed: %v", err)
	}
	plan, ok := s.TakePendingPlan()
	if !ok || plan != PlanWriter {
		t.Fatalf("TakePendingPlan: got (%q, %v), want (writer, true)", plan, ok)
	}

	// The marker is consumed: a second take yields nothing.
	if _, ok := s.TakePendingPlan(); ok {
		t.Error("pending plan taken twice")
	}

	if err := s.SetPendingPlan(Plan("gold")); !errors.Is(err, ErrInvalidPlan) {
		t.Errorf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestBookStoreNamespaceIsPerUser(t *testing.T) {
	a := bookStoreNamespace("ana@example.com")
	b := bookStoreNamespace("beto@example.com")
	if a == b {
		t.Error("namespaces for different users collide")
	}
	if a != bookStoreNamespace("ana@example.com") {
		t.Error("namespace derivation is not deterministic")
	}
}
