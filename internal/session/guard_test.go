package session

import (
	"net/url"
	"testing"

	"storystudio/internal/book"
	"storystudio/internal/store"
)

func newGuard(t *testing.T) (*Guard, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	if _, err := st.Login("ana@example.com"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return NewGuard(st), st
}

func TestNavigateToEditorWithoutBookFallsBack(t *testing.T) {
	g, _ := newGuard(t)

	if got := g.Navigate(PageEditor); got != PageLibrary {
		t.Errorf("editor without book: got %q, want library", got)
	}
	if got := g.Navigate(PageBookDetail); got != PageLibrary {
		t.Errorf("detail without book: got %q, want library", got)
	}
}

func TestOpenBookThenNavigateAwayClearsSelection(t *testing.T) {
	g, st := newGuard(t)

	b := book.NewDraft("ideia")
	if err := st.Add(b); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if got := g.OpenBook(b.ID); got != PageBookDetail {
		t.Fatalf("OpenBook: got %q, want bookDetail", got)
	}
	if st.ActiveBook() == nil {
		t.Fatal("book not selected")
	}

	g.Navigate(PagePricing)
	if st.ActiveBook() != nil {
		t.Error("selection survived navigation to an unrelated view")
	}

	// Detail after the selection was cleared falls back again.
	if got := g.Navigate(PageBookDetail); got != PageLibrary {
		t.Errorf("detail after clear: got %q, want library", got)
	}
}

func TestReconcileAfterCollectionChange(t *testing.T) {
	g, st := newGuard(t)

	b := book.NewDraft("ideia")
	_ = st.Add(b)
	g.OpenEditor(b.ID)
	if g.Page() != PageEditor {
		t.Fatalf("expected editor, got %q", g.Page())
	}

	// The selected book disappears from the collection.
	if err := st.ImportAll(nil); err != nil {
		t.Fatalf("ImportAll failed: %v", err)
	}
	if got := g.Reconcile(); got != PageLibrary {
		t.Errorf("reconcile after dangling selection: got %q, want library", got)
	}
}

func TestResolvePaymentReturn_AppliesPendingPlan(t *testing.T) {
	g, st := newGuard(t)
	if err := st.SetPendingPlan(store.PlanWriter); err != nil {
		t.Fatalf("SetPendingPlan failed: %v", err)
	}

	query := url.Values{"payment_success": {"true"}, "tab": {"books"}}
	outcome, plan := g.ResolvePaymentReturn(query)
	if outcome != PaymentApplied || plan != store.PlanWriter {
		t.Fatalf("outcome: got (%v, %q), want (PaymentApplied, writer)", outcome, plan)
	}
	if u := st.User(); u == nil || u.Plan != store.PlanWriter {
		t.Error("plan not applied to the active user")
	}
	if query.Get("payment_success") != "" {
		t.Error("payment marker not stripped from query")
	}
	if query.Get("tab") != "books" {
		t.Error("unrelated query parameters must survive")
	}
}

func TestResolvePaymentReturn_ReplayIsIdempotent(t *testing.T) {
	g, st := newGuard(t)
	_ = st.SetPendingPlan(store.PlanMaster)

	first := url.Values{"payment_success": {"true"}}
	if outcome, _ := g.ResolvePaymentReturn(first); outcome != PaymentApplied {
		t.Fatalf("first resolve: got %v, want PaymentApplied", outcome)
	}

	// The user refreshes with the marker still in the URL.
	replay := url.Values{"payment_success": {"true"}}
	outcome, plan := g.ResolvePaymentReturn(replay)
	if outcome != PaymentAcknowledged || plan != "" {
		t.Errorf("replay: got (%v, %q), want (PaymentAcknowledged, \"\")", outcome, plan)
	}
	if u := st.User(); u == nil || u.Plan != store.PlanMaster {
		t.Error("replay changed the applied plan")
	}
}

func TestResolvePaymentReturn_Cancelled(t *testing.T) {
	g, st := newGuard(t)
	_ = st.SetPendingPlan(store.PlanWriter)

	query := url.Values{"payment_cancelled": {"true"}}
	outcome, _ := g.ResolvePaymentReturn(query)
	if outcome != PaymentCancelled {
		t.Fatalf("outcome: got %v, want PaymentCancelled", outcome)
	}
	if query.Get("payment_cancelled") != "" {
		t.Error("cancel marker not stripped")
	}
	if u := st.User(); u.Plan != store.PlanFree {
		t.Error("cancelled checkout must not change the plan")
	}
}

func TestResolvePaymentReturn_NoMarkers(t *testing.T) {
	g, _ := newGuard(t)
	if outcome, _ := g.ResolvePaymentReturn(url.Values{}); outcome != PaymentNone {
		t.Errorf("outcome: got %v, want PaymentNone", outcome)
	}
}
