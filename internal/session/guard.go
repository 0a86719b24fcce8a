// Package session keeps page-level navigation consistent with entity
// selection and reconciles returns from the external payment checkout.
package session

import (
	"net/url"

	"github.com/charmbracelet/log"

	"storystudio/internal/store"
)

// Page names one of the application's views.
type Page string

// The closed set of pages.
const (
	PageLibrary         Page = "library"
	PageBookDetail      Page = "bookDetail"
	PageEditor          Page = "editor"
	PagePricing         Page = "pricing"
	PageFaq             Page = "faq"
	PageContact         Page = "contact"
	PageSettings        Page = "settings"
	PageCustomerNotices Page = "customerNotices"
)

// RequiresBook reports whether the page cannot render without an active
// book selection.
func (p Page) RequiresBook() bool {
	return p == PageBookDetail || p == PageEditor
}

// Query-string markers appended by the checkout redirect URLs.
const (
	paymentSuccessParam   = "payment_success"
	paymentCancelledParam = "payment_cancelled"
)

// Guard tracks the current page and enforces that detail and editor views
// never render without a selected book.
type Guard struct {
	store *store.Store
	page  Page
}

// NewGuard creates a guard starting on the library view.
func NewGuard(st *store.Store) *Guard {
	return &Guard{store: st, page: PageLibrary}
}

// Page returns the current page after reconciliation.
func (g *Guard) Page() Page { return g.page }

// Navigate moves to a page. Any page that does not need a book clears the
// active selection, so a stale selection never bleeds into an unrelated
// view. The landing page is reconciled before it is reported.
func (g *Guard) Navigate(p Page) Page {
	if !p.RequiresBook() {
		g.store.ClearActive()
	}
	g.page = p
	return g.Reconcile()
}

// OpenBook selects a book and moves to its detail view.
func (g *Guard) OpenBook(id string) Page {
	g.store.Select(id)
	g.page = PageBookDetail
	return g.Reconcile()
}

// OpenEditor selects a book and moves to the full-screen editor.
func (g *Guard) OpenEditor(id string) Page {
	g.store.Select(id)
	g.page = PageEditor
	return g.Reconcile()
}

// Reconcile forces navigation back to the library when the current page
// needs an active book and none resolves. Call it whenever the page or the
// active-book reference changes.
func (g *Guard) Reconcile() Page {
	if g.page.RequiresBook() && g.store.ActiveBook() == nil {
		log.Debug("no active book for page, falling back to library", "page", g.page)
		g.page = PageLibrary
	}
	return g.page
}

// PaymentOutcome classifies a checkout return.
type PaymentOutcome int

const (
	// PaymentNone: the query carried no payment marker.
	PaymentNone PaymentOutcome = iota
	// PaymentApplied: success marker present and a pending plan was applied.
	PaymentApplied
	// PaymentAcknowledged: success marker present but no pending plan was
	// stored (e.g. the marker was already consumed on a previous load).
	PaymentAcknowledged
	// PaymentCancelled: the user backed out of the checkout.
	PaymentCancelled
)

// ResolvePaymentReturn inspects a page-load query string for checkout
// markers. On success with a stored pending plan the plan is applied to the
// active user and the marker consumed; replaying the same URL later
// acknowledges without re-applying anything. The payment parameters are
// deleted from query so the caller can rewrite the URL without them.
func (g *Guard) ResolvePaymentReturn(query url.Values) (PaymentOutcome, store.Plan) {
	if query.Get(paymentSuccessParam) != "" {
		query.Del(paymentSuccessParam)

		plan, ok := g.store.TakePendingPlan()
		if !ok {
			return PaymentAcknowledged, ""
		}
		if err := g.store.SelectPlan(plan); err != nil {
			log.Warn("could not apply paid plan", "plan", plan, "err", err)
			return PaymentAcknowledged, ""
		}
		log.Info("subscription plan applied after checkout", "plan", plan)
		return PaymentApplied, plan
	}

	if query.Get(paymentCancelledParam) != "" {
		query.Del(paymentCancelledParam)
		return PaymentCancelled, ""
	}

	return PaymentNone, ""
}
