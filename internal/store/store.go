package store

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"storystudio/internal/book"
)

const (
	userRecord    = "user.json"
	sessionRecord = "session.json"
)

// Store errors.
var (
	ErrNoActiveUser = errors.New("no active user")
	ErrInvalidPlan  = errors.New("unknown subscription plan")
	ErrUnknownBook  = errors.New("book not in collection")
)

// Store owns the active user record and the in-memory book collection,
// persisting both to a namespaced record store. At most one user is active
// at a time; the loaded collection is always scoped to that user.
type Store struct {
	mu   sync.Mutex
	disk *recordStore

	user     *User
	books    []*book.Book
	activeID string

	lastSaveErr error
}

// sessionState holds short-lived cross-navigation markers, such as the plan
// the user picked before being redirected to the external checkout.
type sessionState struct {
	PendingPlan Plan `json:"pendingPlan,omitempty"`
}

// Open creates a store rooted at dir and restores the persisted user and,
// if one exists, that user's book collection.
func Open(dir string) (*Store, error) {
	disk, err := newRecordStore(dir)
	if err != nil {
		return nil, err
	}

	s := &Store{disk: disk}

	var u User
	found, err := disk.readJSON(userRecord, &u)
	if err != nil {
		// A corrupt user record is recoverable: start signed out.
		log.Warn("failed to restore user record", "err", err)
	} else if found {
		s.user = &u
	}

	s.loadBooksLocked()
	return s, nil
}

// --- User operations ---

// Login activates the user for an email, keeping the persisted plan when
// the same principal was active before, and loads that user's collection.
func (s *Store) Login(email string) (*User, error) {
	return s.activate(email, "Usuário")
}

// SignUp creates and activates a user with a display name.
func (s *Store) SignUp(email, name string) (*User, error) {
	return s.activate(email, name)
}

func (s *Store) activate(email, name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &User{
		ID:    UserID(email),
		Email: email,
		Name:  name,
		Plan:  PlanFree,
	}
	if s.user != nil && s.user.ID == u.ID && IsValidPlan(s.user.Plan) {
		u.Plan = s.user.Plan
	}

	s.user = u
	if err := s.disk.writeJSON(userRecord, u); err != nil {
		s.recordSaveErr(err)
	}

	s.activeID = ""
	s.loadBooksLocked()
	return u, nil
}

// Logout clears the active user record and the in-memory collection, so no
// stale books are visible before the next user's own collection loads.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.disk.remove(userRecord); err != nil {
		s.recordSaveErr(err)
	}
	s.user = nil
	s.books = nil
	s.activeID = ""
}

// SelectPlan updates the active user's subscription tier. Without an active
// user it is a no-op error.
func (s *Store) SelectPlan(plan Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return ErrNoActiveUser
	}
	if !IsValidPlan(plan) {
		return ErrInvalidPlan
	}

	s.user.Plan = plan
	if err := s.disk.writeJSON(userRecord, s.user); err != nil {
		s.recordSaveErr(err)
		return err
	}
	return nil
}

// User returns the active user, or nil when signed out.
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// --- Book operations ---

// Load re-reads the active user's collection from disk. Unauthenticated,
// the in-memory collection is forced empty. An absent record means an empty
// collection, not an error.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadBooksLocked()
}

func (s *Store) loadBooksLocked() {
	if s.user == nil {
		s.books = nil
		return
	}

	var books []*book.Book
	found, err := s.disk.readCompressed(bookStoreNamespace(s.user.ID), &books)
	if err != nil {
		log.Error("failed to load book collection", "user", s.user.ID, "err", err)
		s.books = nil
		return
	}
	if !found {
		s.books = nil
		return
	}
	s.books = books
}

// Save writes the full collection to the user's namespaced record. It
// refuses to write without an active user, so books can never leak to an
// unkeyed slot.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.user == nil {
		return ErrNoActiveUser
	}
	books := s.books
	if books == nil {
		books = []*book.Book{}
	}
	if err := s.disk.writeCompressed(bookStoreNamespace(s.user.ID), books); err != nil {
		s.recordSaveErr(err)
		return err
	}
	s.lastSaveErr = nil
	return nil
}

// Add appends a book to the collection and persists it.
func (s *Store) Add(b *book.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = append(s.books, b)
	return s.saveLocked()
}

// Update replaces the book with the same id and persists the collection.
func (s *Store) Update(b *book.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.books {
		if existing.ID == b.ID {
			s.books[i] = b
			return s.saveLocked()
		}
	}
	return ErrUnknownBook
}

// ImportAll wholesale-replaces the collection and persists it.
func (s *Store) ImportAll(books []*book.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = books
	return s.saveLocked()
}

// Books returns the in-memory collection in order.
func (s *Store) Books() []*book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*book.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Select marks a book id as active. Selection does not affect persistence.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
}

// ClearActive drops the active selection.
func (s *Store) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = ""
}

// ActiveBook resolves the active selection against the current collection.
// A selection that no longer matches a collection member is logically
// absent and resolves to nil.
func (s *Store) ActiveBook() *book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return nil
	}
	for _, b := range s.books {
		if b.ID == s.activeID {
			return b
		}
	}
	return nil
}

// --- Session markers ---

// SetPendingPlan records the plan chosen before redirecting to the external
// checkout, to be reconciled on return.
func (s *Store) SetPendingPlan(plan Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !IsValidPlan(plan) {
		return ErrInvalidPlan
	}
	if err := s.disk.writeJSON(sessionRecord, sessionState{PendingPlan: plan}); err != nil {
		s.recordSaveErr(err)
		return err
	}
	return nil
}

// TakePendingPlan returns the stored pending plan and clears the marker.
// With no marker stored it reports ok=false; taking twice never yields the
// plan twice.
func (s *Store) TakePendingPlan() (Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var state sessionState
	found, err := s.disk.readJSON(sessionRecord, &state)
	if err != nil {
		log.Warn("failed to read session state", "err", err)
		return "", false
	}
	if !found || state.PendingPlan == "" {
		return "", false
	}
	if err := s.disk.remove(sessionRecord); err != nil {
		log.Warn("failed to clear session state", "err", err)
	}
	return state.PendingPlan, true
}

// ClearPendingPlan drops the marker, used when a checkout attempt fails.
func (s *Store) ClearPendingPlan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.disk.remove(sessionRecord); err != nil {
		log.Warn("failed to clear session state", "err", err)
	}
}

// LastSaveErr reports the most recent persistence failure, if the latest
// write did not succeed. In-memory state stays authoritative for the
// session; callers should warn that unsaved changes may be lost on reload.
func (s *Store) LastSaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

func (s *Store) recordSaveErr(err error) {
	s.lastSaveErr = err
	log.Error("persistence write failed; in-memory state not durably saved", "err", err)
}
