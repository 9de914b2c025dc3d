// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package state holds the in-memory session state of the directory client:
// the last fetched user list, the creation draft, the last search result and
// the current notification. All mutation goes through Controller, which
// validates input, calls the directory and reconciles each outcome.
// Observers receive immutable snapshots through Subscribe.
package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/toeirei/userdesk/internal/directory"
	"github.com/toeirei/userdesk/internal/i18n"
	"github.com/toeirei/userdesk/internal/logging"
	"github.com/toeirei/userdesk/internal/model"
	"github.com/toeirei/userdesk/internal/notify"
)

// Audit actions recorded by the controller.
const (
	ActionCreate       = "user.create"
	ActionCreateFailed = "user.create_failed"
	ActionSearch       = "user.search"
)

// Store is the remote directory as seen by the controller.
// *directory.Client satisfies it.
type Store interface {
	ListAll(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, draft model.Draft) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// AuditWriter records operator actions. *audit.Store satisfies it.
type AuditWriter interface {
	LogAction(ctx context.Context, action, details string) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotificationDelay sets how long a notification stays visible.
func WithNotificationDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithClock replaces the clock driving notification expiry.
func WithClock(clock notify.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithAuditWriter records create and search actions to w.
func WithAuditWriter(w AuditWriter) Option {
	return func(c *Controller) { c.audit = w }
}

// WithLogger replaces the package logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Snapshot is a copy of the controller state at one point in time.
type Snapshot struct {
	Users        []model.User
	Draft        model.Draft
	SearchID     string
	SearchResult *model.User
	Notification model.Notification
	// Creating is true while a create request is in flight.
	Creating bool
	// Loaded is true once a list fetch has succeeded.
	Loaded bool
}

// Controller is the single owner of session state.
type Controller struct {
	store  Store
	audit  AuditWriter
	logger *log.Logger
	delay  time.Duration
	clock  notify.Clock
	timer  *notify.Timer

	mu       sync.Mutex
	snap     Snapshot
	noteSeq  uint64
	subs     map[int]func(Snapshot)
	nextSub  int
	disposed bool
}

// New returns a controller backed by store.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: logging.L,
		subs:   map[int]func(Snapshot){},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.timer = notify.NewTimer(c.delay, c.clock)
	return c
}

// NotificationDelay returns the effective notification lifetime.
func (c *Controller) NotificationDelay() time.Duration {
	return c.timer.Delay()
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return func() {}
	}
	c.nextSub++
	id := c.nextSub
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// SetDraft replaces the creation draft.
func (c *Controller) SetDraft(d model.Draft) {
	c.update(func(s *Snapshot) { s.Draft = d })
}

// SetDraftName updates the draft name.
func (c *Controller) SetDraftName(name string) {
	c.update(func(s *Snapshot) { s.Draft.Name = name })
}

// SetDraftEmail updates the draft email.
func (c *Controller) SetDraftEmail(email string) {
	c.update(func(s *Snapshot) { s.Draft.Email = email })
}

// SetSearchID updates the identifier used by Search.
func (c *Controller) SetSearchID(id string) {
	c.update(func(s *Snapshot) { s.SearchID = id })
}

// Start performs the initial list fetch.
func (c *Controller) Start(ctx context.Context) {
	_ = c.Refresh(ctx)
}

// Refresh replaces the user list with a full fetch. A failed fetch leaves the
// list untouched and raises no notification; the error is only logged and
// returned.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.isDisposed() {
		return ErrDisposed
	}
	users, err := c.store.ListAll(ctx)
	if err != nil {
		c.logger.Warn("refreshing user list failed", "err", err)
		return err
	}
	c.update(func(s *Snapshot) {
		s.Users = users
		s.Loaded = true
	})
	return nil
}

// Create validates the draft and submits it. On success the draft is cleared
// and the list is refreshed. The draft is kept on failure.
func (c *Controller) Create(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.snap.Creating {
		c.mu.Unlock()
		return ErrBusy
	}
	draft := c.snap.Draft
	if vErr := validateDraft(draft); vErr != nil {
		c.raiseLocked(model.Failure(vErr.Message))
		c.publishAndUnlock()
		return vErr
	}
	c.snap.Creating = true
	c.publishAndUnlock()

	user, err := c.store.Create(ctx, draft)
	if err != nil {
		c.logger.Debug("create user failed", "err", err)
		c.record(ctx, ActionCreateFailed, fmt.Sprintf("name=%s email=%s reason=%v", draft.Name, draft.Email, err))
		c.update(func(s *Snapshot) {
			s.Creating = false
			c.raiseLocked(model.Failure(failureText(err, "notify.create_failed")))
		})
		return fmt.Errorf("create user: %w", err)
	}

	c.record(ctx, ActionCreate, fmt.Sprintf("id=%s name=%s email=%s", user.ID, user.Name, user.Email))
	c.update(func(s *Snapshot) {
		s.Creating = false
		s.Draft = model.Draft{}
		c.raiseLocked(model.Success(i18n.T("notify.created", user.ID.String())))
	})

	// the list failure stays silent, the create itself succeeded
	_ = c.Refresh(ctx)
	return nil
}

// Search looks up the user named by the search id. A failure clears the
// previous result.
func (c *Controller) Search(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	id := strings.TrimSpace(c.snap.SearchID)
	if id == "" {
		msg := i18n.T("notify.enter_user_id")
		c.raiseLocked(model.Failure(msg))
		c.publishAndUnlock()
		return &ValidationError{Field: "id", Message: msg}
	}
	c.mu.Unlock()

	user, err := c.store.GetByID(ctx, id)
	c.record(ctx, ActionSearch, fmt.Sprintf("id=%s found=%t", id, err == nil))
	if err != nil {
		c.logger.Debug("search user failed", "id", id, "err", err)
		c.update(func(s *Snapshot) {
			s.SearchResult = nil
			c.raiseLocked(model.Failure(failureText(err, "notify.not_found")))
		})
		return fmt.Errorf("search user %q: %w", id, err)
	}

	c.update(func(s *Snapshot) {
		u := user
		s.SearchResult = &u
		c.raiseLocked(model.Success(i18n.T("notify.found")))
	})
	return nil
}

// Notify raises an arbitrary notification, e.g. from the presentation layer.
func (c *Controller) Notify(n model.Notification) {
	c.update(func(*Snapshot) { c.raiseLocked(n) })
}

// Dismiss clears the current notification immediately.
func (c *Controller) Dismiss() {
	c.update(func(s *Snapshot) {
		c.timer.Cancel()
		c.noteSeq++
		s.Notification = model.Notification{}
	})
}

// Dispose cancels the pending expiry and drops all subscribers. Outcomes of
// calls still in flight are ignored afterwards.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	c.timer.Cancel()
	c.subs = map[int]func(Snapshot){}
}

func (c *Controller) isDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// update applies fn under the lock and publishes the result. It is a no-op
// once the controller is disposed.
func (c *Controller) update(fn func(s *Snapshot)) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	fn(&c.snap)
	c.publishAndUnlock()
}

// publishAndUnlock releases c.mu and then calls every subscriber with a
// fresh snapshot. Must be called with c.mu held.
func (c *Controller) publishAndUnlock() {
	snap := c.copyLocked()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// raiseLocked replaces the current notification and restarts its expiry.
func (c *Controller) raiseLocked(n model.Notification) {
	c.noteSeq++
	seq := c.noteSeq
	c.snap.Notification = n
	c.timer.Start(func() { c.expire(seq) })
}

func (c *Controller) expire(seq uint64) {
	c.mu.Lock()
	if c.disposed || seq != c.noteSeq {
		c.mu.Unlock()
		return
	}
	c.snap.Notification = model.Notification{}
	c.publishAndUnlock()
}

func (c *Controller) copyLocked() Snapshot {
	out := c.snap
	if c.snap.Users != nil {
		out.Users = append([]model.User(nil), c.snap.Users...)
	}
	if c.snap.SearchResult != nil {
		u := *c.snap.SearchResult
		out.SearchResult = &u
	}
	return out
}

func (c *Controller) record(ctx context.Context, action, details string) {
	if c.audit == nil {
		return
	}
	if err := c.audit.LogAction(context.WithoutCancel(ctx), action, details); err != nil {
		c.logger.Warn("recording audit action failed", "action", action, "err", err)
	}
}

func validateDraft(d model.Draft) *ValidationError {
	t := d.Trimmed()
	msg := i18n.T("notify.fill_all_fields")
	switch {
	case t.Name == "":
		return &ValidationError{Field: "name", Message: msg}
	case t.Email == "":
		return &ValidationError{Field: "email", Message: msg}
	}
	return nil
}

// failureText picks the operator-facing text for a failed call: the
// service's own message, the unreachable message, or the operation fallback.
func failureText(err error, fallbackID string) string {
	var appErr *directory.ApplicationError
	switch {
	case errors.As(err, &appErr) && appErr.Message != "":
		return appErr.Message
	case directory.IsTransport(err):
		return i18n.T("notify.unreachable")
	default:
		return i18n.T(fallbackID)
	}
}
