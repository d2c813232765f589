// Package state holds the application's in-memory read cache and the action
// layer that mediates every UI read and write through the gateway.
package state

import (
	"context"

	"github.com/assistravel/casedesk/internal/cache"
	"github.com/assistravel/casedesk/internal/domain"
	"github.com/assistravel/casedesk/internal/metrics"
	"github.com/assistravel/casedesk/internal/store"
	"github.com/assistravel/casedesk/pkg/logger"
)

// Session is the signed-in user, when one is known. The field set is closed;
// obtaining a session is outside this layer's scope.
type Session struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AppStore is the single application state object. It is constructed once at
// startup and handed to the HTTP layer; there are no package-level globals.
//
// The store is not synchronized: actions are expected to run on a single
// logical UI thread. Overlapping calls against the same id are not
// serialized and the cache reflects whichever response lands last. That gap
// is deliberate.
type AppStore struct {
	gateway      store.Gateway
	metricsCache cache.Cache
	log          *logger.Logger

	Cases          []domain.Case
	Correspondents []domain.Correspondent
	Metrics        *metrics.Snapshot
	Loading        bool
	Err            string
	SidebarOpen    bool
	Session        *Session
}

func New(gw store.Gateway, mc cache.Cache, log *logger.Logger) *AppStore {
	return &AppStore{
		gateway:      gw,
		metricsCache: mc,
		log:          log,
	}
}

// begin starts the shared action protocol: loading on, stale error cleared.
func (s *AppStore) begin() {
	s.Loading = true
	s.Err = ""
}

// fail records the failure in the error flag and also returns it, so callers
// that need a blocking signal have their own channel. Collections are left
// untouched.
func (s *AppStore) fail(err error) error {
	s.log.Error("store action failed", "error", err)
	s.Err = err.Error()
	s.Loading = false
	return err
}

func (s *AppStore) done() {
	s.Loading = false
}

// FetchCases replaces the whole case collection from the store.
func (s *AppStore) FetchCases(ctx context.Context) error {
	s.begin()
	cases, err := s.gateway.ListCases(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.Cases = cases
	s.done()
	return nil
}

// CreateCase inserts through the gateway and prepends the result, keeping
// the newest-first ordering of the collection.
func (s *AppStore) CreateCase(ctx context.Context, in *domain.CaseInput) error {
	s.begin()
	created, err := s.gateway.CreateCase(ctx, in)
	if err != nil {
		return s.fail(err)
	}
	s.Cases = append([]domain.Case{*created}, s.Cases...)
	s.metricsCache.Invalidate()
	s.done()
	return nil
}

// UpdateCase replaces the entity with the matching id in place, preserving
// collection order.
func (s *AppStore) UpdateCase(ctx context.Context, id uint, in *domain.CaseInput) error {
	s.begin()
	updated, err := s.gateway.UpdateCase(ctx, id, in)
	if err != nil {
		return s.fail(err)
	}
	for i := range s.Cases {
		if s.Cases[i].ID == id {
			s.Cases[i] = *updated
			break
		}
	}
	s.metricsCache.Invalidate()
	s.done()
	return nil
}

// DeleteCase removes the entity with the matching id from the collection.
func (s *AppStore) DeleteCase(ctx context.Context, id uint) error {
	s.begin()
	if err := s.gateway.DeleteCase(ctx, id); err != nil {
		return s.fail(err)
	}
	kept := s.Cases[:0]
	for _, c := range s.Cases {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.Cases = kept
	s.metricsCache.Invalidate()
	s.done()
	return nil
}

// FetchCorrespondents replaces the whole correspondent collection.
func (s *AppStore) FetchCorrespondents(ctx context.Context) error {
	s.begin()
	correspondents, err := s.gateway.ListCorrespondents(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.Correspondents = correspondents
	s.done()
	return nil
}

// CreateCorrespondent appends the new entity to the collection.
func (s *AppStore) CreateCorrespondent(ctx context.Context, in *domain.CorrespondentInput) error {
	s.begin()
	created, err := s.gateway.CreateCorrespondent(ctx, in)
	if err != nil {
		return s.fail(err)
	}
	s.Correspondents = append(s.Correspondents, *created)
	s.metricsCache.Invalidate()
	s.done()
	return nil
}

func (s *AppStore) UpdateCorrespondent(ctx context.Context, id uint, in *domain.CorrespondentInput) error {
	s.begin()
	updated, err := s.gateway.UpdateCorrespondent(ctx, id, in)
	if err != nil {
		return s.fail(err)
	}
	for i := range s.Correspondents {
		if s.Correspondents[i].ID == id {
			s.Correspondents[i] = *updated
			break
		}
	}
	s.metricsCache.Invalidate()
	s.done()
	return nil
}

func (s *AppStore) DeleteCorrespondent(ctx context.Context, id uint) error {
	s.begin()
	if err := s.gateway.DeleteCorrespondent(ctx, id); err != nil {
		return s.fail(err)
	}
	kept := s.Correspondents[:0]
	for _, c := range s.Correspondents {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.Correspondents = kept
	s.metricsCache.Invalidate()
	s.done()
	return nil
}

// FetchMetrics recomputes the dashboard snapshot with the decomposed
// strategy, independently of the entity cache. The computed snapshot is kept
// until the next mutation invalidates it. The underlying reads are not a
// consistent snapshot of the store; metrics are best-effort.
func (s *AppStore) FetchMetrics(ctx context.Context) error {
	if snap, ok := s.metricsCache.Get(); ok {
		s.Metrics = snap
		return nil
	}

	s.begin()
	raw, err := s.gateway.ReadMetricsRaw(ctx)
	if err != nil {
		return s.fail(err)
	}
	snap := metrics.ComputeFromRaw(raw)
	s.Metrics = &snap
	s.metricsCache.Set(&snap)
	s.done()
	return nil
}

// SetSidebarOpen toggles the UI-only sidebar flag.
func (s *AppStore) SetSidebarOpen(open bool) {
	s.SidebarOpen = open
}

// SetSession records the signed-in user; nil clears it.
func (s *AppStore) SetSession(sess *Session) {
	s.Session = sess
}
