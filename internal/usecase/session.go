package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/domain/service"
	"homepedia-map/internal/logger"
)

// loadTimeout bounds one background load. Cancellation stays advisory:
// requests already in flight run to completion and stale results are
// discarded on arrival, never aborted mid-transfer.
const loadTimeout = 30 * time.Second

// MapSession is one client's live map: its navigation state, the last loaded
// geometry and statistics, and a debounced viewport culler. Loads run in the
// background tagged with the navigation key they were issued for; a result
// whose key no longer matches the current state is dropped, so the last
// navigation always wins regardless of response ordering.
type MapSession struct {
	ID string

	uc  *MapViewUseCase
	log *slog.Logger

	mu       sync.Mutex
	nav      model.NavigationState
	loadKey  string
	res      *loadResult
	loading  bool
	bound    *orb.Bound
	lastFly  *FlyTo
	culler   *service.Culler
	closed   bool
	loadDone chan string
}

// NewMapSession creates a session and starts loading the initial state.
func NewMapSession(uc *MapViewUseCase, nav model.NavigationState) *MapSession {
	s := &MapSession{
		ID:  uuid.NewString(),
		uc:  uc,
		res: &loadResult{reputations: map[string]model.ReputationRecord{}},
	}
	s.log = logger.L().With("session", s.ID)
	s.culler = service.NewCuller(nil)
	s.Navigate(nav)
	return s
}

// Navigate replaces the navigation state and schedules a background load for
// it. Any load still in flight for a previous state becomes stale.
func (s *MapSession) Navigate(nav model.NavigationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.navigateLocked(nav)
}

// navigateLocked installs nav and schedules its load. Caller holds s.mu.
func (s *MapSession) navigateLocked(nav model.NavigationState) {
	s.nav = nav
	s.loadKey = nav.GeometryKey()
	s.loading = true
	go s.runLoad(nav, s.loadKey)
}

// runLoad fetches nav's data and applies it if still relevant.
func (s *MapSession) runLoad(nav model.NavigationState, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	res := s.uc.load(ctx, nav)
	s.apply(key, res)
}

// apply installs a load result unless its key was superseded while the fetch
// was in flight.
func (s *MapSession) apply(key string, res *loadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if key != s.loadKey {
		s.log.Debug("réponse obsolète ignorée", "key", key, "current", s.loadKey)
		s.notifyLoadedLocked(key)
		return
	}
	s.res = res
	s.loading = false

	var tracked []model.Shape
	tracked = append(tracked, res.children...)
	if !s.nav.Niveau.HasChildren() {
		tracked = append(tracked, res.shapes...)
	}
	s.culler.SetShapes(tracked)
	s.notifyLoadedLocked(key)
}

// notifyLoadedLocked signals a completed load to a test hook, if installed.
func (s *MapSession) notifyLoadedLocked(key string) {
	if s.loadDone != nil {
		select {
		case s.loadDone <- key:
		default:
		}
	}
}

// Drill confirms the pending drill target. It is a no-op without a target or
// at the terminal commune level. The transition is computed and installed in
// one critical section so a concurrent Select cannot slip in between.
func (s *MapSession) Drill() model.NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.nav.Drill()
	if next != s.nav && !s.closed {
		s.navigateLocked(next)
	}
	return next
}

// Select toggles the drill target. A pure state change: no reload needed.
func (s *MapSession) Select(code string) model.NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = s.nav.ToggleSelection(code)
	return s.nav
}

// ViewportChanged records a move or zoom end event. Recomputation of the
// visible set is debounced inside the culler.
func (s *MapSession) ViewportChanged(bound orb.Bound) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.bound = &bound
	s.mu.Unlock()
	s.culler.ViewportChanged(bound)
}

// Nav returns the current navigation state.
func (s *MapSession) Nav() model.NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav
}

// Frame renders the current session state. The fly-to of each frame is
// remembered so an unchanged viewport target is not re-emitted.
func (s *MapSession) Frame() *MapFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bound *orb.Bound
	if s.bound != nil {
		b := *s.bound
		bound = &b
	}
	frame := s.uc.render(s.nav, s.res, bound, s.lastFly)
	if frame.FlyTo != nil {
		fly := *frame.FlyTo
		s.lastFly = &fly
	}
	frame.Shapes.Loading = s.loading
	frame.Children.Loading = s.loading && s.nav.Niveau.HasChildren()
	frame.Reputations.Loading = s.loading && s.nav.TypeDataDisplay == model.DisplayReputation
	frame.Breadcrumbs.Loading = s.loading && s.nav.Code != ""
	return frame
}

// VisibleCodes returns the culler's last debounced visible set.
func (s *MapSession) VisibleCodes() map[string]struct{} {
	return s.culler.Visible()
}

// Close tears the session down, cancelling the culler's pending timers.
// In-flight loads finish but their results are dropped.
func (s *MapSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.culler.Close()
}

// SessionManager owns the live sessions.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*MapSession
	uc       *MapViewUseCase
}

// NewSessionManager builds an empty manager.
func NewSessionManager(uc *MapViewUseCase) *SessionManager {
	return &SessionManager{sessions: make(map[string]*MapSession), uc: uc}
}

// Create opens a session at the given navigation state.
func (m *SessionManager) Create(nav model.NavigationState) *MapSession {
	s := NewMapSession(m.uc, nav)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks a session up by id.
func (m *SessionManager) Get(id string) (*MapSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete closes and removes a session.
func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}
