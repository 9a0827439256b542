package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"mindgrove/models"
	"mindgrove/utils"

	"github.com/sirupsen/logrus"
)

// Timeouts for the session manager's remote calls. The stats write gets
// a longer window than the generic profile write because it runs right
// after journal-entry creation and is the higher-value write to land.
const (
	profileReadTimeout  = 3 * time.Second
	profileWriteTimeout = 3 * time.Second
	statsWriteTimeout   = 5 * time.Second
	safetyTimeout       = 5 * time.Second
)

// SessionManager is the single source of truth for who is logged in and
// what their profile looks like. It reconciles the eventually-consistent
// remote store with an always-available in-memory view: mutations are
// applied locally first, persisted with a deadline, and never rolled
// back when the remote write fails or times out.
type SessionManager struct {
	auth  AuthProvider
	store ProfileStore
	log   *logrus.Logger

	mu      sync.RWMutex
	user    *models.Profile
	loading bool

	unsubscribe func()
	safetyTimer *time.Timer
}

// NewSessionManager wires the manager to its collaborators. Call Start
// to run the initialization protocol.
func NewSessionManager(auth AuthProvider, store ProfileStore, log *logrus.Logger) *SessionManager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SessionManager{
		auth:    auth,
		store:   store,
		log:     log,
		loading: true,
	}
}

// Start establishes the session state: restores an existing session if
// the provider has one, then subscribes to auth-state changes. A safety
// timer guarantees the loading flag clears within 5 seconds even if
// every downstream call hangs.
func (m *SessionManager) Start(ctx context.Context) {
	m.safetyTimer = time.AfterFunc(safetyTimeout, func() {
		m.log.Warn("session init safety timeout - forcing loading to false")
		m.setLoading(false)
	})

	session, err := m.auth.GetSession(ctx)
	if err != nil {
		m.log.WithError(err).Error("session fetch failed")
	}
	if session != nil {
		m.adoptSession(ctx, session)
	}

	m.setLoading(false)
	m.safetyTimer.Stop()

	m.unsubscribe = m.auth.OnAuthStateChange(func(event string, session *models.Session) {
		if session != nil {
			m.adoptSession(context.Background(), session)
		} else {
			m.setUser(nil)
		}
		m.setLoading(false)
	})
}

// Stop unsubscribes from auth-state changes and cancels pending timers.
func (m *SessionManager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.safetyTimer != nil {
		m.safetyTimer.Stop()
	}
}

// adoptSession loads the session user's profile, falling back to a
// profile synthesized from session data alone when the store has no row
// or does not answer in time.
func (m *SessionManager) adoptSession(ctx context.Context, session *models.Session) {
	profile := m.LoadUserProfile(ctx, session.User.ID)
	if profile == nil {
		profile = fallbackProfile(session.User)
	}
	m.setUser(profile)
}

// LoadUserProfile queries the store with a 3 second deadline. A missing
// row, a timeout, and any other store error all yield nil; none of them
// is fatal to the caller.
func (m *SessionManager) LoadUserProfile(ctx context.Context, userID string) *models.Profile {
	loadCtx, cancel := context.WithTimeout(ctx, profileReadTimeout)
	defer cancel()

	profile, err := m.store.GetProfile(loadCtx, userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			m.log.WithError(err).Error("profile load failed")
		}
		return nil
	}

	normalizeProfile(profile)
	return profile
}

// Register signs the user up with the identity provider and creates the
// initial profile row. A provider rejection surfaces as *AuthError; a
// failed profile upsert is only logged, and the in-memory profile is
// adopted regardless so the caller always sees a consistent logged-in
// state.
func (m *SessionManager) Register(ctx context.Context, name, email, password string) (*models.AuthUser, error) {
	user, err := m.auth.SignUp(ctx, email, password, name)
	if err != nil {
		return nil, &AuthError{Op: "register", Err: err}
	}

	profile := models.NewProfile(user.ID, name, email)

	upsertCtx, cancel := context.WithTimeout(ctx, profileWriteTimeout)
	defer cancel()
	if err := m.store.UpsertProfile(upsertCtx, profile); err != nil {
		m.log.WithError(err).Warn("profile creation failed")
	}

	m.setUser(profile)
	return user, nil
}

// Login authenticates with the identity provider, then loads the
// profile or synthesizes the fallback. The returned session carries the
// access token handed out by the provider.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	session, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, &AuthError{Op: "login", Err: err}
	}

	m.adoptSession(ctx, session)
	return session, nil
}

// Logout signs out of the identity provider and clears the in-memory
// user.
func (m *SessionManager) Logout(ctx context.Context) error {
	if err := m.auth.SignOut(ctx); err != nil {
		return &AuthError{Op: "logout", Err: err}
	}
	m.setUser(nil)
	return nil
}

// UpdateProfile merges the partial update into the in-memory profile
// first, then persists it with a 3 second deadline. Write failures and
// timeouts are logged and swallowed; the optimistic state is kept.
func (m *SessionManager) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	if update.Name != nil {
		m.user.Name = *update.Name
	}
	if update.Bio != nil {
		m.user.Bio = *update.Bio
	}
	if update.Goals != nil {
		m.user.Goals = *update.Goals
	}
	userID := m.user.ID
	m.mu.Unlock()

	writeCtx, cancel := context.WithTimeout(ctx, profileWriteTimeout)
	defer cancel()
	if err := m.store.UpdateProfile(writeCtx, userID, update); err != nil {
		m.log.WithError(err).Error("profile update not persisted")
	}
	return nil
}

// UpdateStats replaces the stats sub-record with the same optimistic
// contract as UpdateProfile, under the longer 5 second deadline.
func (m *SessionManager) UpdateStats(ctx context.Context, stats models.Stats) error {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	m.user.Stats = stats
	userID := m.user.ID
	m.mu.Unlock()

	writeCtx, cancel := context.WithTimeout(ctx, statsWriteTimeout)
	defer cancel()
	if err := m.store.UpdateStats(writeCtx, userID, stats); err != nil {
		m.log.WithError(err).Error("stats update not persisted")
	}
	return nil
}

// UpdateAchievements stores a new achievements list, optimistic-first
// like the stats path it runs alongside.
func (m *SessionManager) UpdateAchievements(ctx context.Context, achievements []string) error {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	m.user.Achievements = achievements
	userID := m.user.ID
	m.mu.Unlock()

	writeCtx, cancel := context.WithTimeout(ctx, statsWriteTimeout)
	defer cancel()
	if err := m.store.UpdateAchievements(writeCtx, userID, achievements); err != nil {
		m.log.WithError(err).Error("achievements update not persisted")
	}
	return nil
}

// CurrentUser returns a copy of the in-memory profile, or nil when
// logged out. The slices are copied too, so callers cannot mutate the
// manager's state outside the lock.
func (m *SessionManager) CurrentUser() *models.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	user.Goals = append([]string(nil), m.user.Goals...)
	user.Achievements = append([]string(nil), m.user.Achievements...)
	return &user
}

func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

func (m *SessionManager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *SessionManager) setUser(user *models.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
}

func (m *SessionManager) setLoading(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = v
}

// fallbackProfile builds a profile from session data alone, used when
// the store has no row for the user or did not answer in time.
func fallbackProfile(user models.AuthUser) *models.Profile {
	name := user.Name
	if name == "" {
		name = utils.ExtractNameFromEmail(user.Email)
	}
	return models.NewProfile(user.ID, name, user.Email)
}

// normalizeProfile guarantees the in-memory invariants the rest of the
// service relies on: stats embedded and slices non-nil.
func normalizeProfile(profile *models.Profile) {
	if profile.Goals == nil {
		profile.Goals = []string{}
	}
	if profile.Achievements == nil {
		profile.Achievements = []string{}
	}
}
