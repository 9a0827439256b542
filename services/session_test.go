package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mindgrove/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth is a scriptable AuthProvider for session manager tests.
type fakeAuth struct {
	mu       sync.Mutex
	session  *models.Session
	signUpFn func(email, password, name string) (*models.AuthUser, error)
	signInFn func(email, password string) (*models.Session, error)
	blockGet bool

	handlers []AuthStateHandler
}

func (f *fakeAuth) GetSession(ctx context.Context) (*models.Session, error) {
	if f.blockGet {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password, name string) (*models.AuthUser, error) {
	if f.signUpFn != nil {
		return f.signUpFn(email, password, name)
	}
	return &models.AuthUser{ID: "new-user", Email: email, Name: name}, nil
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	if f.signInFn != nil {
		return f.signInFn(email, password)
	}
	return nil, errors.New("no sign-in scripted")
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.session = nil
	handlers := append([]AuthStateHandler(nil), f.handlers...)
	f.mu.Unlock()
	for _, h := range handlers {
		h("SIGNED_OUT", nil)
	}
	return nil
}

func (f *fakeAuth) OnAuthStateChange(handler AuthStateHandler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, handler)
	return func() {}
}

func (f *fakeAuth) fire(event string, session *models.Session) {
	f.mu.Lock()
	handlers := append([]AuthStateHandler(nil), f.handlers...)
	f.mu.Unlock()
	for _, h := range handlers {
		h(event, session)
	}
}

// fakeStore is an in-memory ProfileStore with error and hang injection.
type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	getErr   error
	writeErr error
	hang     bool

	upserts int
	updates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: map[string]*models.Profile{}}
}

func (s *fakeStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if s.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	profile, ok := s.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (s *fakeStore) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.writeErr != nil {
		return s.writeErr
	}
	copied := *profile
	s.profiles[profile.ID] = &copied
	return nil
}

func (s *fakeStore) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.writeErr != nil {
		return s.writeErr
	}
	profile, ok := s.profiles[id]
	if !ok {
		return ErrProfileNotFound
	}
	if update.Name != nil {
		profile.Name = *update.Name
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	if update.Goals != nil {
		profile.Goals = *update.Goals
	}
	return nil
}

func (s *fakeStore) UpdateStats(ctx context.Context, id string, stats models.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.writeErr != nil {
		return s.writeErr
	}
	if profile, ok := s.profiles[id]; ok {
		profile.Stats = stats
	}
	return nil
}

func (s *fakeStore) UpdateAchievements(ctx context.Context, id string, achievements []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if profile, ok := s.profiles[id]; ok {
		profile.Achievements = achievements
	}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestStart_NoSessionClearsLoading(t *testing.T) {
	m := NewSessionManager(&fakeAuth{}, newFakeStore(), quietLogger())
	assert.True(t, m.Loading())

	m.Start(context.Background())
	defer m.Stop()

	assert.False(t, m.Loading())
	assert.False(t, m.IsAuthenticated())
}

func TestStart_RestoresExistingSession(t *testing.T) {
	store := newFakeStore()
	store.profiles["u1"] = &models.Profile{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	auth := &fakeAuth{session: &models.Session{User: models.AuthUser{ID: "u1", Email: "ada@example.com"}}}

	m := NewSessionManager(auth, store, quietLogger())
	m.Start(context.Background())
	defer m.Stop()

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.Name)
	assert.False(t, m.Loading())
}

func TestLogin_LoadsStoredProfile(t *testing.T) {
	store := newFakeStore()
	store.profiles["u1"] = &models.Profile{
		ID: "u1", Name: "Ada", Email: "ada@example.com",
		Stats: models.Stats{TotalEntries: 7, Streak: 3},
	}
	auth := &fakeAuth{signInFn: func(email, password string) (*models.Session, error) {
		return &models.Session{User: models.AuthUser{ID: "u1", Email: email}, AccessToken: "tok"}, nil
	}}

	m := NewSessionManager(auth, store, quietLogger())
	session, err := m.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.AccessToken)

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, 7, user.Stats.TotalEntries)
	assert.Equal(t, 3, user.Stats.Streak)
}

func TestLogin_FallbackProfileWhenRowMissing(t *testing.T) {
	auth := &fakeAuth{signInFn: func(email, password string) (*models.Session, error) {
		return &models.Session{User: models.AuthUser{ID: "u2", Email: "casey@example.com"}}, nil
	}}

	m := NewSessionManager(auth, newFakeStore(), quietLogger())
	_, err := m.Login(context.Background(), "casey@example.com", "pw")
	require.NoError(t, err)

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "casey", user.Name)
	assert.Equal(t, "u2", user.ID)
	assert.NotNil(t, user.Goals)
	assert.NotNil(t, user.Achievements)
}

func TestLogin_FallbackProfileWhenStoreHangs(t *testing.T) {
	store := newFakeStore()
	store.hang = true
	auth := &fakeAuth{signInFn: func(email, password string) (*models.Session, error) {
		return &models.Session{User: models.AuthUser{ID: "u3", Email: "slow@example.com"}}, nil
	}}

	m := NewSessionManager(auth, store, quietLogger())

	start := time.Now()
	_, err := m.Login(context.Background(), "slow@example.com", "pw")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, profileReadTimeout)
	assert.Less(t, elapsed, profileReadTimeout+2*time.Second)

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "slow", user.Name)
}

func TestLogin_ProviderErrorSurfacesAsAuthError(t *testing.T) {
	auth := &fakeAuth{signInFn: func(email, password string) (*models.Session, error) {
		return nil, errors.New("bad credentials")
	}}

	m := NewSessionManager(auth, newFakeStore(), quietLogger())
	_, err := m.Login(context.Background(), "x@example.com", "pw")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "login", authErr.Op)
	assert.False(t, m.IsAuthenticated())
}

func TestRegister_KeepsUserWhenUpsertFails(t *testing.T) {
	store := newFakeStore()
	store.writeErr = errors.New("store down")

	m := NewSessionManager(&fakeAuth{}, store, quietLogger())
	user, err := m.Register(context.Background(), "Ada", "ada@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, "new-user", user.ID)

	current := m.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "Ada", current.Name)
	assert.Equal(t, 1, store.upserts)
}

func TestUpdateProfile_RequiresAuthentication(t *testing.T) {
	m := NewSessionManager(&fakeAuth{}, newFakeStore(), quietLogger())

	bio := "hello"
	err := m.UpdateProfile(context.Background(), ProfileUpdate{Bio: &bio})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUpdateProfile_OptimisticOnWriteFailure(t *testing.T) {
	store := newFakeStore()
	m := NewSessionManager(&fakeAuth{}, store, quietLogger())
	_, err := m.Register(context.Background(), "Ada", "ada@example.com", "pw")
	require.NoError(t, err)

	store.writeErr = errors.New("store down")

	bio := "learning to breathe"
	err = m.UpdateProfile(context.Background(), ProfileUpdate{Bio: &bio})
	require.NoError(t, err)

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "learning to breathe", user.Bio)
}

func TestUpdateStats_OptimisticOnWriteFailure(t *testing.T) {
	store := newFakeStore()
	m := NewSessionManager(&fakeAuth{}, store, quietLogger())
	_, err := m.Register(context.Background(), "Ada", "ada@example.com", "pw")
	require.NoError(t, err)

	store.writeErr = errors.New("store down")

	now := time.Now()
	err = m.UpdateStats(context.Background(), models.Stats{TotalEntries: 1, Streak: 1, LongestStreak: 1, LastEntryDate: &now})
	require.NoError(t, err)

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, 1, user.Stats.TotalEntries)
}

func TestCurrentUser_CopyDoesNotAliasInternalState(t *testing.T) {
	store := newFakeStore()
	m := NewSessionManager(&fakeAuth{}, store, quietLogger())
	_, err := m.Register(context.Background(), "Ada", "ada@example.com", "pw")
	require.NoError(t, err)

	goals := []string{"sleep more"}
	require.NoError(t, m.UpdateProfile(context.Background(), ProfileUpdate{Goals: &goals}))
	require.NoError(t, m.UpdateAchievements(context.Background(), []string{"first_entry"}))

	user := m.CurrentUser()
	require.NotNil(t, user)
	user.Goals[0] = "mutated"
	user.Achievements[0] = "mutated"
	user.Goals = append(user.Goals, "extra")

	fresh := m.CurrentUser()
	require.NotNil(t, fresh)
	assert.Equal(t, []string{"sleep more"}, fresh.Goals)
	assert.Equal(t, []string{"first_entry"}, fresh.Achievements)
}

func TestAuthStateChange_SignOutClearsUser(t *testing.T) {
	store := newFakeStore()
	store.profiles["u1"] = &models.Profile{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	auth := &fakeAuth{session: &models.Session{User: models.AuthUser{ID: "u1", Email: "ada@example.com"}}}

	m := NewSessionManager(auth, store, quietLogger())
	m.Start(context.Background())
	defer m.Stop()
	require.True(t, m.IsAuthenticated())

	auth.fire("SIGNED_OUT", nil)
	assert.False(t, m.IsAuthenticated())
}

func TestStart_SafetyTimerForcesLoadingFalse(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping safety timer test in short mode")
	}

	auth := &fakeAuth{blockGet: true}
	m := NewSessionManager(auth, newFakeStore(), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	time.Sleep(safetyTimeout + 500*time.Millisecond)
	assert.False(t, m.Loading())
}
