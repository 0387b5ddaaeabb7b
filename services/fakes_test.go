package services

import (
	"context"
	"sync"
	"time"

	"github.com/lmoralesc/pausia/core"
)

// FakeAuthService is a test-only fake implementing core.AuthService.
// Results and errors are injected through its fields; Emit pushes an
// auth-change event to every subscriber.
type FakeAuthService struct {
	mu sync.Mutex

	session    *core.Session
	getErr     error
	signInErr  error
	signOutErr error

	signInCalls  int
	signOutScope []core.SignOutScope

	handlers map[int]func(core.AuthEvent)
	nextID   int
}

func NewFakeAuthService() *FakeAuthService {
	return &FakeAuthService{handlers: make(map[int]func(core.AuthEvent))}
}

func (f *FakeAuthService) GetSession(ctx context.Context) (*core.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.getErr
}

func (f *FakeAuthService) SignInWithPassword(ctx context.Context, email, password string) (*core.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *FakeAuthService) SignOut(ctx context.Context, scope core.SignOutScope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutScope = append(f.signOutScope, scope)
	return f.signOutErr
}

func (f *FakeAuthService) Subscribe(handler func(core.AuthEvent)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	f.mu.Unlock()

	handler(core.AuthEvent{Name: core.EventInitialSession, Session: f.session})

	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
}

// Emit delivers an event to every subscriber, as the backend would.
func (f *FakeAuthService) Emit(ev core.AuthEvent) {
	f.mu.Lock()
	handlers := make([]func(core.AuthEvent), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// FakeProfileStore is a test-only fake implementing core.ProfileStore.
// A gate registered for a subject blocks that lookup until released, which
// lets tests interleave slow and fast loads deterministically.
type FakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*core.Profile
	gates    map[string]chan struct{}
	getErr   error
	calls    int
}

func NewFakeProfileStore() *FakeProfileStore {
	return &FakeProfileStore{
		profiles: make(map[string]*core.Profile),
		gates:    make(map[string]chan struct{}),
	}
}

func (f *FakeProfileStore) Put(p *core.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = p
}

// Gate makes lookups for subjectID block until the returned function runs.
func (f *FakeProfileStore) Gate(subjectID string) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[subjectID] = gate
	f.mu.Unlock()
	return func() { close(gate) }
}

func (f *FakeProfileStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeProfileStore) GetProfileByID(ctx context.Context, subjectID string) (*core.Profile, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gates[subjectID]
	err := f.getErr
	profile, ok := f.profiles[subjectID]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, core.ErrProfileNotFound
	}
	return profile, nil
}

// FakeProfileCache is a test-only fake implementing core.ProfileCache.
// It holds a single snapshot and exposes error fields for behavior injection.
type FakeProfileCache struct {
	mu       sync.Mutex
	snapshot *core.Profile
	getErr   error
	setErr   error
	clearErr error
}

func NewFakeProfileCache() *FakeProfileCache {
	return &FakeProfileCache{}
}

func (f *FakeProfileCache) Get(subjectID string) (*core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.snapshot == nil || f.snapshot.ID != subjectID {
		return nil, nil
	}
	return f.snapshot, nil
}

func (f *FakeProfileCache) Set(profile *core.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.snapshot = profile
	return nil
}

func (f *FakeProfileCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.snapshot = nil
	return nil
}

func (f *FakeProfileCache) Snapshot() *core.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

// FakeLoginResolver is a test-only fake implementing core.LoginResolver.
type FakeLoginResolver struct {
	emails map[string]string
	err    error
}

func NewFakeLoginResolver() *FakeLoginResolver {
	return &FakeLoginResolver{emails: make(map[string]string)}
}

func (f *FakeLoginResolver) ResolveEmail(ctx context.Context, identifier string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	email, ok := f.emails[identifier]
	if !ok {
		return "", core.ErrLoginNotFound
	}
	return email, nil
}

// FakeSessionStorage is a test-only fake implementing core.AuthStorage.
// It stores sessions and credentials in maps and exposes error fields for
// behavior injection.
type FakeSessionStorage struct {
	mu          sync.RWMutex
	sessions    map[string]*core.StoredSession
	credentials map[string]*core.Credential
	createErr   error
	getErr      error
	deleteErr   error
}

func NewFakeSessionStorage() *FakeSessionStorage {
	return &FakeSessionStorage{
		sessions:    make(map[string]*core.StoredSession),
		credentials: make(map[string]*core.Credential),
	}
}

func (f *FakeSessionStorage) PutCredential(c *core.Credential) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credentials[c.Email] = c
}

func (f *FakeSessionStorage) CreateSession(ctx context.Context, s *core.StoredSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *FakeSessionStorage) GetSessionByHash(ctx context.Context, tokenHash string) (*core.StoredSession, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return s, nil
}

func (f *FakeSessionStorage) UpdateSession(ctx context.Context, s *core.StoredSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[s.TokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *FakeSessionStorage) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.sessions[tokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	delete(f.sessions, tokenHash)
	return nil
}

func (f *FakeSessionStorage) DeleteSubjectSessions(ctx context.Context, subjectID, keepTokenHash string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	count := 0
	for hash, s := range f.sessions {
		if s.SubjectID == subjectID && hash != keepTokenHash {
			delete(f.sessions, hash)
			count++
		}
	}
	return count, nil
}

func (f *FakeSessionStorage) DeleteExpiredSessions(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for hash, s := range f.sessions {
		if time.Now().After(s.ExpiresAt) {
			delete(f.sessions, hash)
			count++
		}
	}
	return count, nil
}

func (f *FakeSessionStorage) GetCredentialByEmail(ctx context.Context, email string) (*core.Credential, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.credentials[email]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return c, nil
}

func (f *FakeSessionStorage) SessionCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sessions)
}
