// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/sec"
	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/internal/users/auth"
	"github.com/taibuivan/streamvault/pkg/identifier"
)

// # Clock

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *testClock) Advance(duration time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(duration)
}

// # Store

type memoryState struct {
	users         map[int64]auth.User
	security      map[int64]auth.AccountSecurity
	sessions      map[int64]auth.Session
	activity      []*activity.Entry
	nextUserID    int64
	nextSessionID int64
}

func (state memoryState) clone() memoryState {
	copied := state
	copied.users = make(map[int64]auth.User, len(state.users))
	for id, user := range state.users {
		copied.users[id] = user
	}
	copied.security = make(map[int64]auth.AccountSecurity, len(state.security))
	for id, security := range state.security {
		copied.security[id] = security
	}
	copied.sessions = make(map[int64]auth.Session, len(state.sessions))
	for id, session := range state.sessions {
		copied.sessions[id] = session
	}
	copied.activity = append([]*activity.Entry(nil), state.activity...)
	return copied
}

// memoryStore is an in-memory [auth.Transactor]. Units of work are serialized
// and rolled back on error, mirroring the row lock taken by the Postgres store.
type memoryStore struct {
	txLock sync.Mutex
	mu     sync.Mutex
	state  memoryState

	failAppend error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{state: memoryState{}.clone()}
}

func (store *memoryStore) Users() auth.UserRepository        { return memoryUsers{store} }
func (store *memoryStore) Security() auth.SecurityRepository { return memorySecurity{store} }
func (store *memoryStore) Sessions() auth.SessionRepository  { return memorySessions{store} }
func (store *memoryStore) Activity() activity.Repository     { return memoryActivity{store} }

func (store *memoryStore) WithinTransaction(_ context.Context, fn func(store auth.Store) error) error {
	store.txLock.Lock()
	defer store.txLock.Unlock()

	store.mu.Lock()
	snapshot := store.state.clone()
	store.mu.Unlock()

	if err := fn(store); err != nil {
		store.mu.Lock()
		store.state = snapshot
		store.mu.Unlock()
		return err
	}
	return nil
}

func (store *memoryStore) security(userID int64) auth.AccountSecurity {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state.security[userID]
}

func (store *memoryStore) session(id int64) auth.Session {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state.sessions[id]
}

func (store *memoryStore) entries(userID int64) []*activity.Entry {
	store.mu.Lock()
	defer store.mu.Unlock()

	var owned []*activity.Entry
	for _, entry := range store.state.activity {
		if entry.UserID == userID {
			owned = append(owned, entry)
		}
	}
	return owned
}

// insertUser bypasses registration, leaving the security record absent.
func (store *memoryStore) insertUser(user auth.User) int64 {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.nextUserID++
	user.ID = store.state.nextUserID
	store.state.users[user.ID] = user
	return user.ID
}

// # Users

type memoryUsers struct{ store *memoryStore }

func (repository memoryUsers) find(match func(auth.User) bool) (*auth.User, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	for _, user := range repository.store.state.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository memoryUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	return repository.find(func(user auth.User) bool { return user.ID == id })
}

func (repository memoryUsers) FindByIdentifier(_ context.Context, raw string) (*auth.User, error) {
	key := identifier.Key(raw)
	if identifier.IsEmail(raw) {
		return repository.find(func(user auth.User) bool { return identifier.Key(user.Email) == key })
	}
	return repository.find(func(user auth.User) bool { return identifier.Key(user.Username) == key })
}

func (repository memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	key := identifier.Key(email)
	return repository.find(func(user auth.User) bool { return identifier.Key(user.Email) == key })
}

func (repository memoryUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	key := identifier.Key(username)
	_, err := repository.find(func(user auth.User) bool { return identifier.Key(user.Username) == key })
	return err == nil, nil
}

func (repository memoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := repository.FindByEmail(ctx, email)
	return err == nil, nil
}

func (repository memoryUsers) Create(_ context.Context, user *auth.User) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	for _, existing := range repository.store.state.users {
		if identifier.Key(existing.Username) == identifier.Key(user.Username) {
			return apperr.Conflict("Username is already taken")
		}
		if identifier.Key(existing.Email) == identifier.Key(user.Email) {
			return apperr.Conflict("Email is already registered")
		}
	}

	repository.store.state.nextUserID++
	user.ID = repository.store.state.nextUserID
	repository.store.state.users[user.ID] = *user
	return nil
}

func (repository memoryUsers) update(id int64, change func(auth.User) auth.User) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	user, ok := repository.store.state.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	repository.store.state.users[id] = change(user)
	return nil
}

func (repository memoryUsers) UpdateStatus(_ context.Context, id int64, status auth.UserStatus, now time.Time) error {
	return repository.update(id, func(user auth.User) auth.User { return user.WithStatus(status, now) })
}

func (repository memoryUsers) UpdatePassword(_ context.Context, id int64, hash string, now time.Time) error {
	return repository.update(id, func(user auth.User) auth.User { return user.WithPassword(hash, now) })
}

func (repository memoryUsers) MarkEmailVerified(_ context.Context, id int64, now time.Time) error {
	return repository.update(id, func(user auth.User) auth.User { return user.WithEmailVerified(now) })
}

// # Security

type memorySecurity struct{ store *memoryStore }

func (repository memorySecurity) FindByUserID(_ context.Context, userID int64) (*auth.AccountSecurity, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	security, ok := repository.store.state.security[userID]
	if !ok {
		return nil, apperr.NotFound("Account security")
	}
	return &security, nil
}

func (repository memorySecurity) Create(_ context.Context, security *auth.AccountSecurity) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()
	repository.store.state.security[security.UserID] = *security
	return nil
}

func (repository memorySecurity) change(userID int64, transition func(auth.AccountSecurity) auth.AccountSecurity) (*auth.AccountSecurity, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	security, ok := repository.store.state.security[userID]
	if !ok {
		return nil, apperr.NotFound("Account security")
	}
	security = transition(security)
	repository.store.state.security[userID] = security
	return &security, nil
}

func (repository memorySecurity) RecordFailure(_ context.Context, userID int64, policy auth.LockoutPolicy, now time.Time) (*auth.AccountSecurity, error) {
	return repository.change(userID, func(security auth.AccountSecurity) auth.AccountSecurity {
		return security.RecordFailure(policy, now)
	})
}

func (repository memorySecurity) Reset(_ context.Context, userID int64, now time.Time) error {
	_, err := repository.change(userID, func(security auth.AccountSecurity) auth.AccountSecurity {
		return security.RecordSuccess(now)
	})
	return err
}

func (repository memorySecurity) MarkPasswordChanged(_ context.Context, userID int64, now time.Time) error {
	_, err := repository.change(userID, func(security auth.AccountSecurity) auth.AccountSecurity {
		return security.WithPasswordChanged(now)
	})
	return err
}

// # Sessions

type memorySessions struct{ store *memoryStore }

func (repository memorySessions) Create(_ context.Context, session *auth.Session) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	repository.store.state.nextSessionID++
	session.ID = repository.store.state.nextSessionID
	repository.store.state.sessions[session.ID] = *session
	return nil
}

func (repository memorySessions) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	for _, session := range repository.store.state.sessions {
		if session.TokenHash == tokenHash {
			found := session
			return &found, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repository memorySessions) FindByID(_ context.Context, id int64) (*auth.Session, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	session, ok := repository.store.state.sessions[id]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	return &session, nil
}

func (repository memorySessions) ListByUser(_ context.Context, userID int64, activeOnly bool) ([]*auth.Session, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	var sessions []*auth.Session
	for _, session := range repository.store.state.sessions {
		if session.UserID == userID && (!activeOnly || session.IsActive) {
			found := session
			sessions = append(sessions, &found)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID > sessions[j].ID })
	return sessions, nil
}

func (repository memorySessions) change(id int64, transition func(auth.Session) auth.Session) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	if session, ok := repository.store.state.sessions[id]; ok {
		repository.store.state.sessions[id] = transition(session)
	}
}

func (repository memorySessions) Touch(_ context.Context, id int64, now time.Time) error {
	repository.change(id, func(session auth.Session) auth.Session { return session.Touched(now) })
	return nil
}

func (repository memorySessions) End(_ context.Context, id int64, now time.Time) (bool, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	session, ok := repository.store.state.sessions[id]
	if !ok || !session.IsActive {
		return false, nil
	}
	repository.store.state.sessions[id] = session.Ended(now)
	return true, nil
}

func (repository memorySessions) Extend(_ context.Context, id int64, expiresAt time.Time) error {
	repository.change(id, func(session auth.Session) auth.Session {
		session.ExpiresAt = &expiresAt
		return session
	})
	return nil
}

func (repository memorySessions) deactivate(userID int64, keep func(auth.Session) bool) int64 {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	var count int64
	for id, session := range repository.store.state.sessions {
		if session.UserID == userID && session.IsActive && !keep(session) {
			session.IsActive = false
			repository.store.state.sessions[id] = session
			count++
		}
	}
	return count
}

func (repository memorySessions) DeactivateAllByUser(_ context.Context, userID int64) (int64, error) {
	return repository.deactivate(userID, func(auth.Session) bool { return false }), nil
}

func (repository memorySessions) DeactivateOthers(_ context.Context, userID, keepID int64) (int64, error) {
	return repository.deactivate(userID, func(session auth.Session) bool { return session.ID == keepID }), nil
}

func (repository memorySessions) CountActiveByUser(_ context.Context, userID int64) (int64, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	var count int64
	for _, session := range repository.store.state.sessions {
		if session.UserID == userID && session.IsActive {
			count++
		}
	}
	return count, nil
}

// # Activity

type memoryActivity struct{ store *memoryStore }

func (repository memoryActivity) Append(_ context.Context, entry *activity.Entry) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	if repository.store.failAppend != nil {
		return repository.store.failAppend
	}
	repository.store.state.activity = append(repository.store.state.activity, entry)
	return nil
}

func (repository memoryActivity) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*activity.Entry, int, error) {
	owned := repository.store.entries(userID)
	if offset >= len(owned) {
		return nil, len(owned), nil
	}
	return owned[offset:min(offset+limit, len(owned))], len(owned), nil
}

// # Tokens & Delivery

type memoryTokens struct {
	mu     sync.Mutex
	tokens map[string]int64
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]int64{}}
}

func (tokens *memoryTokens) Set(_ context.Context, token string, userID int64, _ time.Duration) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	tokens.tokens[token] = userID
	return nil
}

func (tokens *memoryTokens) Consume(_ context.Context, token string) (int64, error) {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()

	userID, ok := tokens.tokens[token]
	if !ok {
		return 0, apperr.NotFound("Token")
	}
	delete(tokens.tokens, token)
	return userID, nil
}

type captureNotifier struct {
	mu           sync.Mutex
	verification map[int64]string
	reset        map[int64]string
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{verification: map[int64]string{}, reset: map[int64]string{}}
}

func (notifier *captureNotifier) SendVerification(_ context.Context, user *auth.User, token string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.verification[user.ID] = token
	return nil
}

func (notifier *captureNotifier) SendPasswordReset(_ context.Context, user *auth.User, token string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.reset[user.ID] = token
	return nil
}

type capturePublisher struct {
	mu      sync.Mutex
	entries []*activity.Entry
}

func (publisher *capturePublisher) Publish(_ context.Context, entries ...*activity.Entry) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	publisher.entries = append(publisher.entries, entries...)
	return nil
}

// switchableEntropy stands in for the CSPRNG and can be made to fail.
type switchableEntropy struct {
	mu     sync.Mutex
	broken bool
}

var errEntropy = errors.New("entropy source unavailable")

func (entropy *switchableEntropy) Generate(n int) (string, error) {
	entropy.mu.Lock()
	defer entropy.mu.Unlock()

	if entropy.broken {
		return "", errEntropy
	}
	return sec.GenerateSecureToken(n)
}

func (entropy *switchableEntropy) Break() {
	entropy.mu.Lock()
	defer entropy.mu.Unlock()
	entropy.broken = true
}
