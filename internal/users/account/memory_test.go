// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/users/account"
	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/internal/users/auth"
)

// # Users

type memoryUsers map[int64]*auth.User

func (users memoryUsers) GetUser(_ context.Context, id int64) (*auth.User, error) {
	user, ok := users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

// # Store

type memoryState struct {
	profiles    map[int64]account.Profile
	preferences map[int64]account.Preferences
	entries     []activity.Entry
}

func (state memoryState) clone() memoryState {
	return memoryState{
		profiles:    maps.Clone(state.profiles),
		preferences: maps.Clone(state.preferences),
		entries:     slices.Clone(state.entries),
	}
}

type memoryStore struct {
	txLock sync.Mutex
	mu     sync.Mutex
	state  memoryState

	failUpsert error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{state: memoryState{
		profiles:    map[int64]account.Profile{},
		preferences: map[int64]account.Preferences{},
	}}
}

func (store *memoryStore) Profiles() account.ProfileRepository       { return memoryProfiles{store} }
func (store *memoryStore) Preferences() account.PreferenceRepository { return memoryPreferences{store} }
func (store *memoryStore) Activity() activity.Repository             { return memoryActivity{store} }

func (store *memoryStore) WithinTransaction(ctx context.Context, fn func(store account.Store) error) error {
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

func (store *memoryStore) entries(userID int64) []activity.Entry {
	store.mu.Lock()
	defer store.mu.Unlock()

	var entries []activity.Entry
	for _, entry := range store.state.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (store *memoryStore) storedPreferences(userID int64) (account.Preferences, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	preferences, ok := store.state.preferences[userID]
	return preferences, ok
}

type memoryProfiles struct{ store *memoryStore }

func (repository memoryProfiles) FindByUserID(_ context.Context, userID int64) (*account.Profile, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	profile, ok := repository.store.state.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	return &profile, nil
}

func (repository memoryProfiles) Upsert(_ context.Context, profile *account.Profile) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	if repository.store.failUpsert != nil {
		return repository.store.failUpsert
	}
	repository.store.state.profiles[profile.UserID] = *profile
	return nil
}

type memoryPreferences struct{ store *memoryStore }

func (repository memoryPreferences) FindByUserID(_ context.Context, userID int64) (*account.Preferences, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	preferences, ok := repository.store.state.preferences[userID]
	if !ok {
		return nil, apperr.NotFound("Preferences")
	}
	preferences.ContentFilters = slices.Clone(preferences.ContentFilters)
	return &preferences, nil
}

func (repository memoryPreferences) Upsert(_ context.Context, preferences *account.Preferences) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	if repository.store.failUpsert != nil {
		return repository.store.failUpsert
	}
	stored := *preferences
	stored.ContentFilters = slices.Clone(preferences.ContentFilters)
	repository.store.state.preferences[preferences.UserID] = stored
	return nil
}

type memoryActivity struct{ store *memoryStore }

func (repository memoryActivity) Append(_ context.Context, entry *activity.Entry) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	repository.store.state.entries = append(repository.store.state.entries, *entry)
	return nil
}

func (repository memoryActivity) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*activity.Entry, int, error) {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	var matched []*activity.Entry
	for index := len(repository.store.state.entries) - 1; index >= 0; index-- {
		entry := repository.store.state.entries[index]
		if entry.UserID == userID {
			matched = append(matched, &entry)
		}
	}

	total := len(matched)
	if offset >= total {
		return []*activity.Entry{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

// # Publisher

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
