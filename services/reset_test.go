package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensetrackr/expense-api/models"
	"github.com/expensetrackr/expense-api/utils"
)

type fakeStore struct {
	mu     sync.Mutex
	users  map[string]string // email -> user id
	hashes map[string]string // user id -> password hash
	resets map[string]*models.PasswordReset

	failCreates int // first N CreateReset calls fail with ErrDuplicateKey
	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[string]string{"alice@example.com": "user-alice"},
		hashes: map[string]string{"user-alice": "old-hash"},
		resets: map[string]*models.PasswordReset{},
	}
}

func (f *fakeStore) UserIDByEmail(email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[email], nil
}

func (f *fakeStore) CreateReset(reset models.PasswordReset) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createCalls <= f.failCreates {
		return ErrDuplicateKey
	}

	copied := reset
	f.resets[reset.ID] = &copied
	return nil
}

func (f *fakeStore) FindUnusedReset(email, key string) (*models.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, reset := range f.resets {
		if reset.Email == email && reset.ResetKey == key && !reset.IsUsed {
			copied := *reset
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ConsumeReset(resetID, userID, passwordHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reset, ok := f.resets[resetID]
	if !ok || reset.IsUsed {
		return false, nil
	}
	reset.IsUsed = true
	f.hashes[userID] = passwordHash
	return true, nil
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []string // keys handed to Send, in order
	sendErr error
}

func (f *fakeMailer) SendResetKey(toEmail, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, key)
	return f.sendErr
}

func (f *fakeMailer) lastKey(t *testing.T) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "expected at least one reset email")
	return f.sent[len(f.sent)-1]
}

func newTestService(store *fakeStore, mailer *fakeMailer) (*ResetService, *time.Time) {
	svc := NewResetService(store, mailer)
	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)
	clock := &now
	svc.now = func() time.Time { return *clock }
	return svc, clock
}

func TestRequestUnknownEmail(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc, _ := newTestService(store, mailer)

	err := svc.Request("nobody@example.com")

	require.NoError(t, err)
	assert.Empty(t, store.resets, "no record for an unknown account")
	assert.Empty(t, mailer.sent, "no email for an unknown account")
}

func TestRequestCreatesKeyAndSendsEmail(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc, clock := newTestService(store, mailer)

	require.NoError(t, svc.Request("alice@example.com"))

	require.Len(t, store.resets, 1)
	for _, reset := range store.resets {
		assert.Equal(t, "alice@example.com", reset.Email)
		assert.Len(t, reset.ResetKey, utils.ResetKeyLength)
		assert.False(t, reset.IsUsed)
		assert.Equal(t, clock.Add(time.Hour), reset.ExpiresAt)
		assert.Equal(t, reset.ResetKey, mailer.lastKey(t))
	}
}

func TestRequestToleratesMailerFailure(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{sendErr: errors.New("smtp down")}
	svc, _ := newTestService(store, mailer)

	err := svc.Request("alice@example.com")

	require.NoError(t, err, "delivery failure must not fail the flow")
	assert.Len(t, store.resets, 1, "key stays durable despite the failed send")
}

func TestRequestRetriesOnKeyCollision(t *testing.T) {
	store := newFakeStore()
	store.failCreates = 2
	mailer := &fakeMailer{}
	svc, _ := newTestService(store, mailer)

	require.NoError(t, svc.Request("alice@example.com"))

	assert.Equal(t, 3, store.createCalls)
	assert.Len(t, store.resets, 1)
}

func TestRequestGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newFakeStore()
	store.failCreates = 10
	mailer := &fakeMailer{}
	svc, _ := newTestService(store, mailer)

	err := svc.Request("alice@example.com")

	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.Empty(t, mailer.sent)
}

func TestVerifySucceedsExactlyOnce(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc, _ := newTestService(store, mailer)

	require.NoError(t, svc.Request("alice@example.com"))
	key := mailer.lastKey(t)

	require.NoError(t, svc.Verify("alice@example.com", key, "brand-new-password"))
	assert.True(t, utils.CheckPassword("brand-new-password", store.hashes["user-alice"]))

	// Replay with the consumed key.
	err := svc.Verify("alice@example.com", key, "another-password")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestVerifyWrongKey(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc, _ := newTestService(store, mailer)

	require.NoError(t, svc.Request("alice@example.com"))

	err := svc.Verify("alice@example.com", "XXXXXX", "brand-new-password")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestVerifyExpiredKey(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc, clock := newTestService(store, mailer)

	require.NoError(t, svc.Request("alice@example.com"))
	key := mailer.lastKey(t)

	*clock = clock.Add(time.Hour) // exactly at expires_at counts as expired

	err := svc.Verify("alice@example.com", key, "brand-new-password")
	assert.ErrorIs(t, err, ErrKeyExpired)

	// Expiry is a read-time check: the record stays unused and queryable.
	for _, reset := range store.resets {
		assert.False(t, reset.IsUsed)
	}
	assert.Equal(t, "old-hash", store.hashes["user-alice"])
}

func TestVerifyUsedKeyTakesPrecedenceOverExpiry(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc, clock := newTestService(store, mailer)

	require.NoError(t, svc.Request("alice@example.com"))
	key := mailer.lastKey(t)
	require.NoError(t, svc.Verify("alice@example.com", key, "brand-new-password"))

	*clock = clock.Add(2 * time.Hour)

	err := svc.Verify("alice@example.com", key, "another-password")
	assert.ErrorIs(t, err, ErrInvalidKey, "consumed key must never report expiry")
}

func TestVerifyWeakPassword(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc, _ := newTestService(store, mailer)

	require.NoError(t, svc.Request("alice@example.com"))
	key := mailer.lastKey(t)

	err := svc.Verify("alice@example.com", key, "short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	// The key survives a weak-password attempt.
	require.NoError(t, svc.Verify("alice@example.com", key, "long-enough-now"))
}

func TestVerifyMultipleOutstandingKeys(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc, _ := newTestService(store, mailer)

	require.NoError(t, svc.Request("alice@example.com"))
	firstKey := mailer.lastKey(t)
	require.NoError(t, svc.Request("alice@example.com"))
	secondKey := mailer.lastKey(t)

	require.NotEqual(t, firstKey, secondKey)

	// Each outstanding key is independently consumable.
	require.NoError(t, svc.Verify("alice@example.com", firstKey, "password-one-1"))
	require.NoError(t, svc.Verify("alice@example.com", secondKey, "password-two-2"))
	assert.True(t, utils.CheckPassword("password-two-2", store.hashes["user-alice"]))
}

func TestVerifyConcurrentSameKey(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc, _ := newTestService(store, mailer)

	require.NoError(t, svc.Request("alice@example.com"))
	key := mailer.lastKey(t)

	const callers = 2
	results := make(chan error, callers)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < callers; i++ {
		go func() {
			start.Wait()
			results <- svc.Verify("alice@example.com", key, "concurrent-password")
		}()
	}
	start.Done()

	var wins, invalid int
	for i := 0; i < callers; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, ErrInvalidKey):
			invalid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "exactly one concurrent verify may win")
	assert.Equal(t, callers-1, invalid)
}
