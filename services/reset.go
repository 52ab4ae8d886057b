package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/expensetrackr/expense-api/models"
	"github.com/expensetrackr/expense-api/utils"
)

var (
	// ErrInvalidKey covers a wrong key, an unknown key and an already
	// consumed one. Callers must not be able to tell these apart.
	ErrInvalidKey = errors.New("invalid reset key")

	// ErrKeyExpired means the key was correct and unused but past its
	// expiry instant. The record stays untouched.
	ErrKeyExpired = errors.New("reset key expired")

	// ErrWeakPassword means the replacement password fails the minimum
	// length policy.
	ErrWeakPassword = errors.New("password too short")

	// ErrUserNotFound means the account a valid key points at no longer
	// exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateKey is returned by a ResetStore when a generated key
	// collides with an existing row; Request retries generation.
	ErrDuplicateKey = errors.New("reset key already exists")
)

const (
	resetKeyTTL       = time.Hour
	minPasswordLength = 8
	maxKeyAttempts    = 3
)

// Mailer delivers reset keys. Delivery is best effort: the key is durable
// before Send is called, so a failed send must never fail the flow. The
// implementation owns its own diagnostics.
type Mailer interface {
	SendResetKey(toEmail, key string) error
}

// ResetStore is the persistence surface the reset flow needs. The Postgres
// implementation lives in reset_store.go; tests substitute a fake.
type ResetStore interface {
	// UserIDByEmail returns "" (and no error) when no account matches.
	UserIDByEmail(email string) (string, error)

	CreateReset(reset models.PasswordReset) error

	// FindUnusedReset returns nil (and no error) when no unused row
	// matches the (email, key) pair.
	FindUnusedReset(email, key string) (*models.PasswordReset, error)

	// ConsumeReset marks the reset used and stores the new credential
	// digest as one atomic unit. It returns false when a concurrent
	// caller consumed the reset first.
	ConsumeReset(resetID, userID, passwordHash string) (bool, error)
}

// ResetService drives a reset key through requested -> consumed or expired.
type ResetService struct {
	store  ResetStore
	mailer Mailer
	now    func() time.Time
}

func NewResetService(store ResetStore, mailer Mailer) *ResetService {
	return &ResetService{store: store, mailer: mailer, now: time.Now}
}

// Request creates and mails a fresh reset key for email. An unknown email
// succeeds without creating a record or sending anything, so the response
// never reveals whether an account exists. Outstanding keys for the same
// account are left alone; any of them can still be consumed.
func (s *ResetService) Request(email string) error {
	userID, err := s.store.UserIDByEmail(email)
	if err != nil {
		return err
	}
	if userID == "" {
		return nil
	}

	var key string
	for attempt := 0; ; attempt++ {
		key, err = utils.GenerateResetKey(utils.ResetKeyLength)
		if err != nil {
			return err
		}

		err = s.store.CreateReset(models.PasswordReset{
			ID:        uuid.New().String(),
			Email:     email,
			ResetKey:  key,
			ExpiresAt: s.now().Add(resetKeyTTL),
			CreatedAt: s.now(),
		})
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateKey) || attempt+1 >= maxKeyAttempts {
			return err
		}
	}

	// The record is already committed; the mailer logs its own failures.
	_ = s.mailer.SendResetKey(email, key)

	return nil
}

// Verify consumes a reset key and replaces the account's password. The
// is_used flag is the serialization point: of two concurrent calls with the
// same key exactly one succeeds, the other gets ErrInvalidKey. A consumed
// key always yields ErrInvalidKey, even when it is also past expiry.
func (s *ResetService) Verify(email, key, newPassword string) error {
	reset, err := s.store.FindUnusedReset(email, key)
	if err != nil {
		return err
	}
	if reset == nil {
		return ErrInvalidKey
	}

	if !s.now().Before(reset.ExpiresAt) {
		return ErrKeyExpired
	}

	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	userID, err := s.store.UserIDByEmail(email)
	if err != nil {
		return err
	}
	if userID == "" {
		return ErrUserNotFound
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	consumed, err := s.store.ConsumeReset(reset.ID, userID, hash)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrInvalidKey
	}

	return nil
}
