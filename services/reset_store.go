package services

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/expensetrackr/expense-api/models"
	"github.com/expensetrackr/expense-api/utils"
)

type pgResetStore struct {
	db *sql.DB
}

// NewPostgresResetStore returns the production ResetStore.
func NewPostgresResetStore(db *sql.DB) ResetStore {
	return &pgResetStore{db: db}
}

func (s *pgResetStore) UserIDByEmail(email string) (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *pgResetStore) CreateReset(reset models.PasswordReset) error {
	_, err := s.db.Exec(`
		INSERT INTO password_resets (id, email, reset_key, is_used, expires_at, created_at)
		VALUES ($1, $2, $3, FALSE, $4, $5)
	`, reset.ID, reset.Email, reset.ResetKey, reset.ExpiresAt, reset.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateKey
	}
	return err
}

func (s *pgResetStore) FindUnusedReset(email, key string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := s.db.QueryRow(`
		SELECT id, email, reset_key, is_used, expires_at, created_at
		FROM password_resets
		WHERE email = $1 AND reset_key = $2 AND is_used = FALSE
	`, email, key).Scan(
		&reset.ID,
		&reset.Email,
		&reset.ResetKey,
		&reset.IsUsed,
		&reset.ExpiresAt,
		&reset.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (s *pgResetStore) ConsumeReset(resetID, userID, passwordHash string) (bool, error) {
	consumed := false

	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		// Row-level compare-and-set: a plain read-then-write would let two
		// concurrent verifies both pass the is_used check.
		result, err := tx.Exec(`
			UPDATE password_resets
			SET is_used = TRUE
			WHERE id = $1 AND is_used = FALSE
		`, resetID)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}

		_, err = tx.Exec(`
			UPDATE users
			SET password_hash = $1, updated_at = NOW()
			WHERE id = $2
		`, passwordHash, userID)
		if err != nil {
			return err
		}

		consumed = true
		return nil
	})

	return consumed, err
}
