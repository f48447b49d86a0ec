package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trackspend/expense-api/models"
	"github.com/trackspend/expense-api/utils"
)

// PasswordHasher is the one-way hash-and-verify collaborator. The concrete
// implementation lives in utils (bcrypt).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type UserService struct {
	db     *sql.DB
	hasher PasswordHasher
}

func NewUserService(db *sql.DB, hasher PasswordHasher) *UserService {
	return &UserService{db: db, hasher: hasher}
}

// Register creates an account and returns its public profile. Emails are
// unique with a case-sensitive exact match; the UNIQUE column backs up the
// probe so a concurrent duplicate still reports a conflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("Name is required.")
	}
	if strings.TrimSpace(email) == "" {
		return nil, invalid("Email is required.")
	}
	if strings.TrimSpace(password) == "" {
		return nil, invalid("Password is required.")
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("Email already registered. Please sign in.")
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	userID := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, name, email, passwordHash, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, conflict("Email already registered. Please sign in.")
		}
		return nil, err
	}

	return &models.Profile{ID: userID, Name: name, Email: email}, nil
}

// Login checks the credentials and returns the profile. No token or session
// is issued.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, invalid("Email and password are required.")
	}

	var profile models.Profile
	var passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash
		FROM users
		WHERE email = $1
	`, email).Scan(&profile.ID, &profile.Name, &profile.Email, &passwordHash)
	if err == sql.ErrNoRows {
		return nil, notFound("No account found for this email. Please sign up.")
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, passwordHash) {
		return nil, unauthorized("Incorrect password. Please try again.")
	}

	return &profile, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound("User not found.")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update replaces name and/or email. A new email must not belong to another
// account; submitting the current email is a no-op, not a conflict.
func (s *UserService) Update(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		var taken bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`, *req.Email, userID,
		).Scan(&taken)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, conflict("Email already registered. Please sign in.")
		}
		user.Email = *req.Email
	}

	user.UpdatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $1, email = $2, updated_at = $3
		WHERE id = $4
	`, user.Name, user.Email, user.UpdatedAt, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, conflict("Email already registered. Please sign in.")
		}
		return nil, err
	}

	return user, nil
}

// Delete removes the user and cascades to its expenses and budgets in one
// transaction.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := userExists(ctx, s.db, userID); err != nil {
		return err
	}

	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = $1`, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE user_id = $1`, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return err
		}
		return nil
	})
}
