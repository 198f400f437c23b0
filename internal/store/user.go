package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/givemapp/givem/internal/model"
	"github.com/givemapp/givem/internal/password"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userCols = `id, name, email, password, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create hashes the password and inserts the user in a single statement.
// A duplicate email surfaces as ("", nil): the unique constraint resolves
// the race, there is no check-then-insert. Callers normalize the email
// (trim + lowercase) before calling.
func (s *UserStore) Create(name, email, rawPassword string) (string, error) {
	salt, err := password.GenerateSalt()
	if err != nil {
		return "", err
	}
	hashed, err := password.Hash(rawPassword, salt)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO users (id, name, email, password) VALUES (?, ?, ?, ?)`,
		id, name, email, hashed,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", nil
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// GetByEmail returns the full row including the password hash, for the
// login path. Nil on miss.
func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByID returns the safe projection without the password hash. Nil on miss.
func (s *UserStore) GetByID(id string) (*model.SafeUser, error) {
	var u model.SafeUser
	err := s.db.QueryRow(
		`SELECT id, name, email, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListAll returns the user directory ordered by name, capped at limit.
func (s *UserStore) ListAll(limit int) ([]model.DirectoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, name, email FROM users ORDER BY name LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.DirectoryEntry
	for rows.Next() {
		var e model.DirectoryEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, e)
	}
	return users, rows.Err()
}

// isUniqueViolation matches the sqlite unique-constraint error. The
// modernc driver has no exported sentinel, so match the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
