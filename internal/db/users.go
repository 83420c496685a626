package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromex/livestock-service/internal/models"
	"github.com/jackc/pgx/v5"
)

// CreateUser inserts a new account with an already-hashed password.
// Returns ErrDuplicateEmail when the email is taken.
func (db *Database) CreateUser(ctx context.Context, email, passwordHash, nombreCompleto string, role models.PlatformRole) (*models.User, error) {
	query := `
		INSERT INTO usuarios (email, password_hash, nombre_completo, platform_role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, nombre_completo, platform_role, fecha_creacion
	`
	var user models.User
	err := db.q.QueryRow(ctx, query, email, passwordHash, nombreCompleto, string(role)).Scan(
		&user.ID,
		&user.Email,
		&user.NombreCompleto,
		&user.PlatformRole,
		&user.FechaCreacion,
	)
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail fetches an account including its credential hash, for
// login verification. Returns ErrNotFound for unknown emails.
func (db *Database) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, nombre_completo, platform_role, fecha_creacion
		FROM usuarios
		WHERE email = $1
	`
	var user models.User
	err := db.q.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.NombreCompleto,
		&user.PlatformRole,
		&user.FechaCreacion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", translateError(err))
	}
	return &user, nil
}

// GetUserIDByEmail resolves an email to a user id, for role grants.
func (db *Database) GetUserIDByEmail(ctx context.Context, email string) (int, error) {
	var id int
	err := db.q.QueryRow(ctx, `SELECT id FROM usuarios WHERE email = $1`, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to query user id: %w", translateError(err))
	}
	return id, nil
}

// IsPlatformAdmin reports whether the user holds the stored platform admin
// role. This is a platform-wide check, separate from establishment roles.
func (db *Database) IsPlatformAdmin(ctx context.Context, userID int) (bool, error) {
	var role string
	err := db.q.QueryRow(ctx, `SELECT platform_role FROM usuarios WHERE id = $1`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query platform role: %w", translateError(err))
	}
	return role == string(models.PlatformRoleAdmin), nil
}
