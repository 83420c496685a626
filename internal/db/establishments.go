package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromex/livestock-service/internal/models"
	"github.com/jackc/pgx/v5"
)

// CreateEstablishment inserts the establishment and the creator's owner
// role in one transaction. An establishment without a granted role would be
// unreachable by its creator, so the two writes commit or roll back
// together.
func (db *Database) CreateEstablishment(ctx context.Context, ownerID int, req models.CreateEstablishmentRequest) (*models.Establishment, error) {
	tx, err := db.q.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", translateError(err))
	}
	defer tx.Rollback(ctx)

	var est models.Establishment
	err = tx.QueryRow(ctx, `
		INSERT INTO establecimientos (nombre, numero_oficial, propietario_id)
		VALUES ($1, $2, $3)
		RETURNING id, nombre, numero_oficial, propietario_id, fecha_creacion
	`, req.Nombre, req.NumeroOficial, ownerID).Scan(
		&est.ID,
		&est.Nombre,
		&est.NumeroOficial,
		&est.PropietarioID,
		&est.FechaCreacion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert establishment: %w", translateError(err))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO usuario_establecimiento_roles (usuario_id, establecimiento_id, rol)
		VALUES ($1, $2, $3)
	`, ownerID, est.ID, models.RolPropietario)
	if err != nil {
		return nil, fmt.Errorf("failed to grant owner role: %w", translateError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}
	return &est, nil
}

// HasAccess reports whether a role row exists for exactly this
// (user, establishment) pair. Membership is never transitive.
func (db *Database) HasAccess(ctx context.Context, userID, establecimientoID int) (bool, error) {
	var one int
	err := db.q.QueryRow(ctx, `
		SELECT 1 FROM usuario_establecimiento_roles
		WHERE usuario_id = $1 AND establecimiento_id = $2
	`, userID, establecimientoID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query establishment access: %w", translateError(err))
	}
	return true, nil
}

// GrantRole adds a member to an establishment. The composite primary key
// rejects a second role for the same pair with ErrDuplicateMembership.
func (db *Database) GrantRole(ctx context.Context, userID, establecimientoID int, rol string) error {
	_, err := db.q.Exec(ctx, `
		INSERT INTO usuario_establecimiento_roles (usuario_id, establecimiento_id, rol)
		VALUES ($1, $2, $3)
	`, userID, establecimientoID, rol)
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrDuplicateMembership) {
			return err
		}
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}

// AdminListEstablishments returns every establishment with its owner's
// email. Platform-admin only; not establishment scoped.
func (db *Database) AdminListEstablishments(ctx context.Context) ([]models.AdminEstablishment, error) {
	rows, err := db.q.Query(ctx, `
		SELECT e.id, e.nombre, e.numero_oficial, u.email
		FROM establecimientos e
		JOIN usuarios u ON e.propietario_id = u.id
		ORDER BY e.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query establishments: %w", translateError(err))
	}
	defer rows.Close()

	ests := []models.AdminEstablishment{}
	for rows.Next() {
		var e models.AdminEstablishment
		if err := rows.Scan(&e.ID, &e.Nombre, &e.NumeroOficial, &e.PropietarioEmail); err != nil {
			return nil, fmt.Errorf("failed to scan establishment: %w", translateError(err))
		}
		ests = append(ests, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating establishments: %w", translateError(err))
	}
	return ests, nil
}
