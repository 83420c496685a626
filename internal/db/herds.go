package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromex/livestock-service/internal/models"
	"github.com/jackc/pgx/v5"
)

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, so in-tenant
// reference checks run inside or outside a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateHerd inserts a herd scoped to the establishment.
func (db *Database) CreateHerd(ctx context.Context, establecimientoID int, req models.CreateHerdRequest) (*models.Herd, error) {
	var herd models.Herd
	err := db.q.QueryRow(ctx, `
		INSERT INTO rodeos (establecimiento_id, nombre, descripcion)
		VALUES ($1, $2, $3)
		RETURNING id, establecimiento_id, nombre, descripcion, fecha_creacion
	`, establecimientoID, req.Nombre, req.Descripcion).Scan(
		&herd.ID,
		&herd.EstablecimientoID,
		&herd.Nombre,
		&herd.Descripcion,
		&herd.FechaCreacion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert herd: %w", translateError(err))
	}
	return &herd, nil
}

// ListHerds returns the establishment's herds ordered by name.
func (db *Database) ListHerds(ctx context.Context, establecimientoID int) ([]models.Herd, error) {
	rows, err := db.q.Query(ctx, `
		SELECT id, establecimiento_id, nombre, descripcion, fecha_creacion
		FROM rodeos
		WHERE establecimiento_id = $1
		ORDER BY nombre ASC
	`, establecimientoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query herds: %w", translateError(err))
	}
	defer rows.Close()

	herds := []models.Herd{}
	for rows.Next() {
		var h models.Herd
		if err := rows.Scan(&h.ID, &h.EstablecimientoID, &h.Nombre, &h.Descripcion, &h.FechaCreacion); err != nil {
			return nil, fmt.Errorf("failed to scan herd: %w", translateError(err))
		}
		herds = append(herds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating herds: %w", translateError(err))
	}
	return herds, nil
}

// herdInEstablishment verifies the herd belongs to the establishment. The
// guard only proves the top-level resource is in-tenant; nested herd
// references are checked here before every write that uses them.
func herdInEstablishment(ctx context.Context, q rowQuerier, herdID, establecimientoID int) (bool, error) {
	var one int
	err := q.QueryRow(ctx, `
		SELECT 1 FROM rodeos WHERE id = $1 AND establecimiento_id = $2
	`, herdID, establecimientoID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify herd: %w", translateError(err))
	}
	return true, nil
}

// animalInEstablishment verifies the animal belongs to the establishment.
func animalInEstablishment(ctx context.Context, q rowQuerier, vacaID, establecimientoID int) (bool, error) {
	var one int
	err := q.QueryRow(ctx, `
		SELECT 1 FROM vacas WHERE id = $1 AND establecimiento_id = $2
	`, vacaID, establecimientoID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify animal: %w", translateError(err))
	}
	return true, nil
}
