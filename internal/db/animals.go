package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromex/livestock-service/internal/models"
	"github.com/jackc/pgx/v5"
)

const animalColumns = `id, establecimiento_id, caravana_senasa, caravana_interna, nombre, raza,
	fecha_nacimiento, estado_actual, estado_reproductivo, rodeo_id, madre_id, padre_nombre,
	fecha_ingreso, activa`

func scanAnimal(row pgx.Row) (*models.Animal, error) {
	var a models.Animal
	err := row.Scan(
		&a.ID,
		&a.EstablecimientoID,
		&a.CaravanaSenasa,
		&a.CaravanaInterna,
		&a.Nombre,
		&a.Raza,
		&a.FechaNacimiento,
		&a.EstadoActual,
		&a.EstadoReproductivo,
		&a.RodeoID,
		&a.MadreID,
		&a.PadreNombre,
		&a.FechaIngreso,
		&a.Activa,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// checkAnimalReferences validates that the herd and the optional mother
// belong to the establishment before a write commits. Both failures read as
// ErrNotFound: out-of-tenant rows are indistinguishable from absent ones.
func (db *Database) checkAnimalReferences(ctx context.Context, establecimientoID int, rodeoID *int, madreID *int) error {
	if rodeoID != nil {
		ok, err := herdInEstablishment(ctx, db.q, *rodeoID, establecimientoID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("herd %d: %w", *rodeoID, ErrNotFound)
		}
	}
	if madreID != nil {
		ok, err := animalInEstablishment(ctx, db.q, *madreID, establecimientoID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("mother %d: %w", *madreID, ErrNotFound)
		}
	}
	return nil
}

// CreateAnimal inserts an animal. The entry date defaults to today when
// unspecified. Tag collisions surface as ErrDuplicateTag from the store's
// unique constraints.
func (db *Database) CreateAnimal(ctx context.Context, establecimientoID int, req models.AnimalRequest) (*models.Animal, error) {
	if err := db.checkAnimalReferences(ctx, establecimientoID, req.RodeoID, req.MadreID); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO vacas (establecimiento_id, caravana_senasa, caravana_interna, nombre, raza,
			fecha_nacimiento, estado_actual, estado_reproductivo, rodeo_id, madre_id, padre_nombre,
			fecha_ingreso)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11, COALESCE($12::date, CURRENT_DATE))
		RETURNING ` + animalColumns
	animal, err := scanAnimal(db.q.QueryRow(ctx, query,
		establecimientoID,
		req.CaravanaSenasa,
		req.CaravanaInterna,
		req.Nombre,
		req.Raza,
		req.FechaNacimiento,
		req.EstadoActual,
		req.EstadoReproductivo,
		req.RodeoID,
		req.MadreID,
		req.PadreNombre,
		req.FechaIngreso,
	))
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrDuplicateTag) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert animal: %w", err)
	}
	return animal, nil
}

// ListAnimals returns the establishment's active animals ordered by
// internal tag. Logically deleted animals are excluded.
func (db *Database) ListAnimals(ctx context.Context, establecimientoID int) ([]models.Animal, error) {
	rows, err := db.q.Query(ctx, `
		SELECT `+animalColumns+`
		FROM vacas
		WHERE establecimiento_id = $1 AND activa = TRUE
		ORDER BY caravana_interna ASC
	`, establecimientoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query animals: %w", translateError(err))
	}
	defer rows.Close()

	animals := []models.Animal{}
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan animal: %w", translateError(err))
		}
		animals = append(animals, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating animals: %w", translateError(err))
	}
	return animals, nil
}

// GetAnimal fetches one animal scoped to the establishment.
func (db *Database) GetAnimal(ctx context.Context, establecimientoID, vacaID int) (*models.Animal, error) {
	animal, err := scanAnimal(db.q.QueryRow(ctx, `
		SELECT `+animalColumns+`
		FROM vacas
		WHERE id = $1 AND establecimiento_id = $2
	`, vacaID, establecimientoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query animal: %w", translateError(err))
	}
	return animal, nil
}

// UpdateAnimal replaces the full row; this is replace semantics, not a
// partial patch. The one exception is activa: when omitted the stored flag
// is kept, so an update cannot silently resurrect a deactivated animal.
func (db *Database) UpdateAnimal(ctx context.Context, establecimientoID, vacaID int, req models.AnimalRequest) (*models.Animal, error) {
	if err := db.checkAnimalReferences(ctx, establecimientoID, req.RodeoID, req.MadreID); err != nil {
		return nil, err
	}

	query := `
		UPDATE vacas
		SET caravana_senasa = $1, caravana_interna = $2, nombre = $3, raza = $4,
			fecha_nacimiento = $5::date, estado_actual = $6, estado_reproductivo = $7,
			rodeo_id = $8, madre_id = $9, padre_nombre = $10,
			activa = COALESCE($11::boolean, activa)
		WHERE id = $12 AND establecimiento_id = $13
		RETURNING ` + animalColumns
	animal, err := scanAnimal(db.q.QueryRow(ctx, query,
		req.CaravanaSenasa,
		req.CaravanaInterna,
		req.Nombre,
		req.Raza,
		req.FechaNacimiento,
		req.EstadoActual,
		req.EstadoReproductivo,
		req.RodeoID,
		req.MadreID,
		req.PadreNombre,
		req.Activa,
		vacaID,
		establecimientoID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err = translateError(err); errors.Is(err, ErrDuplicateTag) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update animal: %w", err)
	}
	return animal, nil
}

// DeactivateAnimal clears the active flag. Logical delete only: event rows
// are preserved and repeating the call succeeds.
func (db *Database) DeactivateAnimal(ctx context.Context, establecimientoID, vacaID int) error {
	tag, err := db.q.Exec(ctx, `
		UPDATE vacas SET activa = FALSE
		WHERE id = $1 AND establecimiento_id = $2
	`, vacaID, establecimientoID)
	if err != nil {
		return fmt.Errorf("failed to deactivate animal: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MoveAnimal appends an immutable movement record and repoints the
// animal's herd in one transaction. The origin is the herd the animal held
// at the time, nil when it was unassigned.
func (db *Database) MoveAnimal(ctx context.Context, establecimientoID, vacaID int, req models.MovementRequest) (*models.MovementRecord, error) {
	tx, err := db.q.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", translateError(err))
	}
	defer tx.Rollback(ctx)

	var origen *int
	err = tx.QueryRow(ctx, `
		SELECT rodeo_id FROM vacas
		WHERE id = $1 AND establecimiento_id = $2
		FOR UPDATE
	`, vacaID, establecimientoID).Scan(&origen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock animal: %w", translateError(err))
	}

	ok, err := herdInEstablishment(ctx, tx, req.RodeoDestinoID, establecimientoID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("destination herd %d: %w", req.RodeoDestinoID, ErrNotFound)
	}

	var mov models.MovementRecord
	err = tx.QueryRow(ctx, `
		INSERT INTO historial_movimientos (establecimiento_id, vaca_id, rodeo_origen_id, rodeo_destino_id, motivo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, establecimiento_id, vaca_id, rodeo_origen_id, rodeo_destino_id, fecha_movimiento, motivo
	`, establecimientoID, vacaID, origen, req.RodeoDestinoID, req.Motivo).Scan(
		&mov.ID,
		&mov.EstablecimientoID,
		&mov.VacaID,
		&mov.RodeoOrigenID,
		&mov.RodeoDestinoID,
		&mov.FechaMovimiento,
		&mov.Motivo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert movement: %w", translateError(err))
	}

	if _, err := tx.Exec(ctx, `
		UPDATE vacas SET rodeo_id = $1 WHERE id = $2 AND establecimiento_id = $3
	`, req.RodeoDestinoID, vacaID, establecimientoID); err != nil {
		return nil, fmt.Errorf("failed to update animal herd: %w", translateError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}
	return &mov, nil
}

// ListMovements returns the animal's movement history, newest first.
func (db *Database) ListMovements(ctx context.Context, establecimientoID, vacaID int) ([]models.MovementRecord, error) {
	rows, err := db.q.Query(ctx, `
		SELECT id, establecimiento_id, vaca_id, rodeo_origen_id, rodeo_destino_id, fecha_movimiento, motivo
		FROM historial_movimientos
		WHERE vaca_id = $1 AND establecimiento_id = $2
		ORDER BY fecha_movimiento DESC
	`, vacaID, establecimientoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", translateError(err))
	}
	defer rows.Close()

	movs := []models.MovementRecord{}
	for rows.Next() {
		var m models.MovementRecord
		if err := rows.Scan(&m.ID, &m.EstablecimientoID, &m.VacaID, &m.RodeoOrigenID, &m.RodeoDestinoID, &m.FechaMovimiento, &m.Motivo); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", translateError(err))
		}
		movs = append(movs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movements: %w", translateError(err))
	}
	return movs, nil
}
