package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromex/livestock-service/internal/alerts"
	"github.com/agromex/livestock-service/internal/models"
)

// requireAnimal rejects event appends for animals that are absent or
// out-of-tenant. Event rows are always stamped with the path-bound
// establishment, never one taken from the request body.
func (db *Database) requireAnimal(ctx context.Context, establecimientoID, vacaID int) error {
	ok, err := animalInEstablishment(ctx, db.q, vacaID, establecimientoID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// AddHealthEvent appends a health fact to the animal's history.
func (db *Database) AddHealthEvent(ctx context.Context, establecimientoID, vacaID int, req models.HealthEventRequest) (*models.HealthEvent, error) {
	if err := db.requireAnimal(ctx, establecimientoID, vacaID); err != nil {
		return nil, err
	}

	var ev models.HealthEvent
	err := db.q.QueryRow(ctx, `
		INSERT INTO registros_salud (vaca_id, establecimiento_id, fecha_evento, tipo_evento, descripcion, costo, observaciones)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		RETURNING id, vaca_id, establecimiento_id, fecha_evento, tipo_evento, descripcion, costo, observaciones
	`, vacaID, establecimientoID, req.FechaEvento, req.TipoEvento, req.Descripcion, req.Costo, req.Observaciones).Scan(
		&ev.ID, &ev.VacaID, &ev.EstablecimientoID, &ev.FechaEvento, &ev.TipoEvento, &ev.Descripcion, &ev.Costo, &ev.Observaciones,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert health event: %w", translateError(err))
	}
	return &ev, nil
}

// ListHealthEvents returns the animal's health history, newest first.
func (db *Database) ListHealthEvents(ctx context.Context, establecimientoID, vacaID int) ([]models.HealthEvent, error) {
	rows, err := db.q.Query(ctx, `
		SELECT id, vaca_id, establecimiento_id, fecha_evento, tipo_evento, descripcion, costo, observaciones
		FROM registros_salud
		WHERE vaca_id = $1 AND establecimiento_id = $2
		ORDER BY fecha_evento DESC
	`, vacaID, establecimientoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query health events: %w", translateError(err))
	}
	defer rows.Close()

	events := []models.HealthEvent{}
	for rows.Next() {
		var ev models.HealthEvent
		if err := rows.Scan(&ev.ID, &ev.VacaID, &ev.EstablecimientoID, &ev.FechaEvento, &ev.TipoEvento, &ev.Descripcion, &ev.Costo, &ev.Observaciones); err != nil {
			return nil, fmt.Errorf("failed to scan health event: %w", translateError(err))
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating health events: %w", translateError(err))
	}
	return events, nil
}

// AddReproductionEvent appends a reproduction fact to the animal's history.
func (db *Database) AddReproductionEvent(ctx context.Context, establecimientoID, vacaID int, req models.ReproductionEventRequest) (*models.ReproductionEvent, error) {
	if err := db.requireAnimal(ctx, establecimientoID, vacaID); err != nil {
		return nil, err
	}

	aproximada := req.FechaEsAproximada != nil && *req.FechaEsAproximada

	var ev models.ReproductionEvent
	err := db.q.QueryRow(ctx, `
		INSERT INTO registros_reproduccion (vaca_id, establecimiento_id, fecha_evento, fecha_es_aproximada, tipo_evento, detalle, inseminador, cria_id_oficial)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)
		RETURNING id, vaca_id, establecimiento_id, fecha_evento, fecha_es_aproximada, tipo_evento, detalle, inseminador, cria_id_oficial
	`, vacaID, establecimientoID, req.FechaEvento, aproximada, req.TipoEvento, req.Detalle, req.Inseminador, req.CriaIDOficial).Scan(
		&ev.ID, &ev.VacaID, &ev.EstablecimientoID, &ev.FechaEvento, &ev.FechaEsAproximada, &ev.TipoEvento, &ev.Detalle, &ev.Inseminador, &ev.CriaIDOficial,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reproduction event: %w", translateError(err))
	}
	return &ev, nil
}

// ListReproductionEvents returns the animal's reproduction history, newest first.
func (db *Database) ListReproductionEvents(ctx context.Context, establecimientoID, vacaID int) ([]models.ReproductionEvent, error) {
	rows, err := db.q.Query(ctx, `
		SELECT id, vaca_id, establecimiento_id, fecha_evento, fecha_es_aproximada, tipo_evento, detalle, inseminador, cria_id_oficial
		FROM registros_reproduccion
		WHERE vaca_id = $1 AND establecimiento_id = $2
		ORDER BY fecha_evento DESC
	`, vacaID, establecimientoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reproduction events: %w", translateError(err))
	}
	defer rows.Close()

	events := []models.ReproductionEvent{}
	for rows.Next() {
		var ev models.ReproductionEvent
		if err := rows.Scan(&ev.ID, &ev.VacaID, &ev.EstablecimientoID, &ev.FechaEvento, &ev.FechaEsAproximada, &ev.TipoEvento, &ev.Detalle, &ev.Inseminador, &ev.CriaIDOficial); err != nil {
			return nil, fmt.Errorf("failed to scan reproduction event: %w", translateError(err))
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reproduction events: %w", translateError(err))
	}
	return events, nil
}

// AddProductionRecord appends one day's production. The per-(animal, date)
// unique constraint rejects a second record with ErrDuplicateDateEntry.
func (db *Database) AddProductionRecord(ctx context.Context, establecimientoID, vacaID int, req models.ProductionRecordRequest) (*models.ProductionRecord, error) {
	if err := db.requireAnimal(ctx, establecimientoID, vacaID); err != nil {
		return nil, err
	}

	var rec models.ProductionRecord
	err := db.q.QueryRow(ctx, `
		INSERT INTO registros_produccion (vaca_id, establecimiento_id, fecha_registro, litros_dia, calidad_grasa, calidad_proteina)
		VALUES ($1, $2, $3::date, $4, $5, $6)
		RETURNING id, vaca_id, establecimiento_id, fecha_registro, litros_dia, calidad_grasa, calidad_proteina
	`, vacaID, establecimientoID, req.FechaRegistro, req.LitrosDia, req.CalidadGrasa, req.CalidadProteina).Scan(
		&rec.ID, &rec.VacaID, &rec.EstablecimientoID, &rec.FechaRegistro, &rec.LitrosDia, &rec.CalidadGrasa, &rec.CalidadProteina,
	)
	if err != nil {
		if err = translateError(err); errors.Is(err, ErrDuplicateDateEntry) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert production record: %w", err)
	}
	return &rec, nil
}

// ListProductionRecords returns the animal's production history, newest first.
func (db *Database) ListProductionRecords(ctx context.Context, establecimientoID, vacaID int) ([]models.ProductionRecord, error) {
	rows, err := db.q.Query(ctx, `
		SELECT id, vaca_id, establecimiento_id, fecha_registro, litros_dia, calidad_grasa, calidad_proteina
		FROM registros_produccion
		WHERE vaca_id = $1 AND establecimiento_id = $2
		ORDER BY fecha_registro DESC
	`, vacaID, establecimientoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query production records: %w", translateError(err))
	}
	defer rows.Close()

	records := []models.ProductionRecord{}
	for rows.Next() {
		var rec models.ProductionRecord
		if err := rows.Scan(&rec.ID, &rec.VacaID, &rec.EstablecimientoID, &rec.FechaRegistro, &rec.LitrosDia, &rec.CalidadGrasa, &rec.CalidadProteina); err != nil {
			return nil, fmt.Errorf("failed to scan production record: %w", translateError(err))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating production records: %w", translateError(err))
	}
	return records, nil
}

// ListPregnancyConfirmations loads the alert engine's input: confirmation
// events for animals currently marked pregnant, most recent confirmation
// first.
func (db *Database) ListPregnancyConfirmations(ctx context.Context, establecimientoID int) ([]alerts.Confirmation, error) {
	rows, err := db.q.Query(ctx, `
		SELECT v.id, v.nombre, v.caravana_interna, r.fecha_evento
		FROM vacas v
		JOIN registros_reproduccion r ON v.id = r.vaca_id
		WHERE v.establecimiento_id = $1
		  AND v.estado_reproductivo = $2
		  AND r.tipo_evento = $3
		ORDER BY r.fecha_evento DESC
	`, establecimientoID, alerts.EstadoPrenada, alerts.EventoConfirmacion)
	if err != nil {
		return nil, fmt.Errorf("failed to query pregnancy confirmations: %w", translateError(err))
	}
	defer rows.Close()

	confs := []alerts.Confirmation{}
	for rows.Next() {
		var c alerts.Confirmation
		if err := rows.Scan(&c.VacaID, &c.Nombre, &c.CaravanaInterna, &c.FechaEvento); err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", translateError(err))
		}
		confs = append(confs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating confirmations: %w", translateError(err))
	}
	return confs, nil
}
