package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agromex/livestock-service/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// animalRow scripts a full RETURNING row for scanAnimal. Optional columns
// stay nil.
func animalRow(id, establecimientoID int, caravanaInterna string, activa bool) fakeRow {
	return fakeRow{vals: []any{
		id, establecimientoID, nil, caravanaInterna, nil, nil, nil,
		"Vaca", nil, nil, nil, nil, time.Now(), activa,
	}}
}

func TestDeactivateAnimalIsAnUpdateNotADelete(t *testing.T) {
	fq := &fakeQuerier{execTags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 1")}}
	database := &Database{q: fq}

	err := database.DeactivateAnimal(context.Background(), 1, 9)
	require.NoError(t, err)

	// One statement total: the flag flips and nothing else is touched, so
	// health, reproduction and production history survives the delete.
	require.Len(t, fq.stmts, 1)
	sql := fq.stmts[0].sql
	assert.Contains(t, sql, "UPDATE vacas")
	assert.Contains(t, sql, "activa = FALSE")
	assert.NotContains(t, sql, "DELETE")
	for _, tabla := range []string{"registros_salud", "registros_reproduccion", "registros_produccion", "historial_movimientos", "fotos_vacas"} {
		assert.NotContains(t, sql, tabla)
	}
	assert.Equal(t, []any{9, 1}, fq.stmts[0].args)
}

func TestDeactivateAnimalUnknownAnimal(t *testing.T) {
	fq := &fakeQuerier{execTags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 0")}}
	database := &Database{q: fq}

	err := database.DeactivateAnimal(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAnimalDuplicateTagInSameEstablishment(t *testing.T) {
	fq := &fakeQuerier{rows: []fakeRow{
		{err: &pgconn.PgError{Code: "23505", ConstraintName: constraintTagInterna}},
	}}
	database := &Database{q: fq}

	_, err := database.CreateAnimal(context.Background(), 1, models.AnimalRequest{
		CaravanaInterna: "A-001",
		EstadoActual:    "Vaca",
	})
	assert.ErrorIs(t, err, ErrDuplicateTag)
}

func TestCreateAnimalSameTagInOtherEstablishment(t *testing.T) {
	fq := &fakeQuerier{rows: []fakeRow{animalRow(10, 2, "A-001", true)}}
	database := &Database{q: fq}

	animal, err := database.CreateAnimal(context.Background(), 2, models.AnimalRequest{
		CaravanaInterna: "A-001",
		EstadoActual:    "Vaca",
	})
	require.NoError(t, err)
	assert.Equal(t, "A-001", animal.CaravanaInterna)

	// The insert always carries the tenant id, and the unique constraints
	// are composite over (establecimiento_id, caravana_*), so the tag that
	// collides in establishment 1 is free in establishment 2.
	require.Len(t, fq.stmts, 1)
	assert.Equal(t, 2, fq.stmts[0].args[0])
}

func TestAnimalTagConstraintsScopedToEstablishment(t *testing.T) {
	var vacasDDL string
	for _, s := range schemaStatements {
		if strings.Contains(s, "CREATE TABLE IF NOT EXISTS vacas") {
			vacasDDL = s
			break
		}
	}
	require.NotEmpty(t, vacasDDL)

	// The constraint names errors.go keys on, composite over the tenant id.
	assert.Contains(t, vacasDDL, "CONSTRAINT "+constraintTagSenasa+" UNIQUE (establecimiento_id, caravana_senasa)")
	assert.Contains(t, vacasDDL, "CONSTRAINT "+constraintTagInterna+" UNIQUE (establecimiento_id, caravana_interna)")
}

func TestUpdateAnimalOmittedActivaKeepsStoredFlag(t *testing.T) {
	fq := &fakeQuerier{rows: []fakeRow{animalRow(9, 1, "A-001", false)}}
	database := &Database{q: fq}

	animal, err := database.UpdateAnimal(context.Background(), 1, 9, models.AnimalRequest{
		CaravanaInterna: "A-001",
		EstadoActual:    "Vaca",
	})
	require.NoError(t, err)

	// Omitted activa must not resurrect a deactivated animal: the update
	// coalesces a NULL onto the stored value.
	require.Len(t, fq.stmts, 1)
	assert.Contains(t, fq.stmts[0].sql, "activa = COALESCE($11::boolean, activa)")
	assert.Nil(t, fq.stmts[0].args[10])
	assert.False(t, animal.Activa)
}

func TestUpdateAnimalExplicitActivaIsWritten(t *testing.T) {
	fq := &fakeQuerier{rows: []fakeRow{animalRow(9, 1, "A-001", true)}}
	database := &Database{q: fq}

	_, err := database.UpdateAnimal(context.Background(), 1, 9, models.AnimalRequest{
		CaravanaInterna: "A-001",
		EstadoActual:    "Vaca",
		Activa:          boolPtr(true),
	})
	require.NoError(t, err)

	require.Len(t, fq.stmts, 1)
	assert.Equal(t, boolPtr(true), fq.stmts[0].args[10])
}
