package db

import (
	"context"
	"testing"
	"time"

	"github.com/agromex/livestock-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEstablishmentCommitsInsertAndOwnerGrant(t *testing.T) {
	now := time.Now()
	tx := &fakeTx{}
	tx.q.rows = []fakeRow{
		{vals: []any{1, "La Esperanza", strPtr("RENSPA-123"), 7, now}},
	}
	fq := &fakeQuerier{tx: tx}
	database := &Database{q: fq}

	est, err := database.CreateEstablishment(context.Background(), 7, models.CreateEstablishmentRequest{
		Nombre:        "La Esperanza",
		NumeroOficial: strPtr("RENSPA-123"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, est.ID)
	assert.Equal(t, 7, est.PropietarioID)

	require.Len(t, tx.q.stmts, 2)
	assert.Contains(t, tx.q.stmts[0].sql, "INSERT INTO establecimientos")
	assert.Contains(t, tx.q.stmts[1].sql, "INSERT INTO usuario_establecimiento_roles")
	assert.Equal(t, []any{7, 1, models.RolPropietario}, tx.q.stmts[1].args)
	assert.Equal(t, 1, tx.commits)
}

func TestCreateEstablishmentRollsBackWhenOwnerGrantFails(t *testing.T) {
	tx := &fakeTx{}
	tx.q.rows = []fakeRow{
		{vals: []any{1, "La Esperanza", nil, 7, time.Now()}},
	}
	tx.q.execErrs = []error{assert.AnError}
	fq := &fakeQuerier{tx: tx}
	database := &Database{q: fq}

	_, err := database.CreateEstablishment(context.Background(), 7, models.CreateEstablishmentRequest{
		Nombre: "La Esperanza",
	})
	require.Error(t, err)

	// The failure landed between the two writes: the establishment insert
	// ran, the grant was attempted, and nothing was committed.
	require.Len(t, tx.q.stmts, 2)
	assert.Contains(t, tx.q.stmts[0].sql, "INSERT INTO establecimientos")
	assert.Contains(t, tx.q.stmts[1].sql, "INSERT INTO usuario_establecimiento_roles")
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestCreateEstablishmentRollsBackWhenInsertFails(t *testing.T) {
	tx := &fakeTx{}
	tx.q.rows = []fakeRow{{err: assert.AnError}}
	fq := &fakeQuerier{tx: tx}
	database := &Database{q: fq}

	_, err := database.CreateEstablishment(context.Background(), 7, models.CreateEstablishmentRequest{
		Nombre: "La Esperanza",
	})
	require.Error(t, err)

	// No grant attempted after the failed insert, no commit.
	require.Len(t, tx.q.stmts, 1)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}
