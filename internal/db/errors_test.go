package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func TestTranslateErrorUniqueViolations(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{"usuarios_email_key", ErrDuplicateEmail},
		{"vacas_caravana_senasa_key", ErrDuplicateTag},
		{"vacas_caravana_interna_key", ErrDuplicateTag},
		{"usuario_establecimiento_roles_pkey", ErrDuplicateMembership},
		{"registros_produccion_vaca_fecha_key", ErrDuplicateDateEntry},
	}
	for _, tc := range cases {
		got := translateError(uniqueViolation(tc.constraint))
		require.ErrorIs(t, got, tc.want, "constraint %s", tc.constraint)
	}
}

func TestTranslateErrorWrappedPgError(t *testing.T) {
	wrapped := fmt.Errorf("exec insert: %w", uniqueViolation("vacas_caravana_interna_key"))
	require.ErrorIs(t, translateError(wrapped), ErrDuplicateTag)
}

func TestTranslateErrorPassesThroughUnknownConstraint(t *testing.T) {
	err := uniqueViolation("some_other_key")
	require.Equal(t, err, translateError(err))
}

func TestTranslateErrorPassesThroughOtherCodes(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "vacas_rodeo_id_fkey"}
	require.Equal(t, fkErr, translateError(fkErr))

	plain := errors.New("connection refused")
	require.Equal(t, plain, translateError(plain))
}

func TestTranslateErrorNil(t *testing.T) {
	require.NoError(t, translateError(nil))
}

func TestTranslateErrorStoreUnavailable(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"connection exception", &pgconn.PgError{Code: "08006"}},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}},
		{"out of memory", &pgconn.PgError{Code: "53200"}},
		{"network error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}},
		{"deadline exceeded", fmt.Errorf("exec: %w", context.DeadlineExceeded)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, translateError(tc.err), ErrStoreUnavailable)
		})
	}
}

func TestTranslateErrorUnavailableSurvivesCallerWrap(t *testing.T) {
	wrapped := fmt.Errorf("failed to query herds: %w", translateError(&pgconn.PgError{Code: "08006"}))
	require.ErrorIs(t, wrapped, ErrStoreUnavailable)
}
