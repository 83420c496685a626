package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Typed outcomes surfaced to handlers. Constraint violations are detected
// by the store, never by a read-then-write check in this layer, so two
// concurrent writers against the same tag or date cannot both win.
var (
	// ErrNotFound: the referenced row does not exist or belongs to a
	// different establishment. The two cases are deliberately
	// indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail: the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateTag: another animal in the establishment already carries
	// the SENASA or internal tag.
	ErrDuplicateTag = errors.New("duplicate tag in establishment")

	// ErrDuplicateMembership: the user already holds a role on the
	// establishment.
	ErrDuplicateMembership = errors.New("user already has a role on establishment")

	// ErrDuplicateDateEntry: a production record already exists for the
	// animal on that date.
	ErrDuplicateDateEntry = errors.New("production record already exists for date")

	// ErrStoreUnavailable: the store could not be reached or dropped the
	// connection mid-operation. Retryable by the caller, unlike an
	// unexpected store error.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Constraint names assigned in schema.go; the 23505 translation below
// depends on them.
const (
	constraintUserEmail      = "usuarios_email_key"
	constraintTagSenasa      = "vacas_caravana_senasa_key"
	constraintTagInterna     = "vacas_caravana_interna_key"
	constraintMembership     = "usuario_establecimiento_roles_pkey"
	constraintProductionDate = "registros_produccion_vaca_fecha_key"
)

// translateError maps store failures onto domain errors: unique
// violations become the duplicate error for the constraint that fired,
// transport failures become ErrStoreUnavailable. Anything unrecognized
// passes through wrapped by the caller.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if isUnavailable(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case constraintUserEmail:
		return ErrDuplicateEmail
	case constraintTagSenasa, constraintTagInterna:
		return ErrDuplicateTag
	case constraintMembership:
		return ErrDuplicateMembership
	case constraintProductionDate:
		return ErrDuplicateDateEntry
	}
	return err
}

// isUnavailable reports whether the failure is infrastructure, not logic:
// a network error, a timeout, or a Postgres connection/shutdown/resource
// condition (SQLSTATE classes 08, 53, 57P).
func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "53") ||
			strings.HasPrefix(pgErr.Code, "57P")
	}
	return false
}
