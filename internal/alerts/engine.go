// Package alerts derives near-term notifications from stored reproduction
// history. Nothing here touches the database: the caller loads the
// qualifying rows and the engine is a pure computation over them, so the
// same inputs always yield the same alerts.
package alerts

import (
	"fmt"
	"time"

	"github.com/agromex/livestock-service/internal/models"
)

const (
	// GestationDays is the fixed bovine gestation length counted from the
	// pregnancy-confirming event.
	GestationDays = 280

	// WindowDays is the lookahead: a due date triggers an alert only when
	// it falls within this many days of today.
	WindowDays = 45

	// TipoPartoProximo labels upcoming-birth alerts.
	TipoPartoProximo = "Parto Próximo"

	// EventoConfirmacion is the reproduction event type that confirms a
	// pregnancy and anchors the due-date estimate.
	EventoConfirmacion = "Palpación"

	// EstadoPrenada is the reproductive status that qualifies an animal
	// for upcoming-birth alerts.
	EstadoPrenada = "Preñada"
)

// Confirmation is one qualifying reproduction event row: a confirmation
// event for an animal currently marked pregnant.
type Confirmation struct {
	VacaID          int
	Nombre          *string
	CaravanaInterna string
	FechaEvento     time.Time
}

// Compute returns one candidate alert per confirmation whose estimated due
// date (event date + 280 days) falls in [today, today+45d]. An animal with
// several confirmations in the window yields several alerts; callers that
// want one alert per animal must deduplicate themselves.
func Compute(confirmations []Confirmation, now time.Time) []models.Alert {
	today := truncateToDay(now)
	horizon := today.AddDate(0, 0, WindowDays)

	alerts := []models.Alert{}
	for _, conf := range confirmations {
		due := truncateToDay(conf.FechaEvento).AddDate(0, 0, GestationDays)
		if due.Before(today) || due.After(horizon) {
			continue
		}
		alerts = append(alerts, models.Alert{
			Tipo:        TipoPartoProximo,
			Mensaje:     fmt.Sprintf("Parto estimado para la vaca %s el %s.", displayName(conf), due.Format("02/01/2006")),
			VacaID:      conf.VacaID,
			FechaAlerta: today.Format("2006-01-02"),
		})
	}
	return alerts
}

// displayName prefers the animal's name and falls back to its internal tag.
func displayName(c Confirmation) string {
	if c.Nombre != nil && *c.Nombre != "" {
		return *c.Nombre
	}
	return c.CaravanaInterna
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
