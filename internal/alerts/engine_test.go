package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 13, 42, 0, 0, time.UTC)

func confirmedDaysAgo(vacaID, days int) Confirmation {
	return Confirmation{
		VacaID:          vacaID,
		CaravanaInterna: "INT-001",
		FechaEvento:     now.AddDate(0, 0, -days),
	}
}

func TestComputeDueDateAtWindowEdge(t *testing.T) {
	// Confirmed 235 days ago: due exactly at today+45, the last day that
	// still alerts.
	alerts := Compute([]Confirmation{confirmedDaysAgo(7, 235)}, now)

	require.Len(t, alerts, 1)
	require.Equal(t, TipoPartoProximo, alerts[0].Tipo)
	require.Equal(t, 7, alerts[0].VacaID)
	require.Equal(t, "2025-06-15", alerts[0].FechaAlerta)

	due := now.AddDate(0, 0, 45)
	require.Contains(t, alerts[0].Mensaje, due.Format("02/01/2006"))
}

func TestComputeDueDateBeyondWindow(t *testing.T) {
	// Confirmed 230 days ago: due at today+50, outside the 45-day window.
	alerts := Compute([]Confirmation{confirmedDaysAgo(7, 230)}, now)
	require.Empty(t, alerts)
}

func TestComputeDueDateInsideWindow(t *testing.T) {
	// Confirmed 240 days ago: due at today+40.
	alerts := Compute([]Confirmation{confirmedDaysAgo(7, 240)}, now)

	require.Len(t, alerts, 1)
	due := now.AddDate(0, 0, 40)
	require.Contains(t, alerts[0].Mensaje, due.Format("02/01/2006"))
}

func TestComputeDueDatePassed(t *testing.T) {
	// Due date before today never alerts.
	alerts := Compute([]Confirmation{confirmedDaysAgo(7, 281)}, now)
	require.Empty(t, alerts)
}

func TestComputeDueDateToday(t *testing.T) {
	alerts := Compute([]Confirmation{confirmedDaysAgo(7, 280)}, now)
	require.Len(t, alerts, 1)
	require.Contains(t, alerts[0].Mensaje, now.Format("02/01/2006"))
}

func TestComputeNamePreferredOverTag(t *testing.T) {
	nombre := "Margarita"
	conf := confirmedDaysAgo(3, 240)
	conf.Nombre = &nombre

	alerts := Compute([]Confirmation{conf}, now)
	require.Len(t, alerts, 1)
	require.Contains(t, alerts[0].Mensaje, "Margarita")
	require.NotContains(t, alerts[0].Mensaje, "INT-001")
}

func TestComputeFallsBackToInternalTag(t *testing.T) {
	alerts := Compute([]Confirmation{confirmedDaysAgo(3, 240)}, now)
	require.Len(t, alerts, 1)
	require.Contains(t, alerts[0].Mensaje, "INT-001")
}

func TestComputeOneAlertPerQualifyingRow(t *testing.T) {
	// Two confirmations for the same animal both land in the window; both
	// alert. Deduplication is deliberately left to the caller.
	alerts := Compute([]Confirmation{
		confirmedDaysAgo(3, 240),
		confirmedDaysAgo(3, 250),
	}, now)
	require.Len(t, alerts, 2)
}

func TestComputeIsIdempotent(t *testing.T) {
	input := []Confirmation{
		confirmedDaysAgo(1, 240),
		confirmedDaysAgo(2, 260),
		confirmedDaysAgo(3, 100),
	}

	first := Compute(input, now)
	second := Compute(input, now)
	require.Equal(t, first, second)
	require.Len(t, first, 2)
}

func TestComputeEmptyInput(t *testing.T) {
	alerts := Compute(nil, now)
	require.NotNil(t, alerts)
	require.Empty(t, alerts)
}
