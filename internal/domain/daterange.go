package domain

import (
	"fmt"
	"time"
)

// DateRange é um período inclusivo de datas (sem componente de hora)
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)

	if start.After(end) {
		return DateRange{}, fmt.Errorf("a data de início não pode ser posterior à data de fim")
	}

	return DateRange{Start: start, End: end}, nil
}

// LastNDays retorna o período dos últimos n dias terminando ontem
func LastNDays(n int, now time.Time) DateRange {
	end := truncateToDay(now).AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(n - 1))
	return DateRange{Start: start, End: end}
}

// Today retorna o período de um único dia, o atual
func Today(now time.Time) DateRange {
	day := truncateToDay(now)
	return DateRange{Start: day, End: day}
}

// Days retorna cada data do período em ordem crescente
func (r DateRange) Days() []time.Time {
	days := make([]time.Time, 0)
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s a %s", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
