// Package timezone fixa o fuso de negócio. Datas são gravadas em UTC e
// só os recortes por dia usam o horário de São Paulo.
package timezone

import (
	"sync"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

var (
	loc     *time.Location
	locOnce sync.Once
)

// Location cai para um fuso fixo UTC-3 quando a base tzdata não existe.
func Location() *time.Location {
	locOnce.Do(func() {
		l, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			l = time.FixedZone("BRT", -3*60*60)
		}
		loc = l
	})
	return loc
}

func Now() time.Time {
	return time.Now().In(Location())
}

// DayRange devolve [início, fim) do dia de t no fuso de negócio, em UTC.
func DayRange(t time.Time) (time.Time, time.Time) {
	local := t.In(Location())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
