package source

import (
	"time"

	"github.com/nvkalinin/workday-locator/store"
)

// Static исключает одни и те же дни месяца в каждом месяце любого года.
type Static struct {
	Days store.Days
}

func (s *Static) GetYear(int) (store.Months, error) {
	if len(s.Days) == 0 {
		return store.Months{}, nil
	}

	days := s.Days.Normalize()
	months := make(store.Months, 12)
	for mon := time.January; mon <= time.December; mon++ {
		months[mon] = days.Copy()
	}
	return months, nil
}
