package store

import (
	"sort"
	"time"
)

// Days - номера дней месяца, которые исключаются из рабочих (праздники, переносы и т.п.).
type Days []int

type Months map[time.Month]Days

// Normalize сортирует дни и убирает повторы. Исходный слайс не меняется.
func (d Days) Normalize() Days {
	uniq := make(map[int]bool, len(d))
	res := make(Days, 0, len(d))
	for _, day := range d {
		if !uniq[day] {
			uniq[day] = true
			res = append(res, day)
		}
	}
	sort.Ints(res)
	return res
}

func (d Days) Copy() Days {
	if d == nil {
		return nil
	}
	dCopy := make(Days, len(d))
	copy(dCopy, d)
	return dCopy
}

func (y Months) Copy() Months {
	yCopy := make(Months, len(y))
	for mon, days := range y {
		yCopy[mon] = days.Copy()
	}
	return yCopy
}

// Merge объединяет исключения двух календарей. Результат нормализован, аргументы не меняются.
func Merge(m1 Months, m2 Months) Months {
	res := make(Months, 12)
	for _, src := range []Months{m1, m2} {
		for mon, days := range src {
			res[mon] = append(res[mon], days...)
		}
	}

	for mon, days := range res {
		res[mon] = days.Normalize()
	}
	return res
}
