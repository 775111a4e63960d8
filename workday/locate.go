package workday

import (
	"time"

	"github.com/nvkalinin/workday-locator/log"
)

const (
	MinYear = 1
	MaxYear = 9999
	MaxNth  = 31
)

// Query описывает, какой рабочий день искать.
type Query struct {
	Nth   int
	Month time.Month
	Year  int

	// Weekdays == nil означает DefaultWeek. Пустой, но не nil слайс - ни одного рабочего дня недели.
	Weekdays []time.Weekday

	// Exclude - номера дней месяца, которые не считаются рабочими независимо от дня недели.
	// Значения вне 1..31 допустимы, они просто ни с чем не совпадут.
	// nil означает, что исключения не переданы; пустой слайс - переданы, но пустые (влияет только на текст ошибки).
	Exclude []int
}

// Locate возвращает Nth рабочий день месяца (в полночь UTC).
// Если такого дня нет, возвращается *NotFoundError.
func Locate(q Query) (time.Time, error) {
	if q.Nth < 1 || q.Nth > MaxNth {
		return time.Time{}, invalidArg("nth out of range")
	}
	if err := validateMonth(q.Month, q.Year); err != nil {
		return time.Time{}, err
	}

	week := weekSetOf(q.Weekdays)
	excl := excludeSet(q.Exclude)

	count := 0
	for d := 1; d <= DaysInMonth(q.Year, q.Month); d++ {
		if excl[d] {
			continue
		}

		date := dateOf(q.Year, q.Month, d)
		if !week.Has(date.Weekday()) {
			continue
		}

		count++
		log.Printf("[DEBUG] workday: %s (%s) is working day #%d", date.Format("2006-01-02"), date.Weekday(), count)
		if count == q.Nth {
			return date, nil
		}
	}

	return time.Time{}, &NotFoundError{
		Nth:        q.Nth,
		Weekdays:   week,
		Month:      q.Month,
		Year:       q.Year,
		Exclude:    q.Exclude,
		HasExclude: q.Exclude != nil,
	}
}

// List возвращает все рабочие дни месяца по возрастанию. q.Nth игнорируется.
func List(q Query) ([]time.Time, error) {
	if err := validateMonth(q.Month, q.Year); err != nil {
		return nil, err
	}

	week := weekSetOf(q.Weekdays)
	excl := excludeSet(q.Exclude)

	days := make([]time.Time, 0, 23)
	for d := 1; d <= DaysInMonth(q.Year, q.Month); d++ {
		if excl[d] {
			continue
		}

		date := dateOf(q.Year, q.Month, d)
		if week.Has(date.Weekday()) {
			days = append(days, date)
		}
	}
	return days, nil
}

// Count возвращает количество рабочих дней в месяце. q.Nth игнорируется.
func Count(q Query) (int, error) {
	days, err := List(q)
	if err != nil {
		return 0, err
	}
	return len(days), nil
}

// DaysInMonth учитывает високосные годы (пролептический григорианский календарь).
func DaysInMonth(y int, m time.Month) int {
	// day=0 нормализуется в последний день предыдущего месяца.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func validateMonth(m time.Month, y int) error {
	if m < time.January || m > time.December {
		return invalidArg("month out of range")
	}
	if y < MinYear || y > MaxYear {
		return invalidArg("year out of range")
	}
	return nil
}

func excludeSet(days []int) map[int]bool {
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

func dateOf(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
