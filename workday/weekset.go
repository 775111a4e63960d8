package workday

import (
	"strings"
	"time"
)

// WeekSet - множество дней недели, которые считаются рабочими.
// Нулевое значение - пустое множество, в нем не бывает рабочих дней.
type WeekSet uint8

// DefaultWeek - обычная пятидневка.
var DefaultWeek = NewWeekSet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

func NewWeekSet(days ...time.Weekday) WeekSet {
	var s WeekSet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// With игнорирует значения вне диапазона time.Sunday..time.Saturday.
func (s WeekSet) With(d time.Weekday) WeekSet {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s | 1<<uint(d)
}

func (s WeekSet) Has(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return s&(1<<uint(d)) != 0
}

func (s WeekSet) Len() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Days возвращает дни по возрастанию, начиная с воскресенья.
func (s WeekSet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekSet) String() string {
	if s.Len() == 0 {
		return "none"
	}

	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

func weekSetOf(days []time.Weekday) WeekSet {
	if days == nil {
		return DefaultWeek
	}
	return NewWeekSet(days...)
}
