package workday

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,

	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWeekday понимает названия дней недели ("Monday", "mon") и порядковые номера 0..6, где 0 - воскресенье.
func ParseWeekday(s string) (time.Weekday, error) {
	val := strings.TrimSpace(s)

	if n, err := strconv.Atoi(val); err == nil {
		if n < int(time.Sunday) || n > int(time.Saturday) {
			return 0, invalidArg(fmt.Sprintf("weekday number %d out of range 0..6", n))
		}
		return time.Weekday(n), nil
	}

	// cases.Caser нельзя разделять между горутинами.
	wd, ok := weekdayNames[cases.Fold().String(val)]
	if !ok {
		return 0, invalidArg(fmt.Sprintf("unknown weekday '%s'", s))
	}
	return wd, nil
}

// ParseWeekdays разбирает список значений, каждое из которых может содержать несколько дней через запятую.
// Пустые элементы и "none" пропускаются, поэтому ParseWeekdays([]string{"none"}) возвращает пустой не nil слайс.
func ParseWeekdays(vals []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, 7)
	for _, val := range vals {
		for _, part := range strings.Split(val, ",") {
			if p := strings.TrimSpace(part); p == "" || strings.EqualFold(p, "none") {
				continue
			}

			wd, err := ParseWeekday(part)
			if err != nil {
				return nil, err
			}
			days = append(days, wd)
		}
	}
	return days, nil
}

// ShortName - трехбуквенное обозначение дня недели для JSON: "mon", "tue"...
func ShortName(wd time.Weekday) string {
	// @formatter:off
	switch wd {
	case time.Monday:    return "mon"
	case time.Tuesday:   return "tue"
	case time.Wednesday: return "wed"
	case time.Thursday:  return "thu"
	case time.Friday:    return "fri"
	case time.Saturday:  return "sat"
	case time.Sunday:    return "sun"
	default:             return ""
	}
	// @formatter:on
}
