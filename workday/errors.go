package workday

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("working day not found")
)

func invalidArg(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// NotFoundError возвращается Locate, когда в месяце меньше Nth рабочих дней.
type NotFoundError struct {
	Nth      int
	Weekdays WeekSet
	Month    time.Month
	Year     int

	// Exclude заполняется, только если исключения были переданы в запросе (пусть и пустые).
	Exclude    []int
	HasExclude bool
}

func (e *NotFoundError) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "There isn't a %d%s working day (%s) in %s %d",
		e.Nth, Ordinal(e.Nth), e.Weekdays, e.Month, e.Year)

	if e.HasExclude {
		fmt.Fprintf(b, ", excluding day(s) of month: %s", joinDays(e.Exclude))
	}
	b.WriteString(".")
	return b.String()
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func joinDays(days []int) string {
	if len(days) == 0 {
		return "none"
	}

	uniq := make(map[int]bool, len(days))
	sorted := make([]int, 0, len(days))
	for _, d := range days {
		if !uniq[d] {
			uniq[d] = true
			sorted = append(sorted, d)
		}
	}
	sort.Ints(sorted)

	strs := make([]string, len(sorted))
	for i, d := range sorted {
		strs[i] = strconv.Itoa(d)
	}
	return strings.Join(strs, ", ")
}

// Ordinal возвращает английский суффикс порядкового числительного: 1st, 2nd, 3rd, 11th, 21st...
func Ordinal(n int) string {
	if n < 0 {
		n = -n
	}

	// @formatter:off
	switch n % 100 {
	case 11, 12, 13: return "th"
	}
	switch n % 10 {
	case 1:  return "st"
	case 2:  return "nd"
	case 3:  return "rd"
	default: return "th"
	}
	// @formatter:on
}
