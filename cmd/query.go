package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nvkalinin/workday-locator/source"
	"github.com/nvkalinin/workday-locator/workday"
)

// WeekdayList - значение флага --weekday. Принимает названия, сокращения и номера (0 - воскресенье),
// можно через запятую. "none" - пустая неделя. nil означает, что флаг не указан.
type WeekdayList []time.Weekday

func (w *WeekdayList) UnmarshalFlag(value string) error {
	days, err := workday.ParseWeekdays([]string{value})
	if err != nil {
		return err
	}
	if *w == nil {
		*w = WeekdayList{}
	}
	*w = append(*w, days...)
	return nil
}

// DayList - значение флага --exclude, номера дней месяца через запятую. Пустое значение допустимо.
type DayList []int

func (d *DayList) UnmarshalFlag(value string) error {
	if *d == nil {
		*d = DayList{}
	}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		day, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("%w: invalid day of month '%s'", workday.ErrInvalidArgument, part)
		}
		*d = append(*d, day)
	}
	return nil
}

// QueryOpts - общие флаги для locate и count.
type QueryOpts struct {
	Weekdays WeekdayList `long:"weekday" short:"w" env:"WEEKDAY" env-delim:"," value-name:"day" description:"Рабочий день недели: monday, mon или номер 0-6 (0 — воскресенье). Можно указывать несколько раз или через запятую, 'none' — ни одного. По умолчанию пн-пт."`
	Exclude  DayList     `long:"exclude" short:"x" env:"EXCLUDE" env-delim:"," value-name:"day" description:"Номер дня месяца, который не считается рабочим. Можно указывать несколько раз или через запятую."`
	Holidays string      `long:"holidays" env:"HOLIDAYS" value-name:"file.yml" description:"YAML файл с исключенными днями по годам и месяцам, как для server --source.override."`

	out io.Writer
}

func (o *QueryOpts) makeQuery(month int, year int) (workday.Query, error) {
	q := workday.Query{
		Month: time.Month(month),
		Year:  year,
	}
	if o.Weekdays != nil {
		q.Weekdays = []time.Weekday(o.Weekdays)
	}
	if o.Exclude != nil {
		q.Exclude = []int(o.Exclude)
	}

	if o.Holidays != "" {
		ov := &source.Override{Path: o.Holidays}
		months, err := ov.GetYear(year)
		if err != nil {
			return q, err
		}
		if days, ok := months[time.Month(month)]; ok {
			q.Exclude = append(append([]int{}, q.Exclude...), days...)
		}
	}

	return q, nil
}

func (o *QueryOpts) output() io.Writer {
	if o.out != nil {
		return o.out
	}
	return os.Stdout
}
