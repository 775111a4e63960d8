package cmd

import (
	"fmt"

	"github.com/nvkalinin/workday-locator/log"
	"github.com/nvkalinin/workday-locator/workday"
)

type Locate struct {
	QueryOpts
	Format string `long:"format" short:"f" env:"FORMAT" value-name:"layout" default:"2006-01-02" description:"Формат даты в нотации Go time.Format."`

	Args struct {
		Nth   int `positional-arg-name:"nth" description:"Какой по счету рабочий день нужен (1-31). Отрицательные значения передавать после '--', иначе они читаются как флаги."`
		Month int `positional-arg-name:"month" description:"Месяц (1-12)."`
		Year  int `positional-arg-name:"year" description:"Год (1-9999)."`
	} `positional-args:"yes" required:"yes"`
}

func (l *Locate) Execute(args []string) error {
	q, err := l.makeQuery(l.Args.Month, l.Args.Year)
	if err != nil {
		return err
	}
	q.Nth = l.Args.Nth
	log.Printf("[DEBUG] locate: %+v", q)

	date, err := workday.Locate(q)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(l.output(), date.Format(l.Format))
	return err
}
