package cmd

import (
	"fmt"

	"github.com/nvkalinin/workday-locator/workday"
)

type Count struct {
	QueryOpts
	List bool `long:"list" short:"l" description:"Вывести сами рабочие дни, по одному на строку."`

	Args struct {
		Month int `positional-arg-name:"month" description:"Месяц (1-12)."`
		Year  int `positional-arg-name:"year" description:"Год (1-9999)."`
	} `positional-args:"yes" required:"yes"`
}

func (c *Count) Execute(args []string) error {
	q, err := c.makeQuery(c.Args.Month, c.Args.Year)
	if err != nil {
		return err
	}

	days, err := workday.List(q)
	if err != nil {
		return err
	}

	out := c.output()
	if _, err := fmt.Fprintln(out, len(days)); err != nil {
		return err
	}
	if !c.List {
		return nil
	}

	for i, d := range days {
		if _, err := fmt.Fprintf(out, "%d\t%s\t%s\n", i+1, d.Format("2006-01-02"), workday.ShortName(d.Weekday())); err != nil {
			return err
		}
	}
	return nil
}
