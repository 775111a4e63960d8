package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/nvkalinin/workday-locator/log"
	"github.com/nvkalinin/workday-locator/store"
)

type Source interface {
	// GetYear может вернуть не все месяцы года.
	GetYear(y int) (store.Months, error)
}

type Store interface {
	PutYear(y int, data store.Months) error
}

type ProcOpts struct {
	Src      []Source  // Источники исключений, результаты объединяются.
	Store    Store     // Куда сохранять итоговые исключения (необязательно, если нужен только MakeCalendar).
	UpdateAt time.Time // Используется только время, остальное игнорируется.
}

// Processor собирает исключенные дни из всех источников и сохраняет их в Store.
type Processor struct {
	ProcOpts
	stopCh chan struct{}
	doneCh chan struct{}
}

func NewProcessor(opts ProcOpts) *Processor {
	return &Processor{
		ProcOpts: opts,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// RunUpdates раз в сутки (UpdateAt) обновляет исключения за текущий и следующий год.
func (p *Processor) RunUpdates() {
	defer close(p.doneCh)

	t := time.NewTimer(p.untilNextRun())
	defer t.Stop()
	for {
		select {
		case <-t.C:
			p.UpdateCurrentYears()
			t.Reset(p.untilNextRun())

		case <-p.stopCh:
			return
		}
	}
}

// Shutdown останавливает RunUpdates. Вызывать только если RunUpdates был запущен.
func (p *Processor) Shutdown(ctx context.Context) error {
	close(p.stopCh)

	select {
	case <-p.doneCh:
		return nil
	case <-ctx.Done():
		log.Printf("[WARN] calendar/proc shutdown timeout")
		return ctx.Err()
	}
}

func (p *Processor) untilNextRun() time.Duration {
	now := time.Now()

	nextRun := time.Date(
		now.Year(), now.Month(), now.Day(),
		p.UpdateAt.Hour(), p.UpdateAt.Minute(), p.UpdateAt.Second(), p.UpdateAt.Nanosecond(),
		time.Local,
	)

	d := time.Until(nextRun)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

func (p *Processor) UpdateCurrentYears() {
	y := time.Now().Year()

	if err := p.UpdateCalendar(y); err != nil {
		log.Printf("[WARN] calendar/proc cannot update %d: %+v", y, err)
	}

	if err := p.UpdateCalendar(y + 1); err != nil {
		log.Printf("[WARN] calendar/proc cannot update %d: %+v", y+1, err)
	}
}

func (p *Processor) UpdateCalendar(y int) error {
	cal := p.MakeCalendar(y)
	if err := p.Store.PutYear(y, cal); err != nil {
		return fmt.Errorf("calendar/proc cannot store year %d: %w", y, err)
	}
	log.Printf("[INFO] calendar/proc updated %d, %d month(s) with exclusions", y, len(cal))
	return nil
}

// MakeCalendar объединяет исключения за год из всех источников Src.
// Источник, вернувший ошибку, пропускается.
func (p *Processor) MakeCalendar(y int) store.Months {
	cal := store.Months{}

	for i, src := range p.Src {
		months, err := src.GetYear(y)
		if err != nil {
			log.Printf("[WARN] calendar/proc skipping source %d (%T), error: %+v", i, src, err)
			continue
		}

		cal = store.Merge(cal, months)
	}

	return cal
}
