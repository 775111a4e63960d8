package calendar

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nvkalinin/workday-locator/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type SrcMock map[int]store.Months

func (s SrcMock) GetYear(y int) (store.Months, error) {
	months, ok := s[y]
	if !ok {
		return nil, fmt.Errorf("no such year: %d", y)
	}
	return months, nil
}

type StoreMock struct {
	mu    sync.Mutex
	years map[int]store.Months
}

func (s *StoreMock) PutYear(y int, m store.Months) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years[y] = m
	return nil
}

func (s *StoreMock) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.years)
}

func TestProcessor_UpdateCalendar(t *testing.T) {
	src1 := SrcMock{2022: {
		time.January: {1, 2, 7},
		time.March:   {8},
	}}
	src2 := SrcMock{2022: {
		time.January: {7, 3},
		time.May:     {9},
	}}
	broken := SrcMock{}

	tmpStore := &StoreMock{years: map[int]store.Months{}}

	p, _ := makeProcessor(ProcOpts{
		Src:   []Source{src1, broken, src2},
		Store: tmpStore,
	})
	err := p.UpdateCalendar(2022)
	require.NoError(t, err)

	exp := map[int]store.Months{2022: {
		time.January: {1, 2, 3, 7},
		time.March:   {8},
		time.May:     {9},
	}}
	assert.Equal(t, exp, tmpStore.years)

	// Год, которого нет ни в одном источнике, сохраняется пустым.
	err = p.UpdateCalendar(2030)
	require.NoError(t, err)
	assert.Equal(t, store.Months{}, tmpStore.years[2030])
}

func TestProcessor_RunUpdates(t *testing.T) {
	y := time.Now().Year()
	src := SrcMock{
		y:     {time.January: {1}},
		y + 1: {time.January: {1, 2}},
	}
	tmpStore := &StoreMock{years: map[int]store.Months{}}

	p, stop := makeProcessor(ProcOpts{
		Src:      []Source{src},
		Store:    tmpStore,
		UpdateAt: time.Now().Add(500 * time.Millisecond),
	})

	go p.RunUpdates()
	assert.Equal(t, 0, tmpStore.len())

	time.Sleep(1000 * time.Millisecond)
	assert.Equal(t, 2, tmpStore.len())
	assert.NoError(t, stop())
}

func makeProcessor(opts ProcOpts) (p *Processor, stop func() error) {
	p = NewProcessor(opts)
	return p, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.Shutdown(ctx)
	}
}
