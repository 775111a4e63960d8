package source

import (
	"testing"
	"time"

	"github.com/nvkalinin/workday-locator/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_GetYear(t *testing.T) {
	s := &Static{Days: store.Days{15, 1, 15}}

	months, err := s.GetYear(2022)
	require.NoError(t, err)
	assert.Len(t, months, 12)
	assert.Equal(t, store.Days{1, 15}, months[time.February])

	// Месяцы не должны разделять один слайс.
	months[time.January][0] = 2
	assert.Equal(t, store.Days{1, 15}, months[time.March])

	months, err = (&Static{}).GetYear(2022)
	require.NoError(t, err)
	assert.Len(t, months, 0)
}
