package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, DefaultLimit, NormalizeLimit(-5))
	require.Equal(t, 40, NormalizeLimit(40))
	require.Equal(t, MaxLimit, NormalizeLimit(1000))
}

func TestNormalize(t *testing.T) {
	params := Normalize(Params{Limit: -1, Offset: -10})
	require.Equal(t, DefaultLimit, params.Limit)
	require.Equal(t, 0, params.Offset)

	params = Normalize(Params{Limit: 10, Offset: 30})
	require.Equal(t, 10, params.Limit)
	require.Equal(t, 30, params.Offset)
}

func TestPage(t *testing.T) {
	items := make([]int, 0, 30)
	for i := 0; i < 30; i++ {
		items = append(items, i)
	}

	first := Page(items, Params{Limit: 10, Offset: 0})
	require.Len(t, first, 10)
	require.Equal(t, 0, first[0])
	require.Equal(t, 9, first[9])

	last := Page(items, Params{Limit: 10, Offset: 25})
	require.Len(t, last, 5)
	require.Equal(t, 25, last[0])

	require.Empty(t, Page(items, Params{Limit: 10, Offset: 100}))

	// Zero limit falls back to the default page size.
	require.Len(t, Page(items, Params{}), DefaultLimit)
}
