package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	calls []string
	value int
}

func TestApplyOrder(t *testing.T) {
	tg := &target{}
	err := Apply[*target](tg,
		NoError(func(t *target) { t.calls = append(t.calls, "a") }),
		New(func(t *target) error {
			t.calls = append(t.calls, "b")
			t.value = 3
			return nil
		}),
	)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, tg.calls)
	require.Equal(t, 3, tg.value)
}

func TestApplyStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	tg := &target{}
	err := Apply[*target](tg,
		New(func(*target) error { return boom }),
		NoError(func(t *target) { t.value = 1 }),
	)
	require.ErrorIs(t, err, boom)
	require.Zero(t, tg.value)
}

func TestApplySkipsNil(t *testing.T) {
	tg := &target{}
	require.NoError(t, Apply[*target](tg, nil, NoError(func(t *target) { t.value = 2 })))
	require.Equal(t, 2, tg.value)
}
