package safeconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustUint32ToInt(t *testing.T) {
	t.Parallel()

	t.Run("normal_value", func(t *testing.T) {
		t.Parallel()

		got := MustUint32ToInt(42)
		assert.Equal(t, 42, got)
	})

	t.Run("zero", func(t *testing.T) {
		t.Parallel()

		got := MustUint32ToInt(0)
		assert.Equal(t, 0, got)
	})

	t.Run("max_uint32", func(t *testing.T) {
		t.Parallel()

		got := MustUint32ToInt(math.MaxUint32)
		assert.Equal(t, int(math.MaxUint32), got)
	})
}

func TestMustIntToUint64(t *testing.T) {
	t.Parallel()

	t.Run("normal_value", func(t *testing.T) {
		t.Parallel()

		got := MustIntToUint64(42)
		assert.Equal(t, uint64(42), got)
	})

	t.Run("zero", func(t *testing.T) {
		t.Parallel()

		got := MustIntToUint64(0)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("negative_panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "safeconv: negative int to uint64 conversion", func() {
			MustIntToUint64(-1)
		})
	})
}
