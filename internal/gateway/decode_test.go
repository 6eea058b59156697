package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffrate/staffrate/internal/api"
)

func TestDecodeList(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		ratings, shape, err := DecodeList[api.Rating]([]byte(`[{"_id":"r1","rating":4},{"_id":"r2","rating":2}]`))
		require.NoError(t, err)
		assert.Equal(t, ShapeBare, shape)
		require.Len(t, ratings, 2)
		assert.Equal(t, "r1", ratings[0].ID)
	})

	t.Run("data envelope", func(t *testing.T) {
		ratings, shape, err := DecodeList[api.Rating]([]byte(`{"data":[{"_id":"r1","rating":4}]}`))
		require.NoError(t, err)
		assert.Equal(t, ShapeEnvelope, shape)
		require.Len(t, ratings, 1)
	})

	t.Run("empty array", func(t *testing.T) {
		ratings, _, err := DecodeList[api.Rating]([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, ratings)
	})

	t.Run("envelope without data is rejected", func(t *testing.T) {
		_, _, err := DecodeList[api.Rating]([]byte(`{"message":"ok"}`))
		require.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, _, err := DecodeList[api.Rating]([]byte(`"nope"`))
		require.Error(t, err)
	})
}
