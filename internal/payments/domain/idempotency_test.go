package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeRequestHash(t *testing.T) {
	orderID := uuid.MustParse("0195a7b2-1f68-7aaa-8bbb-0123456789ab")

	t.Run("is deterministic", func(t *testing.T) {
		first := ComputeRequestHash(orderID, "user-1", 100.5, "RUB", "fp-1")
		second := ComputeRequestHash(orderID, "user-1", 100.5, "RUB", "fp-1")

		assert.Equal(t, first, second)
		assert.Len(t, first, 64)
	})

	t.Run("amount uses two decimal places", func(t *testing.T) {
		first := ComputeRequestHash(orderID, "user-1", 100.5, "RUB", "fp-1")
		second := ComputeRequestHash(orderID, "user-1", 100.50, "RUB", "fp-1")

		assert.Equal(t, first, second)
	})

	t.Run("every field contributes", func(t *testing.T) {
		base := ComputeRequestHash(orderID, "user-1", 100.5, "RUB", "fp-1")

		assert.NotEqual(t, base, ComputeRequestHash(uuid.New(), "user-1", 100.5, "RUB", "fp-1"))
		assert.NotEqual(t, base, ComputeRequestHash(orderID, "user-2", 100.5, "RUB", "fp-1"))
		assert.NotEqual(t, base, ComputeRequestHash(orderID, "user-1", 100.51, "RUB", "fp-1"))
		assert.NotEqual(t, base, ComputeRequestHash(orderID, "user-1", 100.5, "EUR", "fp-1"))
		assert.NotEqual(t, base, ComputeRequestHash(orderID, "user-1", 100.5, "RUB", "fp-2"))
	})
}
