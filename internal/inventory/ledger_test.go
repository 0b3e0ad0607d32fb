package inventory

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockAddsAndRecordsHistory(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Stock("water", 100, 1))
	require.NoError(t, l.Stock("water", 50, 1))
	require.NoError(t, l.Stock("bread", 0, 1))

	assert.Equal(t, 150, l.Quantity("water"))
	assert.Equal(t, 0, l.Quantity("bread"))
	assert.Equal(t, 150, l.Total())
	assert.Len(t, l.History(), 3)

	err := l.Stock("water", -1, 1)
	assert.True(t, errors.Is(err, ErrNegativeQuantity))
	assert.Equal(t, 150, l.Quantity("water"))
	assert.Len(t, l.History(), 3)
}

func TestConsumeIsAHardCap(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Stock("milk", 10, 1))

	assert.True(t, l.Consume("milk", 4))
	assert.Equal(t, 6, l.Quantity("milk"))

	assert.False(t, l.Consume("milk", 7))
	assert.Equal(t, 6, l.Quantity("milk"))

	assert.True(t, l.Consume("milk", 6))
	assert.Equal(t, 0, l.Quantity("milk"))
	assert.False(t, l.Consume("honey", 1))
}

func TestSnapshotIsDefensive(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Stock("snack", 5, 1))

	snap := l.Snapshot()
	snap["snack"] = 999
	assert.Equal(t, 5, l.Quantity("snack"))
}

func TestLedgerJSONRoundTrip(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Stock("water", 12, 2))
	assert.True(t, l.Consume("water", 2))

	data, err := json.Marshal(l)
	require.NoError(t, err)

	restored := NewLedger()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, 10, restored.Quantity("water"))
	assert.Len(t, restored.History(), 1)

	err = json.Unmarshal([]byte(`{"quantities":{"water":-3}}`), restored)
	assert.Error(t, err)
}
