package valueobject

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Due  Date  `json:"due"`
		Paid *Date `json:"paid"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-03-31","paid":null}`), &payload))
	assert.Equal(t, "2024-03-31", payload.Due.String())
	assert.Nil(t, payload.Paid)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-03-31","paid":null}`, string(out))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d.Time)

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestDate_UnmarshalParam(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalParam("2025-01-15"))
	assert.Equal(t, 15, d.Day())

	require.NoError(t, d.UnmarshalParam(""))
	assert.True(t, d.IsZero())
}
