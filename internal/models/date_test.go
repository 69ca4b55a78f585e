package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", d.String())

	d, err = ParseDate("2024-1-2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", d.String())

	_, err = ParseDate("02/01/2024")
	assert.Error(t, err)
}

func TestDate_ZeroValue(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
	assert.False(t, NewDate(2024, time.January, 1).IsZero())
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(wrapper{Date: NewDate(2024, time.March, 9)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-09"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-09"}`), &w))
	assert.Equal(t, NewDate(2024, time.March, 9), w.Date)

	require.NoError(t, json.Unmarshal([]byte(`{"date":""}`), &w))
	assert.True(t, w.Date.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"yesterday"}`), &w))
}

func TestDate_Normalizes(t *testing.T) {
	d := NewDate(2024, time.January, 32)
	assert.Equal(t, "2024-02-01", d.String())
	assert.True(t, NewDate(2024, time.January, 1).Before(d))
}
