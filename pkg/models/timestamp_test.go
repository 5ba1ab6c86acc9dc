package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalTimestampOr(t *testing.T) {
	assert.Equal(t, Some(1), Some(1).Or(Some(2)))
	assert.Equal(t, Some(2), None.Or(Some(2)))
	assert.Equal(t, None, None.Or(None))
}

func TestOptionalTimestampOrElse(t *testing.T) {
	called := false
	fallback := func() Timestamp {
		called = true
		return 99
	}

	assert.Equal(t, Timestamp(5), Some(5).OrElse(fallback))
	assert.False(t, called, "fallback must not run when a value is present")

	assert.Equal(t, Timestamp(99), None.OrElse(fallback))
	assert.True(t, called)
}

func TestOptionalTimestampMax(t *testing.T) {
	tests := []struct {
		name     string
		a, b     OptionalTimestamp
		expected OptionalTimestamp
	}{
		{"both absent", None, None, None},
		{"left only", Some(3), None, Some(3)},
		{"right only", None, Some(4), Some(4)},
		{"right larger", Some(3), Some(4), Some(4)},
		{"left larger", Some(7), Some(4), Some(7)},
		{"negative values", Some(-10), Some(-20), Some(-10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Max(tt.b))
		})
	}
}

func TestTimestampFromTime(t *testing.T) {
	at := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	ts := TimestampFromTime(at)

	assert.Equal(t, Timestamp(1709640000000), ts)
	assert.True(t, ts.Time().Equal(at))
}

func TestDocumentTimestampsJSON(t *testing.T) {
	doc := DocumentTimestamps{
		Created:     Some(1000),
		UpdatedSort: 1000,
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"created":1000,"updated":null,"updated_sort":1000,"history_managed":false}`, string(data))

	var decoded DocumentTimestamps
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc, decoded)
}
