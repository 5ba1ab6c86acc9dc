package models

import (
	"encoding/json"
	"time"
)

// Timestamp is a point in time expressed as milliseconds since the Unix epoch
type Timestamp int64

// TimestampFromTime converts a time.Time to a Timestamp
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time returns the timestamp as a time.Time in the local zone
func (t Timestamp) Time() time.Time {
	return time.UnixMilli(int64(t))
}

// OptionalTimestamp is a Timestamp that may be absent
type OptionalTimestamp struct {
	Value Timestamp
	Valid bool
}

// None is the absent OptionalTimestamp
var None = OptionalTimestamp{}

// Some wraps a present timestamp
func Some(t Timestamp) OptionalTimestamp {
	return OptionalTimestamp{Value: t, Valid: true}
}

// Or returns o when it is present and other otherwise
func (o OptionalTimestamp) Or(other OptionalTimestamp) OptionalTimestamp {
	if o.Valid {
		return o
	}
	return other
}

// OrElse returns the wrapped value, or fallback() when absent
func (o OptionalTimestamp) OrElse(fallback func() Timestamp) Timestamp {
	if o.Valid {
		return o.Value
	}
	return fallback()
}

// Max returns the larger of two optional timestamps, ignoring absent ones
func (o OptionalTimestamp) Max(other OptionalTimestamp) OptionalTimestamp {
	switch {
	case !o.Valid:
		return other
	case !other.Valid:
		return o
	case other.Value > o.Value:
		return other
	default:
		return o
	}
}

// MarshalJSON encodes an absent timestamp as null
func (o OptionalTimestamp) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(int64(o.Value))
}

// UnmarshalJSON accepts null or an integer number of milliseconds
func (o *OptionalTimestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(Timestamp(v))
	return nil
}

// PathTimestamps holds the history-derived timestamps of a single tracked path
type PathTimestamps struct {
	Addition   OptionalTimestamp `json:"addition"`
	LastChange OptionalTimestamp `json:"last_change"`
}

// DocumentTimestamps are the resolved dates of one logical document
type DocumentTimestamps struct {
	Created        OptionalTimestamp `json:"created"`
	Updated        OptionalTimestamp `json:"updated"`
	UpdatedSort    Timestamp         `json:"updated_sort"`
	HistoryManaged bool              `json:"history_managed"`
}
