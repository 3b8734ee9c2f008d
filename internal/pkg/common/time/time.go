package time

import (
	"encoding/json"
	"time"
)

// Time wraps stdlib time.Time to customize JSON marshaling.
// When zero, it marshals to an empty string ""; otherwise RFC3339 in UTC.
type Time time.Time

// Now returns the current time as Time.
func Now() Time { return Time(time.Now()) }

// MarshalJSON renders zero time as "" and non-zero in RFC3339 format.
func (t Time) MarshalJSON() ([]byte, error) {
	if time.Time(t).IsZero() {
		return []byte(`""`), nil
	}

	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

// EpochMillis is the `{ "number": <unix ms> }` shape the dashboard UI expects for last_update.
type EpochMillis struct {
	Number int64 `json:"number"`
}

// Millis converts t to EpochMillis.
func Millis(t time.Time) EpochMillis {
	return EpochMillis{Number: t.UnixMilli()}
}
