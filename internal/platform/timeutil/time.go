// Package timeutil holds the timestamp formats shared by logs and API
// responses.
package timeutil

import (
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// RFC3339Millis is RFC 3339 UTC with fixed millisecond precision, used in
// API responses.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision, used in
// log entries.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// Time is a timestamp that encodes as an RFC3339Millis string in both JSON
// and CBOR, e.g. "2024-01-15T10:30:00.000Z".
type Time struct {
	time.Time
}

// Now returns the current time truncated to milliseconds.
func Now() Time {
	return Time{Time: time.Now().UTC().Truncate(time.Millisecond)}
}

func (t Time) String() string {
	return t.UTC().Format(RFC3339Millis)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON accepts any RFC 3339 string. JSON null leaves t unchanged.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	return t.parse(s)
}

// MarshalCBOR encodes t as a CBOR text string, matching the JSON form.
func (t Time) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(t.String())
}

func (t *Time) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.parse(s)
}

func (t *Time) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
