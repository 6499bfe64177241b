package jwt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// maxUnixTimestamp is 9999-12-31T23:59:59Z; anything later is rejected as
// garbage rather than wrapped.
const maxUnixTimestamp = 253402300799

// NumericDate is an RFC 7519 NumericDate: seconds since the Unix epoch,
// marshaled as a bare JSON number. The zero value marshals as null and
// means "claim absent".
type NumericDate struct {
	time.Time
}

// NewNumericDate wraps t as a NumericDate.
func NewNumericDate(t time.Time) NumericDate {
	return NumericDate{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (d NumericDate) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, d.Unix(), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler. Accepts a bare integer, a
// quoted integer, or null.
func (d *NumericDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	unix, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("jwt: invalid numeric date %q", s)
	}
	if unix < 0 || unix > maxUnixTimestamp {
		return fmt.Errorf("jwt: numeric date %d out of range", unix)
	}

	d.Time = time.Unix(unix, 0).UTC()
	return nil
}
