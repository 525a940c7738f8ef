package structs

import (
	"strconv"

	"github.com/TheRockettek/snowflake"
)

// The teacher's own structs/snowflake.go and internal/snowflake.go each do
// nothing but repoint the real TheRockettek/snowflake package's Epoch at
// Discord's (2015-01-01), rather than the Twitter epoch the bare package
// defaults to. We mirror that exactly: Snowflake's decode/encode below is
// our own wire codec and does not use this Epoch, but any id-time math
// done through that package does.
func init() { //nolint:gochecknoinits
	snowflake.Epoch = 1420070400000
}

// Snowflake is a Discord identifier. The wire format is a JSON string of
// decimal digits; it is modeled as a distinct integer type so a malformed
// id is a decode-time error instead of propagating as an opaque string.
type Snowflake uint64

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Snowflake) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*s = 0
		return nil
	}

	str := string(b)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	if str == "" {
		*s = 0
		return nil
	}

	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return err
	}

	*s = Snowflake(v)

	return nil
}

func (s Snowflake) IsNil() bool {
	return s == 0
}

// Timestamp wraps Discord's ISO8601 timestamps. Many fields are either an
// empty string or missing rather than a strictly valid timestamp, so this
// is kept as a thin string wrapper rather than time.Time, matching the
// teacher's own Channel.LastMessageID/Member.JoinedAt treatment.
type Timestamp string

func (t Timestamp) IsZero() bool {
	return t == ""
}
