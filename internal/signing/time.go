package signing

import "time"

const (
	// TimeFormat is the extended-basic ISO-8601 layout used for the
	// x-amz-date header (e.g. 20250529T034154Z).
	TimeFormat = "20060102T150405Z"

	// ShortTimeFormat is the date portion used in the credential scope.
	ShortTimeFormat = "20060102"
)

// SigningTime wraps the request timestamp and renders the two layouts the
// signing scheme needs. Must be computed fresh per call; a stale timestamp
// beyond the remote's clock-skew tolerance fails authentication.
type SigningTime struct {
	time.Time
}

// NewSigningTime creates a SigningTime, normalized to UTC.
func NewSigningTime(t time.Time) SigningTime {
	return SigningTime{Time: t.UTC()}
}

// TimeFormat returns the timestamp for the x-amz-date header.
func (t SigningTime) TimeFormat() string {
	return t.Time.Format(TimeFormat)
}

// ShortTimeFormat returns the date stamp for the credential scope.
func (t SigningTime) ShortTimeFormat() string {
	return t.Time.Format(ShortTimeFormat)
}
