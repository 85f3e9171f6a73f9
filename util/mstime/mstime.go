// Package mstime defines a millisecond-precision wrapper around time.Time.
// The wire protocol and the Komodo lock-time rules both reason about time
// at one-second or millisecond granularity, never sub-millisecond, so this
// type is used everywhere a consensus-relevant timestamp crosses a
// service boundary instead of the ambiguous time.Time directly.
package mstime

import "time"

// Time represents a millisecond-precision instant.
type Time struct {
	time time.Time
}

// Now returns the current time truncated to millisecond precision.
func Now() Time {
	return Time{time: time.Now().Truncate(time.Millisecond)}
}

// FromUnixMilliseconds creates a Time from milliseconds since the Unix
// epoch.
func FromUnixMilliseconds(unixMs int64) Time {
	return Time{time: time.Unix(0, unixMs*int64(time.Millisecond))}
}

// FromTime truncates t down to millisecond precision.
func FromTime(t time.Time) Time {
	return Time{time: t.Truncate(time.Millisecond)}
}

// UnixMilliseconds returns t as milliseconds since the Unix epoch.
func (t Time) UnixMilliseconds() int64 {
	return t.time.UnixNano() / int64(time.Millisecond)
}

// UnixSeconds returns t as seconds since the Unix epoch, the unit used by
// the lock_time and timestamp fields on the wire.
func (t Time) UnixSeconds() int64 {
	return t.time.Unix()
}

// Add returns t+d.
func (t Time) Add(d time.Duration) Time {
	return Time{time: t.time.Add(d)}
}

// Before reports whether t is strictly before u.
func (t Time) Before(u Time) bool {
	return t.time.Before(u.time)
}

// After reports whether t is strictly after u.
func (t Time) After(u Time) bool {
	return t.time.After(u.time)
}

// TruncateToInterval rounds t down to the nearest multiple of d since the
// Unix epoch. The handshake uses this with a five-minute interval so that
// Version timestamps don't leak fine-grained clock skew between peers.
func (t Time) TruncateToInterval(d time.Duration) Time {
	seconds := t.time.Unix()
	step := int64(d / time.Second)
	if step <= 0 {
		return t
	}
	truncated := (seconds / step) * step
	return Time{time: time.Unix(truncated, 0)}
}

// ToTime returns the underlying time.Time.
func (t Time) ToTime() time.Time {
	return t.time
}

func (t Time) String() string {
	return t.time.String()
}
