package models

import "time"

// DateFormat is the on-disk format for created, deadline and resolved_date.
// Dates stay strings end to end so that the hash contract is byte-stable.
const DateFormat = "2006-01-02"

// Today returns the current date in DateFormat.
func Today() string {
	return time.Now().UTC().Format(DateFormat)
}

// NowTimestamp returns the current instant in RFC3339, used for update-trail
// entries and signing timestamps.
func NowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ValidDate reports whether s is a well-formed DateFormat date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateFormat, s)
	return err == nil
}
