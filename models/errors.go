package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id resolves to no file in either layout.
var ErrNotFound = errors.New("prediction record not found")

// ErrTerminalRecord is returned on any attempt to mutate a resolved record.
var ErrTerminalRecord = errors.New("record is resolved and closed to further changes")

// ParseError marks a record file whose frontmatter is malformed. The record
// is unusable until a human fixes the file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed record %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MarketFetchError is a transient failure while checking one record's market.
// The reconciler logs it and moves on; the next scheduled run is the retry.
type MarketFetchError struct {
	Provider string
	Slug     string
	Err      error
}

func (e *MarketFetchError) Error() string {
	return fmt.Sprintf("market fetch %s/%s: %v", e.Provider, e.Slug, e.Err)
}

func (e *MarketFetchError) Unwrap() error {
	return e.Err
}
