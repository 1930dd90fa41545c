package errors

import "errors"

var (
	ErrUnitNotFound = errors.New("unit not found")

	ErrSnapshotUnavailable = errors.New("fleet snapshot unavailable")
)
