package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Storage engines return these
// (optionally wrapped) so services can translate them into domain errors.
//
// - ErrNotFound: document does not exist in its collection
// - ErrConflict: identifier, schema or record type already registered differently
// - ErrInvalidState: document shape does not match the registered schema
// - ErrUnavailable: storage backend unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
