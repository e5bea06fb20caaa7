package data

import "errors"

// Malformed or absent numeric fields in remote records abort the whole
// fetch; callers wrap these with the offending record id.
var (
	ErrMissingChapterNumber = errors.New("missing chapter number")
	ErrInvalidChapterNumber = errors.New("invalid chapter number")
	ErrInvalidVolumeNumber  = errors.New("invalid volume number")

	// ErrMissingPayload marks a download that resolved but returned no bytes.
	ErrMissingPayload = errors.New("missing payload")
)
