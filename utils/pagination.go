package utils

import "errors"

// ErrOutOfRange reports pagination arguments outside their valid bounds,
// including offsets that would overflow the signed integer range.
var ErrOutOfRange = errors.New("pagination argument out of range")

// Paginate converts a zero-based page number and a page size into an
// offset/limit pair. The multiplication is checked: an overflowing offset
// fails with ErrOutOfRange instead of wrapping silently.
func Paginate(page, pageSize int) (offset, limit int, err error) {
	if page < 0 || pageSize <= 0 {
		return 0, 0, ErrOutOfRange
	}

	offset = page * pageSize
	if page != 0 && offset/page != pageSize {
		return 0, 0, ErrOutOfRange
	}
	if offset < 0 {
		return 0, 0, ErrOutOfRange
	}

	return offset, pageSize, nil
}
