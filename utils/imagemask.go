package utils

import (
	"errors"
	"mime/multipart"
)

// ErrInvalidMask reports a malformed image mask: too long, non-digit
// characters, the reserved digit 9, a repeated digit, or a length that does
// not match the number of uploaded files.
var ErrInvalidMask = errors.New("invalid image mask")

// ValidateMask checks an image mask. A mask is a string of at most 9 distinct
// digits in [0,8], each mapping the Nth file (or deletion target) to a slot.
func ValidateMask(mask string) error {
	if len(mask) > 9 {
		return ErrInvalidMask
	}

	var seen [9]bool
	for _, c := range []byte(mask) {
		if c < '0' || c > '9' {
			return ErrInvalidMask
		}
		d := int(c - '0')
		if d == 9 {
			return ErrInvalidMask
		}
		if seen[d] {
			return ErrInvalidMask
		}
		seen[d] = true
	}
	return nil
}

// ZipMaskFiles binds a mask to the uploaded files in order, returning a
// slot-index to file mapping. The file count must equal the mask length.
func ZipMaskFiles(mask string, files []*multipart.FileHeader) (map[int]*multipart.FileHeader, error) {
	if err := ValidateMask(mask); err != nil {
		return nil, err
	}
	if len(files) != len(mask) {
		return nil, ErrInvalidMask
	}

	zipped := make(map[int]*multipart.FileHeader, len(mask))
	for i := 0; i < len(mask); i++ {
		zipped[int(mask[i]-'0')] = files[i]
	}
	return zipped, nil
}

// ExtractSlots parses a mask into its ordered slot indices, for deletion
// requests that carry no file payload.
func ExtractSlots(mask string) ([]int, error) {
	if err := ValidateMask(mask); err != nil {
		return nil, err
	}

	slots := make([]int, len(mask))
	for i := 0; i < len(mask); i++ {
		slots[i] = int(mask[i] - '0')
	}
	return slots, nil
}
