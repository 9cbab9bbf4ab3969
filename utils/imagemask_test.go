package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMask(t *testing.T) {
	tests := []struct {
		name    string
		mask    string
		wantErr bool
	}{
		{name: "empty mask", mask: ""},
		{name: "single slot", mask: "0"},
		{name: "several slots", mask: "0815"},
		{name: "all nine slots", mask: "012345678"},
		{name: "digit nine rejected", mask: "01239", wantErr: true},
		{name: "repeated digit rejected", mask: "01421", wantErr: true},
		{name: "too long", mask: "0123456780", wantErr: true},
		{name: "non digit rejected", mask: "01a", wantErr: true},
		{name: "sign rejected", mask: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMask(tt.mask)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMask)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestZipMaskFiles(t *testing.T) {
	files := []*multipart.FileHeader{
		{Filename: "a.jpg"},
		{Filename: "b.jpg"},
		{Filename: "c.jpg"},
	}

	zipped, err := ZipMaskFiles("351", files)
	require.NoError(t, err)
	require.Len(t, zipped, 3)
	assert.Equal(t, "a.jpg", zipped[3].Filename)
	assert.Equal(t, "b.jpg", zipped[5].Filename)
	assert.Equal(t, "c.jpg", zipped[1].Filename)
}

func TestZipMaskFilesCountMismatch(t *testing.T) {
	files := []*multipart.FileHeader{{Filename: "a.jpg"}}

	_, err := ZipMaskFiles("35", files)
	assert.ErrorIs(t, err, ErrInvalidMask)

	_, err = ZipMaskFiles("", files)
	assert.ErrorIs(t, err, ErrInvalidMask)
}

func TestExtractSlots(t *testing.T) {
	slots, err := ExtractSlots("0815")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 8, 1, 5}, slots)

	slots, err = ExtractSlots("")
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = ExtractSlots("99")
	assert.ErrorIs(t, err, ErrInvalidMask)
}
