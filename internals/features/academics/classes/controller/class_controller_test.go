package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcademicYear(t *testing.T) {
	tests := []struct {
		year    string
		wantErr bool
	}{
		{"2025/2026", false},
		{"1999/2000", false},
		{"2025/2027", true}, // tidak berurutan
		{"2026/2025", true},
		{"2025-2026", true},
		{"2025", true},
		{"", true},
		{"abcd/efgh", true},
	}

	for _, tc := range tests {
		t.Run(tc.year, func(t *testing.T) {
			err := validateAcademicYear(tc.year)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
