package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		otp, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, otp, otpDigits)
		for _, ch := range otp {
			assert.True(t, ch >= '0' && ch <= '9', "OTP harus numerik: %s", otp)
		}
		seen[otp] = true
	}
	// 50 OTP identik semua praktis mustahil
	assert.Greater(t, len(seen), 1)
}
