package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"500", "500", false},
		{" 500.00 ", "500", false},
		{"0.01", "0.01", false},
		{"999999999999.99", "999999999999.99", false},
		{"0", "", true},
		{"-5", "", true},
		{"abc", "", true},
		{"", "", true},
		{"1.005", "", true},
		{"1000000000000", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			require.True(t, dec(tc.want).Equal(got), got.String())
		})
	}
}

func TestClampPayment(t *testing.T) {
	t.Run("partial", func(t *testing.T) {
		applied, bal, clamped, err := clampPayment(dec("500"), dec("200"))
		require.NoError(t, err)
		require.True(t, dec("200").Equal(applied))
		require.True(t, dec("300").Equal(bal))
		require.False(t, clamped)
	})

	t.Run("exact payoff", func(t *testing.T) {
		applied, bal, clamped, err := clampPayment(dec("100"), dec("100"))
		require.NoError(t, err)
		require.True(t, dec("100").Equal(applied))
		require.True(t, bal.IsZero())
		require.False(t, clamped)
	})

	t.Run("overpayment clamps", func(t *testing.T) {
		applied, bal, clamped, err := clampPayment(dec("100"), dec("150"))
		require.NoError(t, err)
		require.True(t, dec("100").Equal(applied))
		require.True(t, bal.IsZero())
		require.True(t, clamped)
	})

	t.Run("closed loan rejects", func(t *testing.T) {
		_, _, _, err := clampPayment(dec("0.00"), dec("1"))
		require.ErrorIs(t, err, ErrLoanAlreadyClosed)
	})
}
