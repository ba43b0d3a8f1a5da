package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateAccepted(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-03-15", "2024-03-15"},
		{"15/03/2024", "2024-03-15"},
		{"5/3/2024", "2024-03-05"},
		{"05-03-2024", "2024-03-05"},
		{"05.03.2024", "2024-03-05"},
		{" 15/03/2024 ", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{"2024-03-15T10:30:00Z", "2024-03-15"},
		{"March 15, 2024", "2024-03-15"},
		{"15 Mar 2024", "2024-03-15"},
		{"2024-3-5", "2024-03-05"},
		{"2024-12-1", "2024-12-01"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateRejected(t *testing.T) {
	for _, raw := range []string{"", "   ", "31/02/2024", "2024-13-01", "2024-02-30", "32/01/2024", "not a date", "15/03/24", "2024-2-30"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseDate(raw)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestParseDateIsDayFirst(t *testing.T) {
	got, err := ParseDate("01/02/2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", got)
}

func TestParseDateIdempotent(t *testing.T) {
	for _, raw := range []string{"2024-03-15", "15/03/2024", "5/3/2024", "2024-3-5", "March 15, 2024"} {
		once, err := ParseDate(raw)
		require.NoError(t, err)
		twice, err := ParseDate(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, raw)
	}
}
