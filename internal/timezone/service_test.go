package timezone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GetTimezone(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)

	tests := []struct {
		name string
		lat  float64
		lon  float64
		want string
	}{
		{name: "London", lat: 51.5085, lon: -0.1257, want: "Europe/London"},
		{name: "Tokyo", lat: 35.6895, lon: 139.6917, want: "Asia/Tokyo"},
		{name: "New York", lat: 40.7143, lon: -74.006, want: "America/New_York"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetTimezone(tt.lat, tt.lon)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Singleton(t *testing.T) {
	a, err := NewService()
	require.NoError(t, err)
	b, err := NewService()
	require.NoError(t, err)
	assert.Same(t, a.(*service), b.(*service))
}

func TestStatic(t *testing.T) {
	got, err := Static("UTC").GetTimezone(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "UTC", got)

	_, err = Static("").GetTimezone(0, 0)
	assert.Error(t, err)
}
