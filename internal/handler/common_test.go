package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"bare date closes at end of day", `"2025-12-20"`, time.Date(2025, 12, 20, 23, 59, 59, 0, time.UTC)},
		{"timestamp kept as given", `"2025-12-20T09:30:00+02:00"`, time.Date(2025, 12, 20, 7, 30, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.True(t, tt.want.Equal(d.Time), "got %s", d.Time)
		})
	}

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"20/12/2025"`), &d))
}

func TestDate_OpenDuringClosingDay(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-12-20"`), &d))

	noon := time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC)
	assert.False(t, d.Time.Before(noon), "issue must still be open at noon on its close date")
	assert.True(t, d.Time.Before(noon.Add(12*time.Hour)))
}
