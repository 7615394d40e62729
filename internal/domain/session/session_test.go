package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{input: "03:00", want: TimeOfDay{3, 0}},
		{input: "14:30", want: TimeOfDay{14, 30}},
		{input: "00:00", want: TimeOfDay{0, 0}},
		{input: "23:59", want: TimeOfDay{23, 59}},
		{input: "24:00", wantErr: true},
		{input: "10:60", wantErr: true},
		{input: "10", wantErr: true},
		{input: "ten:00", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_Before(t *testing.T) {
	assert.True(t, TimeOfDay{3, 0}.Before(TimeOfDay{4, 0}))
	assert.True(t, TimeOfDay{3, 0}.Before(TimeOfDay{3, 30}))
	assert.False(t, TimeOfDay{4, 0}.Before(TimeOfDay{3, 0}))
	assert.False(t, TimeOfDay{3, 0}.Before(TimeOfDay{3, 0}))
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "03:05", TimeOfDay{3, 5}.String())
	assert.Equal(t, "14:00", TimeOfDay{14, 0}.String())
}
