package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildID(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{name: "epoch date", date: "2026-01-15", expected: 0},
		{name: "next day after epoch", date: "2026-01-16", expected: 1},
		{name: "one year later", date: "2027-01-15", expected: 365},
		{name: "across a leap day", date: "2028-03-01", expected: 776},
		{name: "invalid format", date: "invalid", wantError: true},
		{name: "empty date", date: "", wantError: true},
		{name: "before epoch", date: "2026-01-14", wantError: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := buildID(tt.date)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInfoAndString(t *testing.T) {
	old := [2]string{BuildDate, BuildCommit}
	t.Cleanup(func() { BuildDate, BuildCommit = old[0], old[1] })

	BuildDate, BuildCommit = "", ""
	info := Info()
	assert.False(t, info.Calculated)
	assert.Equal(t, ErrNoBuildDate.Error(), info.Error)
	assert.Contains(t, String(), "unknown")

	BuildDate, BuildCommit = "2026-01-25", "abc123"
	info = Info()
	assert.True(t, info.Calculated)
	assert.Equal(t, 10, info.BuildID)
	assert.Equal(t, "arena build 10 (2026-01-25) commit[abc123] branch[unknown] ci[local]", String())
}
