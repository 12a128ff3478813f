package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentVersion(t *testing.T) {
	for _, v := range []string{"dev", "unknown", ""} {
		_, err := currentVersion(v)
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "dev build")
	}

	cur, err := currentVersion("v1.4.2")
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", cur.String())

	_, err = currentVersion("not-a-version")
	require.Error(t, err)
}

func TestIsNewer(t *testing.T) {
	cur, err := currentVersion("v1.4.2")
	require.NoError(t, err)

	tests := []struct {
		latest string
		want   bool
	}{
		{"1.4.3", true},
		{"v2.0.0", true},
		{"1.4.2", false},
		{"1.3.9", false},
		{"1.4.2-rc.1", false},
	}
	for _, tt := range tests {
		got, err := isNewer(cur, tt.latest)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.latest)
	}

	_, err = isNewer(cur, "garbage")
	require.Error(t, err)
}
