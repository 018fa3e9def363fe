package s0_data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Resolve(t *testing.T) {
	idx, err := DefaultSchema().Resolve([]string{"\ufeff日期", " Close ", "开盘", "high", "最低", "VOLUME", "unused"})
	require.NoError(t, err)

	assert.Equal(t, 0, idx[ColDate])
	assert.Equal(t, 1, idx[ColClose])
	assert.Equal(t, 2, idx[ColOpen])
	assert.Equal(t, 5, idx[ColVolume])
	_, hasTurnover := idx[ColTurnover]
	assert.False(t, hasTurnover)
}

func TestNewSchema_Validation(t *testing.T) {
	tests := []struct {
		name  string
		extra map[Column][]string
		want  string
	}{
		{name: "unknown column", extra: map[Column][]string{"vwap": {"均价"}}, want: "unknown column"},
		{name: "conflicting alias", extra: map[Column][]string{ColHigh: {"收盘"}}, want: "maps to both"},
		{name: "empty alias", extra: map[Column][]string{ColHigh: {"  "}}, want: "empty alias"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.extra)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSchema_YAMLOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns:\n  close: [\"收盘价\"]\n  volume: [\"成交量(手)\"]\n"), 0o644))

	s, err := LoadSchema(path)
	require.NoError(t, err)

	idx, err := s.Resolve([]string{"日期", "开盘", "最高", "最低", "收盘价", "成交量(手)"})
	require.NoError(t, err)
	assert.Equal(t, 4, idx[ColClose])
	assert.Equal(t, 5, idx[ColVolume])
}

func TestLoadSchema_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colums:\n  close: [x]\n"), 0o644))

	_, err := LoadSchema(path)
	assert.Error(t, err)
}
