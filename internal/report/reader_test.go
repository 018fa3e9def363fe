package report

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/pkg/logger"
)

func TestReadConfluence_RoundTrip(t *testing.T) {
	out := t.TempDir()
	w := NewWriter(out, runAt, logger.Nop())

	records := []contracts.ResonanceRecord{
		{Code: "600000", Name: "浦发银行", Strategies: []string{"duck_hunter", "one_sun", "yin_line"}, ResonanceCount: 3, ActionGuide: "[duck_hunter]: x", Price: 12},
		{Code: "000001", Name: "平安银行", Strategies: []string{"one_sun", "golden_pit"}, ResonanceCount: 2, ActionGuide: "[one_sun]: a | [golden_pit]: b", Price: 10.5},
		{Code: "600010", Name: "unknown", Strategies: []string{"one_sun"}, ResonanceCount: 1, Price: math.NaN()},
	}
	_, err := w.WriteConfluence(records)
	require.NoError(t, err)

	snap, err := ReadConfluence(out)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Core)
	assert.Equal(t, 1, snap.Watch)
	assert.False(t, snap.GeneratedAt.IsZero())
	require.Len(t, snap.Records, 3)
	assert.Equal(t, records[0], snap.Records[0])
	assert.Equal(t, records[1], snap.Records[1])
	assert.Zero(t, snap.Records[2].Price)
}

func TestReadConfluence_Missing(t *testing.T) {
	_, err := ReadConfluence(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseConfluence_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "empty", body: "", want: "empty report"},
		{name: "wrong header", body: "code,name,strategies,count,guide,price\n", want: "column 2"},
		{name: "bad count", body: "code,name,strategy_list,resonance_count,action_guide,price\n600000,a,one_sun,x,,10.00\n", want: "resonance_count"},
		{name: "bad price", body: "code,name,strategy_list,resonance_count,action_guide,price\n600000,a,one_sun,1,,ten\n", want: "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfluence(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseConfluence_HeaderOnly(t *testing.T) {
	records, err := ParseConfluence(strings.NewReader(bom + strings.Join(confluenceHeader, ",") + "\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}
