package s1_universe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	builder, err := NewBuilder(DefaultConfig())
	require.NoError(t, err)

	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)
	codes := []string{"600519", "000001", "300750", "688981", "830799", "600401", "000005", "601988"}
	names := map[string]string{
		"600519": "贵州茅台",
		"000001": "平安银行",
		"300750": "宁德时代",
		"600401": "*ST海润",
		"000005": "ST星源",
		"601988": "中国银行",
	}

	universe := builder.Build(date, codes, names)

	assert.Equal(t, date, universe.Date)
	assert.Equal(t, len(codes), universe.TotalCount)
	assert.Equal(t, []string{"000001", "600519", "601988"}, universe.Stocks)
	assert.Equal(t, "贵州茅台", universe.NameOf("600519"))

	excluded, reason := universe.IsExcluded("300750")
	assert.True(t, excluded)
	assert.Contains(t, reason, "denied board")

	_, reason = universe.IsExcluded("830799")
	assert.Equal(t, "board not allowed", reason)

	_, reason = universe.IsExcluded("600401")
	assert.Contains(t, reason, "name excluded")
	_, reason = universe.IsExcluded("000005")
	assert.Contains(t, reason, "name excluded")
}

func TestBuilder_MissingNameIsEligible(t *testing.T) {
	builder, err := NewBuilder(DefaultConfig())
	require.NoError(t, err)

	universe := builder.Build(time.Now(), []string{"600000"}, map[string]string{})
	assert.Equal(t, []string{"600000"}, universe.Stocks)
	assert.Equal(t, "unknown", universe.NameOf("600000"))
}

func TestBuilder_CheckExclusion(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		code   string
		stock  string
		want   string
	}{
		{name: "lowercase st", config: DefaultConfig(), code: "600001", stock: "st 某某", want: "name excluded (st 某某)"},
		{name: "delisting marker", config: DefaultConfig(), code: "600002", stock: "退市某某", want: "name excluded (退市某某)"},
		{name: "clean", config: DefaultConfig(), code: "600003", stock: "某某股份", want: ""},
		{name: "no allow list", config: Config{DenyPrefixes: []string{"68"}}, code: "300001", stock: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuilder(tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.checkExclusion(tt.code, tt.stock))
		})
	}
}

func TestBuilder_CheckPrice(t *testing.T) {
	b, err := NewBuilder(Config{PriceMin: 5, PriceMax: 20})
	require.NoError(t, err)

	assert.Equal(t, "", b.CheckPrice(5))
	assert.Equal(t, "", b.CheckPrice(12))
	assert.Equal(t, "", b.CheckPrice(20))
	assert.Contains(t, b.CheckPrice(4.99), "below")
	assert.Contains(t, b.CheckPrice(20.01), "above")
}

func TestNewBuilder_InvalidConfig(t *testing.T) {
	_, err := NewBuilder(Config{ExcludeNamePattern: "("})
	assert.Error(t, err)

	_, err = NewBuilder(Config{PriceMin: 30, PriceMax: 10})
	assert.Error(t, err)
}
