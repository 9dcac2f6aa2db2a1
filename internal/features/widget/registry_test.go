package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeDefaults(t *testing.T) {
	tests := []struct {
		typ  Type
		w, h int
	}{
		{TypeStatCard, 3, 2},
		{TypeLineChart, 6, 4},
		{TypeBarChart, 6, 4},
		{TypePieChart, 4, 4},
		{TypeAreaChart, 6, 4},
		{TypeTable, 6, 4},
		{TypeProgressRing, 3, 3},
		{TypeLeaderboard, 4, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			d := Describe(tt.typ)
			assert.Equal(t, tt.w, d.DefaultWidth)
			assert.Equal(t, tt.h, d.DefaultHeight)
			assert.NotEmpty(t, d.SourceList())
		})
	}
}

func TestDescribeUnknownTypePanics(t *testing.T) {
	assert.Panics(t, func() { Describe(Type("gauge")) })
}

func TestIsCompatibleMatchesDeclaredSets(t *testing.T) {
	for _, d := range Types() {
		for _, src := range DataSources() {
			_, declared := d.CompatibleSources[src]
			assert.Equal(t, declared, IsCompatible(d.Type, src), "%s/%s", d.Type, src)
		}
	}
	assert.False(t, IsCompatible(TypePieChart, SourceLoginFrequency))
	assert.True(t, IsCompatible(TypeLineChart, SourceLoginFrequency))
	assert.False(t, IsCompatible(Type("gauge"), SourceActiveUsers))
}

func TestParse(t *testing.T) {
	typ, err := ParseType("bar_chart")
	require.NoError(t, err)
	assert.Equal(t, TypeBarChart, typ)

	_, err = ParseType("gauge")
	assert.Error(t, err)

	src, err := ParseDataSource("device_usage")
	require.NoError(t, err)
	assert.Equal(t, SourceDeviceUsage, src)

	_, err = ParseDataSource("revenue")
	assert.Error(t, err)
}

func TestTypesPaletteOrder(t *testing.T) {
	types := Types()
	require.Len(t, types, 8)
	assert.Equal(t, TypeStatCard, types[0].Type)
	assert.Equal(t, TypeLeaderboard, types[7].Type)
}
