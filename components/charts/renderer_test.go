package charts

import (
	"testing"
	"time"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-demodata/components/cache"
	"github.com/goliatone/go-demodata/components/synth"
)

func sampleChart() synth.ChartData {
	return synth.ChartData{
		Labels: []string{"Jan", "Feb", "Mar"},
		Datasets: []synth.Dataset{
			{Label: "Revenue", Data: []float64{10, 20, 30}, Fill: true},
			{Label: "Target", Data: []float64{12, 23, 35}, Dashed: true},
		},
	}
}

func TestRenderKinds(t *testing.T) {
	t.Parallel()
	r := NewRenderer()
	for _, kind := range []string{KindBar, KindLine, KindPie, KindScatter} {
		html, err := r.Render(kind, "Sales", sampleChart())
		require.NoError(t, err, kind)
		assert.Contains(t, html, "echarts", kind)
		assert.Contains(t, html, "Sales", kind)
	}
}

func TestRenderUsesTheme(t *testing.T) {
	t.Parallel()
	html, err := NewRenderer(WithTheme(types.ThemeChalk)).Render("LINE", "Themed", sampleChart())
	require.NoError(t, err)
	assert.Contains(t, html, types.ThemeChalk)
}

func TestRenderAssetsHost(t *testing.T) {
	t.Parallel()
	html, err := NewRenderer(WithAssetsHost("https://cdn.example.com/echarts/")).Render(KindBar, "Hosted", sampleChart())
	require.NoError(t, err)
	assert.Contains(t, html, "https://cdn.example.com/echarts/")
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()
	r := NewRenderer()
	_, err := r.Render("bubble", "Nope", sampleChart())
	assert.ErrorIs(t, err, ErrUnsupportedKind)
	_, err = r.Render(KindBar, "Empty", synth.ChartData{})
	assert.ErrorIs(t, err, ErrEmptyChart)
}

func TestRenderIsMemoized(t *testing.T) {
	t.Parallel()
	memo := cache.New[string](0)
	r := NewRenderer(WithCache(memo))
	_, err := r.Render(KindBar, "Memo", sampleChart())
	require.NoError(t, err)
	assert.Equal(t, 0, memo.Len(), "zero ttl stores nothing")

	memo = cache.New[string](time.Minute)
	r = NewRenderer(WithCache(memo))
	first, err := r.Render(KindBar, "Memo", sampleChart())
	require.NoError(t, err)
	second, err := r.Render(KindBar, "Memo", sampleChart())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, memo.Len())

	other := sampleChart()
	other.Datasets[0].Data[0] = 99
	_, err = r.Render(KindBar, "Memo", other)
	require.NoError(t, err)
	assert.Equal(t, 2, memo.Len())
}

func TestRenderWithoutCache(t *testing.T) {
	t.Parallel()
	html, err := NewRenderer(WithCache(nil)).Render(KindPie, "Shares", synth.ChartData{
		Labels:   []string{"Electronics"},
		Datasets: []synth.Dataset{{Label: "Share", Data: []float64{100}}},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Electronics")
}

func TestFromValue(t *testing.T) {
	t.Parallel()
	data, err := FromValue(sampleChart())
	require.NoError(t, err)
	assert.Equal(t, sampleChart(), data)

	funnel, err := FromValue([]synth.FunnelStage{{Name: "Visitors", Count: 1000}, {Name: "Buyers", Count: 40}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Visitors", "Buyers"}, funnel.Labels)
	assert.Equal(t, []float64{1000, 40}, funnel.Datasets[0].Data)

	_, err = FromValue(map[string]int{"a": 1})
	assert.ErrorIs(t, err, ErrNotChartable)
}

func TestDefaultKind(t *testing.T) {
	t.Parallel()
	assert.Equal(t, KindPie, DefaultKind("/api/charts/categories"))
	assert.Equal(t, KindPie, DefaultKind("/api/real/charts/categories"))
	assert.Equal(t, KindLine, DefaultKind("/api/charts/revenue"))
	assert.Equal(t, KindLine, DefaultKind("/api/charts/daily-users"))
	assert.Equal(t, KindBar, DefaultKind("/api/real/charts/stock"))
}

func TestRenderValue(t *testing.T) {
	t.Parallel()
	html, err := NewRenderer().RenderValue("/api/charts/revenue", "", "", sampleChart())
	require.NoError(t, err)
	assert.Contains(t, html, "/api/charts/revenue")
}
