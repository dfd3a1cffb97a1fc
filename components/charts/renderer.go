package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-demodata/components/cache"
	"github.com/goliatone/go-demodata/components/synth"
)

// Chart kinds understood by Render.
const (
	KindBar     = "bar"
	KindLine    = "line"
	KindPie     = "pie"
	KindScatter = "scatter"
)

const defaultChartHeight = "360px"

var (
	ErrUnsupportedKind = errors.New("charts: unsupported chart kind")
	ErrEmptyChart      = errors.New("charts: chart has no datasets")
)

// Renderer turns chart payloads into self-contained ECharts HTML.
type Renderer struct {
	theme      string
	assetsHost string
	cache      *cache.TTL[string]
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithTheme sets the ECharts theme (defaults to Westeros).
func WithTheme(theme string) Option {
	return func(r *Renderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithAssetsHost loads the ECharts runtime from host instead of the default CDN.
func WithAssetsHost(host string) Option {
	return func(r *Renderer) {
		r.assetsHost = host
	}
}

// WithCache replaces the render cache. A nil cache disables memoization.
func WithCache(c *cache.TTL[string]) Option {
	return func(r *Renderer) {
		r.cache = c
	}
}

// NewRenderer builds a renderer that memoizes output for five minutes.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		theme: types.ThemeWesteros,
		cache: cache.New[string](5 * time.Minute),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws data as kind. Identical inputs hit the cache.
func (r *Renderer) Render(kind, title string, data synth.ChartData) (string, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if len(data.Datasets) == 0 {
		return "", ErrEmptyChart
	}
	render := func() (string, error) {
		switch kind {
		case KindBar:
			return r.bar(title, data)
		case KindLine:
			return r.line(title, data)
		case KindPie:
			return r.pie(title, data)
		case KindScatter:
			return r.scatter(title, data)
		default:
			return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
		}
	}
	if r.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%s:%s:%s:%s", kind, title, r.theme, cache.Hash(data))
	return r.cache.GetOrLoad(key, render)
}

func (r *Renderer) bar(title string, data synth.ChartData) (string, error) {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(title)...)
	bar.SetXAxis(data.Labels)
	for _, ds := range data.Datasets {
		items := make([]opts.BarData, len(ds.Data))
		for i, v := range ds.Data {
			items[i] = opts.BarData{Name: labelAt(data.Labels, i), Value: v}
			if i < len(ds.Colors) && len(ds.Colors) == len(ds.Data) {
				items[i].ItemStyle = &opts.ItemStyle{Color: ds.Colors[i]}
			}
		}
		bar.AddSeries(ds.Label, items)
	}
	return renderChart(bar)
}

func (r *Renderer) line(title string, data synth.ChartData) (string, error) {
	line := echarts.NewLine()
	line.SetGlobalOptions(r.globalOptions(title)...)
	line.SetXAxis(data.Labels)
	for _, ds := range data.Datasets {
		items := make([]opts.LineData, len(ds.Data))
		for i, v := range ds.Data {
			items[i] = opts.LineData{Name: labelAt(data.Labels, i), Value: v}
		}
		var series []echarts.SeriesOpts
		if ds.Dashed {
			series = append(series, echarts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
		}
		if ds.Fill {
			series = append(series, echarts.WithAreaStyleOpts(opts.AreaStyle{Color: "rgba(59, 130, 246, 0.1)"}))
		}
		line.AddSeries(ds.Label, items, series...)
	}
	line.SetSeriesOptions(echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *Renderer) pie(title string, data synth.ChartData) (string, error) {
	pie := echarts.NewPie()
	pie.SetGlobalOptions(r.globalOptions(title)...)
	ds := data.Datasets[0]
	items := make([]opts.PieData, len(ds.Data))
	for i, v := range ds.Data {
		name := labelAt(data.Labels, i)
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		items[i] = opts.PieData{Name: name, Value: v}
	}
	pie.AddSeries(ds.Label, items)
	return renderChart(pie)
}

// scatter plots each value against its position.
func (r *Renderer) scatter(title string, data synth.ChartData) (string, error) {
	scatter := echarts.NewScatter()
	scatter.SetGlobalOptions(r.globalOptions(title)...)
	for _, ds := range data.Datasets {
		items := make([]opts.ScatterData, len(ds.Data))
		for i, v := range ds.Data {
			items[i] = opts.ScatterData{Name: labelAt(data.Labels, i), Value: []float64{float64(i + 1), v}}
		}
		scatter.AddSeries(ds.Label, items)
	}
	return renderChart(scatter)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", fmt.Errorf("charts: render: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) globalOptions(title string) []echarts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []echarts.GlobalOpts{
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(initOpts),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}
