package charts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-demodata/components/synth"
)

// ErrNotChartable is returned for payloads that have no chart shape.
var ErrNotChartable = errors.New("charts: payload cannot be charted")

// FromValue converts an endpoint payload into chart data. Chart payloads
// pass through; funnel stages become one bar per stage.
func FromValue(v any) (synth.ChartData, error) {
	switch val := v.(type) {
	case synth.ChartData:
		return val, nil
	case *synth.ChartData:
		if val != nil {
			return *val, nil
		}
	case []synth.FunnelStage:
		out := synth.ChartData{Labels: make([]string, len(val))}
		ds := synth.Dataset{Label: "Users", Data: make([]float64, len(val))}
		for i, stage := range val {
			out.Labels[i] = stage.Name
			ds.Data[i] = float64(stage.Count)
		}
		out.Datasets = []synth.Dataset{ds}
		return out, nil
	}
	return synth.ChartData{}, fmt.Errorf("%w: %T", ErrNotChartable, v)
}

// DefaultKind picks a chart kind for an endpoint: shares as pies, time
// series as lines, everything else as bars.
func DefaultKind(endpoint string) string {
	switch {
	case strings.HasSuffix(endpoint, "/categories"), strings.HasSuffix(endpoint, "/traffic"):
		return KindPie
	case strings.HasSuffix(endpoint, "/revenue"), strings.HasSuffix(endpoint, "/daily-users"):
		return KindLine
	default:
		return KindBar
	}
}

// RenderValue charts an endpoint payload. An empty kind uses DefaultKind.
func (r *Renderer) RenderValue(endpoint, kind, title string, v any) (string, error) {
	data, err := FromValue(v)
	if err != nil {
		return "", err
	}
	if kind == "" {
		kind = DefaultKind(endpoint)
	}
	if title == "" {
		title = endpoint
	}
	return r.Render(kind, title, data)
}
