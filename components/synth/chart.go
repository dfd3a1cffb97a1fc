package synth

// ChartData is the label/dataset payload shared by chart endpoints.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one named series of a chart.
type Dataset struct {
	Label  string    `json:"label"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"colors,omitempty"`
	Dashed bool      `json:"dashed,omitempty"`
	Fill   bool      `json:"fill,omitempty"`
}

var palette = []string{"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6"}

func sharesChart(label string, shares []Share) ChartData {
	labels := make([]string, len(shares))
	data := make([]float64, len(shares))
	for i, s := range shares {
		labels[i] = s.Name
		data[i] = s.Share
	}
	return ChartData{
		Labels: labels,
		Datasets: []Dataset{{
			Label:  label,
			Data:   data,
			Colors: append([]string(nil), palette...),
		}},
	}
}
