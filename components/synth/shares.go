package synth

// Share is a jittered slice of a categorical breakdown. Shares are not
// renormalized, so a bundle rarely sums to exactly 100.
type Share struct {
	Name           string  `json:"name"`
	BaseShare      float64 `json:"baseShare"`
	Share          float64 `json:"share"`
	Growth         float64 `json:"growth,omitempty"`
	CPC            float64 `json:"cpc,omitempty"`
	ConversionRate float64 `json:"conversionRate,omitempty"`
}

type baseShare struct {
	name  string
	share float64
}

var categoryBases = []baseShare{
	{"Electronics", 35},
	{"Fashion", 28},
	{"Home & Garden", 18},
	{"Sports", 12},
	{"Books", 7},
}

var channelBases = []baseShare{
	{"Organic Search", 45},
	{"Paid Search", 25},
	{"Social Media", 15},
	{"Email", 8},
	{"Direct", 7},
}

// CategoryShares jitters each sales category by ±3 points and attaches a
// growth rate between -15% and 25%.
func CategoryShares(r *Random) []Share {
	out := make([]Share, 0, len(categoryBases))
	for _, base := range categoryBases {
		share := base.share + r.FloatRange(-3, 3)
		growth := r.FloatRange(-15, 25)
		out = append(out, Share{
			Name:      base.name,
			BaseShare: base.share,
			Share:     share,
			Growth:    growth,
		})
	}
	return out
}

// TrafficChannels jitters each acquisition channel by ±5 points.
func TrafficChannels(r *Random) []Share {
	out := make([]Share, 0, len(channelBases))
	for _, base := range channelBases {
		share := base.share + r.FloatRange(-5, 5)
		cpc := r.FloatRange(0.5, 3.5)
		conversion := r.FloatRange(2.1, 4.8)
		out = append(out, Share{
			Name:           base.name,
			BaseShare:      base.share,
			Share:          share,
			CPC:            cpc,
			ConversionRate: conversion,
		})
	}
	return out
}
