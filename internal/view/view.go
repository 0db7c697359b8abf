// Package view turns a committed dashboard state into what the page shows.
// Build is pure: the same state always yields the same Dashboard.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/floodwatch/backend/internal/domain"
	"github.com/floodwatch/backend/pkg/utils"
)

// Mode badges.
const (
	ModeLive       = "LIVE"
	ModeSimulation = "SIMULATION"
)

const (
	mapEmbedURL = "https://www.openstreetmap.org/export/embed.html"

	chartPoints = 6
	chartWidth  = 300
	chartHeight = 100
)

// Dashboard is the render model of one session.
type Dashboard struct {
	Query       string
	Visible     bool // results section shown
	Loading     bool
	ModeLabel   string
	IsLive      bool
	Location    string
	Comment     string
	Gauge       Gauge
	Cards       []StatCard
	Coordinates domain.Coordinates
	MapURL      string
	Chart       Chart
	Notice      string
}

// Gauge is the risk dial.
type Gauge struct {
	Score   int
	Percent int // score clamped to 0..100 for the dial fill
	Status  domain.RiskStatus
	Label   string
	Color   string
}

// StatCard is one weather or water-level tile.
type StatCard struct {
	Title string
	Value string
	Unit  string
}

// ChartPoint is one hourly sample of the trend chart.
type ChartPoint struct {
	Label      string
	Rainfall   float64
	WaterLevel float64
}

// Chart is the rainfall and water-level trend ending at the analysis time.
type Chart struct {
	Points         []ChartPoint
	Width          int
	Height         int
	RainfallLine   string // SVG polyline points
	WaterLevelLine string
}

var gaugeStyles = map[domain.RiskStatus]struct{ label, color string }{
	domain.StatusSafe:    {"Safe", "#22c55e"},
	domain.StatusCaution: {"Caution", "#f59e0b"},
	domain.StatusDanger:  {"Danger", "#ef4444"},
}

// Build derives the page model from state.
func Build(state domain.DashboardState) Dashboard {
	d := Dashboard{
		Query:       state.Query,
		Visible:     state.Flags.Analyzed,
		Loading:     state.Flags.Loading,
		IsLive:      state.Flags.IsLiveMode,
		ModeLabel:   ModeSimulation,
		Coordinates: state.Coordinates,
		MapURL:      MapURL(state.Coordinates),
		Notice:      state.Notice,
	}
	if state.Flags.IsLiveMode {
		d.ModeLabel = ModeLive
	}
	if !state.Flags.Analyzed {
		return d
	}

	d.Location = state.Risk.Location
	d.Comment = state.Risk.Comment
	d.Gauge = buildGauge(state.Risk.RiskScore)
	d.Cards = buildCards(state.Weather, state.Risk)
	d.Chart = buildChart(state.UpdatedAt, state.Weather.Rainfall, state.Risk.WaterLevel.Float64())
	return d
}

// MapURL returns the embeddable map centered on c with a marker on it.
func MapURL(c domain.Coordinates) string {
	box := c.BoundingBox(domain.MapBoxDelta)
	return fmt.Sprintf("%s?bbox=%s,%s,%s,%s&layer=mapnik&marker=%s,%s",
		mapEmbedURL,
		coord(box.West), coord(box.South), coord(box.East), coord(box.North),
		coord(c.Latitude), coord(c.Longitude),
	)
}

func coord(v float64) string {
	return strconv.FormatFloat(utils.RoundTo(v, 6), 'f', -1, 64)
}

func buildGauge(score int) Gauge {
	status := domain.StatusForScore(score)
	style := gaugeStyles[status]
	return Gauge{
		Score:   score,
		Percent: int(utils.Clamp(float64(score), 0, 100)),
		Status:  status,
		Label:   style.label,
		Color:   style.color,
	}
}

func buildCards(w domain.WeatherSnapshot, r domain.RiskAssessment) []StatCard {
	waterLevel := r.WaterLevel.String()
	if waterLevel == "" {
		waterLevel = "-"
	}
	return []StatCard{
		{Title: "Rainfall", Value: number(w.Rainfall), Unit: "mm/hr"},
		{Title: "Wind Speed", Value: number(w.WindSpeed), Unit: "m/s"},
		{Title: "Temperature", Value: number(w.Temperature), Unit: "°C"},
		{Title: "Water Level", Value: waterLevel, Unit: "m"},
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// buildChart ramps both series from half their committed value up to it over the
// hours leading to at.
func buildChart(at time.Time, rainfall, waterLevel float64) Chart {
	chart := Chart{
		Points: make([]ChartPoint, chartPoints),
		Width:  chartWidth,
		Height: chartHeight,
	}
	rain := make([]float64, chartPoints)
	water := make([]float64, chartPoints)
	end := at.Truncate(time.Hour)
	for i := range chart.Points {
		t := float64(i) / float64(chartPoints-1)
		rain[i] = utils.RoundTo(utils.Lerp(rainfall/2, rainfall, t), 2)
		water[i] = utils.RoundTo(utils.Lerp(waterLevel/2, waterLevel, t), 2)
		chart.Points[i] = ChartPoint{
			Label:      end.Add(-time.Duration(chartPoints-1-i) * time.Hour).Format("15:04"),
			Rainfall:   rain[i],
			WaterLevel: water[i],
		}
	}
	chart.RainfallLine = polyline(rain)
	chart.WaterLevelLine = polyline(water)
	return chart
}

// polyline scales values into the chart box, tallest value at the top margin.
func polyline(values []float64) string {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	step := float64(chartWidth) / float64(len(values)-1)
	const margin = 10.0

	points := make([]string, len(values))
	for i, v := range values {
		y := float64(chartHeight)
		if peak > 0 {
			y -= v / peak * (chartHeight - margin)
		}
		points[i] = fmt.Sprintf("%.1f,%.1f", float64(i)*step, y)
	}
	return strings.Join(points, " ")
}
