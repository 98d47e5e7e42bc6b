package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
)

// ChartKind selects how a Summary is drawn.
type ChartKind string

const (
	ChartPie  ChartKind = "pie"
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

// ErrUnsupportedChart is returned for chart kinds other than pie, bar and line.
var ErrUnsupportedChart = errors.New("unsupported chart kind")

// ParseChartKind matches s case-insensitively.
func ParseChartKind(s string) (ChartKind, error) {
	k := ChartKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case ChartPie, ChartBar, ChartLine:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedChart, s)
}

const (
	DefaultWidth  = 60
	DefaultHeight = 14
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	lineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa"))
)

// Artifact is a rendered chart and the file it was saved to.
type Artifact struct {
	Path string
	Text string
}

// Renderer draws summaries and saves each drawing under Dir.
type Renderer struct {
	Dir    string
	Width  int
	Height int
}

// NewRenderer returns a Renderer writing into dir. Non-positive sizes fall
// back to the defaults.
func NewRenderer(dir string, width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{Dir: dir, Width: width, Height: height}
}

// ArtifactPath returns where a chart titled title is saved.
func (r *Renderer) ArtifactPath(title string) string {
	return filepath.Join(r.Dir, strings.ReplaceAll(title, "/", "-")+".txt")
}

// Render draws s as kind, writes it to ArtifactPath(title) and returns it.
func (r *Renderer) Render(s Summary, kind ChartKind, title string) (Artifact, error) {
	var body string
	switch kind {
	case ChartPie:
		body = r.pie(s)
	case ChartBar:
		body = r.bar(s)
	case ChartLine:
		body = r.line(s)
	default:
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnsupportedChart, kind)
	}

	text := titleStyle.Render(title) + "\n\n" + body + "\n"
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create charts dir: %w", err)
	}
	path := r.ArtifactPath(title)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write chart: %w", err)
	}
	return Artifact{Path: path, Text: text}, nil
}

// pie renders each point's share of the total as a horizontal bar.
func (r *Renderer) pie(s Summary) string {
	total := 0.0
	labelWidth := 0
	for _, p := range s.Points {
		total += p.Value
		labelWidth = max(labelWidth, lipgloss.Width(p.Label))
	}
	if total <= 0 {
		return "(no data)"
	}

	barWidth := max(r.Width-labelWidth-12, 1)
	var b strings.Builder
	for _, p := range s.Points {
		share := p.Value / total
		n := int(share*float64(barWidth) + 0.5)
		fmt.Fprintf(&b, "%-*s %s %5.1f%%\n", labelWidth, p.Label, barStyle.Render(strings.Repeat("█", n)), share*100)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) bar(s Summary) string {
	if s.Empty() {
		return "(no data)"
	}
	data := make([]barchart.BarData, 0, len(s.Points))
	for _, p := range s.Points {
		data = append(data, barchart.BarData{
			Label: p.Label,
			Values: []barchart.BarValue{
				{Name: p.Label, Value: p.Value, Style: barStyle},
			},
		})
	}
	chart := barchart.New(r.Width, r.Height)
	chart.PushAll(data)
	chart.Draw()
	return chart.View()
}

func (r *Renderer) line(s Summary) string {
	if s.Empty() {
		return "(no data)"
	}

	// Points without a time (category sums) are spread one day apart.
	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.Local)
	times := make([]time.Time, len(s.Points))
	maxVal := 0.0
	for i, p := range s.Points {
		times[i] = p.At
		if p.At.IsZero() {
			times[i] = base.AddDate(0, 0, i)
		}
		maxVal = max(maxVal, p.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}
	start, end := times[0], times[len(times)-1]
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	chart := tslc.New(r.Width, r.Height)
	chart.SetStyle(lineStyle)
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, maxVal)
	chart.SetViewYRange(0, maxVal)
	for i, p := range s.Points {
		chart.Push(tslc.TimePoint{Time: times[i], Value: p.Value})
	}
	chart.DrawBraille()
	return chart.View()
}
