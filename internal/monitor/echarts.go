package monitor

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/repgate/repgate/internal/httputil"
)

// handleTraceChart renders the recent metric trace as an ECharts line chart
// (HTML). This is a debugging-only endpoint to eyeball threshold crossings
// without a frontend. Query params:
//   - max_points (optional; default 2000) to reduce payload size
func (ws *WebServer) handleTraceChart(w http.ResponseWriter, r *http.Request) {
	if ws.manager == nil {
		httputil.NotFound(w, "no live session manager")
		return
	}

	trace := ws.manager.Trace()
	if len(trace) == 0 {
		httputil.NotFound(w, "no trace samples yet")
		return
	}

	maxPoints := 2000
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 10 && v <= 50000 {
			maxPoints = v
		}
	}

	// Downsample by stride to stay within maxPoints.
	stride := 1
	if len(trace) > maxPoints {
		stride = (len(trace) + maxPoints - 1) / maxPoints
	}

	status := ws.manager.Status()
	t0 := trace[0].AtUnix

	xs := make([]string, 0, len(trace)/stride+1)
	metrics := make([]opts.LineData, 0, len(trace)/stride+1)
	for i := 0; i < len(trace); i += stride {
		p := trace[i]
		xs = append(xs, fmt.Sprintf("%.2f", p.AtUnix-t0))
		if p.MetricOK {
			metrics = append(metrics, opts.LineData{Value: p.Metric})
		} else {
			// Gaps chart as breaks rather than a default value.
			metrics = append(metrics, opts.LineData{Value: nil})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Metric Trace", Theme: "dark", Width: "1200px", Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Metric trace",
			Subtitle: fmt.Sprintf("exercise=%s reps=%d state=%s samples=%d stride=%d",
				status.Result.Exercise, status.Result.RepCount, status.Result.State, len(trace), stride),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "metric"}),
	)

	line.SetXAxis(xs)
	line.AddSeries("metric", metrics, charts.WithLineChartOpts(opts.LineChart{ConnectNulls: opts.Bool(false)}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
