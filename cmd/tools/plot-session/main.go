// Command plot-session replays a .poselog through an analyzer and renders
// the metric trace, with the analyzer's thresholds overlaid, to a PNG.
package main

import (
	"flag"
	"image/color"
	"log"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/repgate/repgate/internal/config"
	"github.com/repgate/repgate/internal/engine"
	"github.com/repgate/repgate/internal/pose"
	"github.com/repgate/repgate/internal/replay"
)

func main() {
	logPath := flag.String("log", "", "Path to .poselog file (required)")
	exercise := flag.String("exercise", "pushup", "pushup, squat or plank")
	output := flag.String("o", "session.png", "output PNG path")
	tuningPath := flag.String("config", "", "Optional tuning JSON")
	flag.Parse()

	if *logPath == "" {
		log.Fatal("-log is required")
	}

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		loaded, err := config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		tuning = loaded
	}

	analyzer, err := tuning.Analyzer(engine.Exercise(*exercise))
	if err != nil {
		log.Fatalf("invalid -exercise: %v", err)
	}

	frames, err := replay.ReadFile(*logPath)
	if err != nil {
		log.Fatalf("failed to read poselog: %v", err)
	}
	if len(frames) == 0 {
		log.Fatal("poselog contains no frames")
	}
	t0 := frames[0].TNanos

	metricPts := make(plotter.XYs, 0, len(frames))
	repPts := make(plotter.XYs, 0, 16)
	prevReps := 0

	player := replay.NewPlayer(nil)
	player.Play(frames, func(s *pose.Snapshot, now time.Time) {
		analyzer.Analyze(s, now)
		res := analyzer.Result()
		x := float64(now.UnixNano()-t0) / 1e9
		if res.MetricOK {
			metricPts = append(metricPts, plotter.XY{X: x, Y: res.Metric})
		}
		if res.RepCount > prevReps {
			repPts = append(repPts, plotter.XY{X: x, Y: res.Metric})
			prevReps = res.RepCount
		}
	})

	p := plot.New()
	p.Title.Text = "Metric trace: " + *exercise
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "metric"

	metricLine, err := plotter.NewLine(metricPts)
	if err != nil {
		log.Fatalf("failed to build metric line: %v", err)
	}
	metricLine.Width = vg.Points(1)
	p.Add(metricLine)
	p.Legend.Add("metric", metricLine)

	switch engine.Exercise(*exercise) {
	case engine.PushUp:
		cfg := tuning.PushUpConfig()
		addThreshold(p, metricPts, cfg.Machine.HighThresholdDeg, color.RGBA{G: 160, A: 255})
		addThreshold(p, metricPts, cfg.Machine.LowThresholdDeg, color.RGBA{R: 200, A: 255})
	case engine.Squat:
		cfg := tuning.SquatConfig()
		addThreshold(p, metricPts, cfg.Machine.HighThresholdDeg, color.RGBA{G: 160, A: 255})
		addThreshold(p, metricPts, cfg.Machine.LowThresholdDeg, color.RGBA{R: 200, A: 255})
	}

	if len(repPts) > 0 {
		reps, err := plotter.NewScatter(repPts)
		if err != nil {
			log.Fatalf("failed to build rep markers: %v", err)
		}
		p.Add(reps)
		p.Legend.Add("rep", reps)
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, *output); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	log.Printf("✓ Created: %s (%d reps)", *output, prevReps)
}

// addThreshold draws a horizontal threshold line across the trace's X span.
func addThreshold(p *plot.Plot, trace plotter.XYs, y float64, c color.Color) {
	if len(trace) == 0 {
		return
	}
	pts := plotter.XYs{
		{X: trace[0].X, Y: y},
		{X: trace[len(trace)-1].X, Y: y},
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return
	}
	line.Color = c
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(line)
}
