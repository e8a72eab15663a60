// Command replay runs a recorded .poselog through an exercise analyzer and
// prints every state transition and the final counts. Useful for tuning
// thresholds against captured footage without a live camera.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/repgate/repgate/internal/config"
	"github.com/repgate/repgate/internal/engine"
	"github.com/repgate/repgate/internal/pose"
	"github.com/repgate/repgate/internal/replay"
)

func main() {
	logPath := flag.String("log", "", "Path to .poselog file (required)")
	exercise := flag.String("exercise", "pushup", "Exercise to detect: pushup, squat or plank")
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

	t0 := time.Unix(0, frames[0].TNanos)
	var lastState engine.State

	player := replay.NewPlayer(nil) // as fast as possible
	player.Play(frames, func(s *pose.Snapshot, now time.Time) {
		analyzer.Analyze(s, now)
		res := analyzer.Result()
		if res.State != lastState {
			fmt.Printf("%8.3fs  %-20s reps=%-3d metric=%.1f ok=%v\n",
				now.Sub(t0).Seconds(), res.State, res.RepCount, res.Metric, res.MetricOK)
			lastState = res.State
		}
	})

	res := analyzer.Result()
	fmt.Printf("\n%d frames, %.1fs\n", len(frames),
		time.Duration(frames[len(frames)-1].TNanos-frames[0].TNanos).Seconds())
	fmt.Printf("final: state=%s reps=%d", res.State, res.RepCount)
	if res.Exercise == engine.Plank {
		fmt.Printf(" seconds_held=%d", res.SecondsHeld)
	}
	fmt.Println()
}
