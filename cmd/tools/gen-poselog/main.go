// Command gen-poselog generates sample .poselog recordings for testing
// replay and analyzer tuning.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/repgate/repgate/internal/pose"
	"github.com/repgate/repgate/internal/replay"
	"github.com/repgate/repgate/internal/synth"
)

func main() {
	output := flag.String("o", "sample.poselog", "output path")
	exercise := flag.String("exercise", "pushup", "pushup, squat or plank")
	reps := flag.Int("reps", 10, "number of cycles (pushup/squat)")
	holdSec := flag.Int("hold", 60, "hold duration in seconds (plank)")
	fps := flag.Int("fps", 30, "frames per second")
	jitter := flag.Float64("jitter", 0, "uniform +/- angle jitter in degrees")
	dropEvery := flag.Int("drop-every", 0, "make every Nth frame an empty (no body) frame")
	seed := flag.Int64("seed", 1, "jitter RNG seed")
	flag.Parse()

	opt := synth.Options{
		FPS:       *fps,
		JitterDeg: *jitter,
		DropEvery: *dropEvery,
		Seed:      *seed,
	}

	var frames []pose.Frame
	switch *exercise {
	case "pushup":
		frames = synth.PushUps(*reps, opt)
	case "squat":
		frames = synth.Squats(*reps, opt)
	case "plank":
		frames = synth.PlankHold(time.Duration(*holdSec)*time.Second, opt)
	default:
		log.Fatalf("unknown exercise %q", *exercise)
	}

	rec, err := replay.NewRecorder(*output)
	if err != nil {
		log.Fatalf("failed to create recorder: %v", err)
	}
	for _, f := range frames {
		if err := rec.Record(f); err != nil {
			log.Fatalf("failed to record frame: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		log.Fatalf("failed to close recorder: %v", err)
	}
	log.Printf("✓ Created: %s (%d frames)", *output, len(frames))
}
