// Command repgate runs the repetition detection server: it receives pose
// frames from the external estimator over UDP, drives one exercise analyzer,
// records the session to sqlite, and serves the monitoring HTTP API.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/repgate/repgate/internal/config"
	"github.com/repgate/repgate/internal/engine"
	"github.com/repgate/repgate/internal/ingest"
	"github.com/repgate/repgate/internal/monitor"
	"github.com/repgate/repgate/internal/session"
	"github.com/repgate/repgate/internal/timeutil"
	"github.com/repgate/repgate/internal/version"
)

var (
	listen     = flag.String("listen", ":8080", "HTTP listen address")
	udpAddr    = flag.String("udp", ":7332", "UDP pose frame listen address")
	dbFile     = flag.String("db", "repgate.db", "Path to the sqlite session database (empty disables persistence)")
	exercise   = flag.String("exercise", "pushup", "Exercise to detect: pushup, squat or plank")
	tuningPath = flag.String("config", "", "Optional tuning JSON; built-in thresholds when empty")
)

func main() {
	flag.Parse()
	log.Printf("repgate %s", version.String())

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		loaded, err := config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		tuning = loaded
		log.Printf("loaded tuning overrides from %s", *tuningPath)
	}

	analyzer, err := tuning.Analyzer(engine.Exercise(*exercise))
	if err != nil {
		log.Fatalf("invalid -exercise: %v", err)
	}

	var store *session.Store
	if *dbFile != "" {
		store, err = session.OpenStore(*dbFile)
		if err != nil {
			log.Fatalf("failed to open session store: %v", err)
		}
		defer store.Close()
	}

	manager := session.NewManager(analyzer, store, timeutil.RealClock{})
	if err := manager.Start(); err != nil {
		log.Fatalf("failed to start session: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	listener := ingest.NewUDPListener(ingest.UDPListenerConfig{
		Address: *udpAddr,
		Handler: manager.ProcessFrame,
	})
	webServer := monitor.NewWebServer(monitor.WebServerConfig{
		Address: *listen,
		Manager: manager,
		Store:   store,
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := listener.Start(ctx); err != nil {
			log.Printf("pose ingest error: %v", err)
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		if err := webServer.Start(ctx); err != nil {
			log.Printf("web server error: %v", err)
			cancel()
		}
	}()
	wg.Wait()

	summary, err := manager.Finish()
	if err != nil {
		log.Fatalf("failed to finish session: %v", err)
	}
	log.Printf("session %s: %d reps, %d seconds held, %.1fs",
		summary.SessionID, summary.TotalReps, summary.SecondsHeld, summary.DurationSeconds)
}
