package main

import (
	"context"
	"flag"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/asthiranalyticsyt/Asthir-story/auth"
	"github.com/asthiranalyticsyt/Asthir-story/compose"
	"github.com/asthiranalyticsyt/Asthir-story/config"
	"github.com/asthiranalyticsyt/Asthir-story/logging"
	"github.com/asthiranalyticsyt/Asthir-story/pipeline"
	"github.com/asthiranalyticsyt/Asthir-story/publish"
	"github.com/asthiranalyticsyt/Asthir-story/research"
	"github.com/asthiranalyticsyt/Asthir-story/script"
	"github.com/asthiranalyticsyt/Asthir-story/speech"
	"github.com/asthiranalyticsyt/Asthir-story/status"
	"github.com/asthiranalyticsyt/Asthir-story/web"
)

func main() {
	// .env is for local dev only; deployments set real env vars
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log, err := logging.New(cfg.Paths.Logs)
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}

	tracker := status.NewTracker()
	log.AddHook(status.NewHook(tracker))

	runID := uuid.NewString()[:8]
	log.Infof("Story video pipeline starting - run %s, single run mode", runID)

	// A missing API key surfaces as a script-stage failure on the status
	// page rather than killing the process before the server starts.
	llm := script.NewOpenRouterLLM(cfg, os.Getenv("OPENROUTER_API_KEY"))

	var seeder pipeline.Seeder
	if cfg.Research.Enabled {
		s, err := research.New(cfg, log)
		if err != nil {
			log.Warnf("Research stage disabled: %v", err)
		} else {
			seeder = s
		}
	}

	dispatcher := publish.New(cfg, auth.NewStore(), log)
	dispatcher.OnResult = tracker.AddResult

	runner := pipeline.New(runID, cfg, tracker, log,
		script.New(cfg, llm, log),
		speech.New(cfg, log),
		compose.New(cfg, log),
		dispatcher,
		seeder,
	)

	// One pipeline pass on a background worker; the status server below is
	// the only other goroutine and only ever reads snapshots.
	go func() {
		_ = runner.Run(context.Background())
	}()

	port := cfg.Server.Port
	if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}
	if err := web.New(tracker, log).ListenAndServe(port); err != nil {
		log.Fatalf("Status server failed: %v", err)
	}
}
