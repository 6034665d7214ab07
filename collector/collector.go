package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lolharvest/collector/pipeline"
	"lolharvest/pkg/config"
	"lolharvest/pkg/logger"
)

func main() {
	os.Exit(run())
}

// Run one collection end to end. The exit status reflects whether any
// player or match failed during the run.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Couldn't initialize the configuration: %v", err)
		return 1
	}

	runLog, err := logger.NewRunLogger()
	if err != nil {
		log.Printf("Couldn't create the run logger: %v", err)
		return 1
	}
	defer runLog.Close()

	// Cooperative shutdown: the pipeline checks the context before
	// every request and around every pacing sleep.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.Run(ctx, cfg, runLog)
	if err != nil {
		runLog.Errorf("Run aborted: %v", err)
	}

	shipLogs(cfg, runLog)

	if err != nil || summary.Failed > 0 {
		return 1
	}
	return 0
}

// Ship the run log to the configured bucket, best effort.
func shipLogs(cfg *config.Config, runLog *logger.RunLogger) {
	objectKey := "collector/" + time.Now().UTC().Format("2006-01-02T15-04-05") + ".log"

	uploadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := runLog.UploadToS3Bucket(uploadCtx, cfg.Bucket, objectKey); err != nil {
		log.Printf("Couldn't upload the run log: %v", err)
	}
}
