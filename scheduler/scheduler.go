package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lolharvest/pkg/config"
	"lolharvest/scheduler/jobs"

	"github.com/go-co-op/gocron/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Couldn't initialize the configuration: %v", err)
	}

	log.Println("Starting scheduler.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create a new scheduler with options.
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Register the daily collection run - once per day at 3:00 AM.
	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(3, 0, 0),
			),
		),
		gocron.NewTask(
			func() {
				if err := jobs.CollectMatches(ctx, cfg); err != nil {
					log.Printf("Collection job failed: %v", err)
				}
			},
		),
		gocron.WithName("match-collection"),
		gocron.WithTags("collection"),
	)
	if err != nil {
		log.Fatalf("Failed to register the collection job: %v", err)
	}

	s.Start()

	<-ctx.Done()

	log.Println("Shutting down scheduler.")
	if err := s.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown failed: %v", err)
	}
}
