package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"lolharvest/collector/pipeline"
	"lolharvest/pkg/config"
	"lolharvest/pkg/logger"
)

// CollectMatches runs one scheduled collection end to end and ships the
// run log afterwards.
func CollectMatches(ctx context.Context, cfg *config.Config) error {
	log.Println("Starting scheduled match collection.")

	runLog, err := logger.NewRunLogger()
	if err != nil {
		return fmt.Errorf("couldn't create the run logger: %w", err)
	}
	defer runLog.Close()

	summary, runErr := pipeline.Run(ctx, cfg, runLog)

	objectKey := "scheduler/" + time.Now().UTC().Format("2006-01-02T15-04-05") + ".log"

	uploadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := runLog.UploadToS3Bucket(uploadCtx, cfg.Bucket, objectKey); err != nil {
		log.Printf("Couldn't upload the run log: %v", err)
	}

	if runErr != nil {
		return fmt.Errorf("collection run aborted: %w", runErr)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("collection run finished with %d failed players", summary.Failed)
	}

	log.Println("Finished scheduled match collection.")
	return nil
}
