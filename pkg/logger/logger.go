package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	appconfig "lolharvest/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// RunLogger collects the textual log of a collection run.
// Lines are written to a temporary file and echoed to stderr, the file
// can be shipped to a S3 bucket at the end of the run.
type RunLogger struct {
	mu       sync.Mutex
	logFile  *os.File
	filePath string
	echo     bool
}

// NewRunLogger creates the log instance with a temporary file.
func NewRunLogger() (*RunLogger, error) {
	f, err := os.CreateTemp("", "lolharvest-*.log")
	if err != nil {
		return nil, err
	}

	return &RunLogger{
		logFile:  f,
		filePath: f.Name(),
		echo:     true,
	}, nil
}

// Infof logs a simple info.
func (l *RunLogger) Infof(format string, args ...any) {
	l.write("[INFO]", format, args...)
}

// Errorf logs a error.
func (l *RunLogger) Errorf(format string, args ...any) {
	l.write("[ERROR]", format, args...)
}

// EmptyLine writes a empty line.
func (l *RunLogger) EmptyLine() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logFile.WriteString("\n")
	if l.echo {
		fmt.Fprintln(os.Stderr)
	}
}

// Write something to the logger.
func (l *RunLogger) write(infoType string, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("%-8s %s %s\n", infoType, timestamp, fmt.Sprintf(format, args...))

	l.logFile.WriteString(line)
	if l.echo {
		fmt.Fprint(os.Stderr, line)
	}
}

// CleanFile cleans the file contents.
func (l *RunLogger) CleanFile() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logFile.Truncate(0)
	l.logFile.Seek(0, 0)
}

// Close removes the temporary file backing the logger.
func (l *RunLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logFile.Close()
	return os.Remove(l.filePath)
}

// UploadToS3Bucket ships the run log to the configured bucket.
// No-op when no log bucket is configured.
func (l *RunLogger) UploadToS3Bucket(ctx context.Context, bucket appconfig.BucketConfiguration, objectKey string) error {
	if bucket.LogBucket == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.logFile.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to rewind file: %w", err)
	}

	cfg := aws.Config{
		Region: bucket.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				bucket.AccessKey,
				bucket.AccessSecret,
				"",
			),
		),
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if bucket.Endpoint != "" {
			o.BaseEndpoint = aws.String(bucket.Endpoint)
		}
	})

	_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket.LogBucket),
		Key:    aws.String(objectKey),
		Body:   l.logFile,
		ACL:    types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3 bucket: %w", objectKey, err)
	}

	return nil
}
