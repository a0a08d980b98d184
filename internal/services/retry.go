package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/printreadiness/internal/gcp"
)

const maxRetries = 4

// initialBackoff is a variable so tests can shorten it.
var initialBackoff = 1 * time.Second

// saveObject is replaced in tests.
var saveObject = gcp.SaveToGCSAtomically

// withRetry calls fn until it succeeds, doubling the wait between attempts.
// It gives up after maxRetries attempts or when ctx is done.
func withRetry(ctx context.Context, logCtx *slog.Logger, fn func(ctx context.Context) error) error {
	backoff := initialBackoff
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if i == maxRetries-1 {
			break
		}
		logCtx.Warn(
			"Attempt failed, will retry.",
			"attempt", i+1,
			"maxRetries", maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			logCtx.Error("Context cancelled during backoff. Aborting retries.", "error", ctx.Err())
			return ctx.Err()
		}
	}
	logCtx.Error("Failed after all retries.", "error", lastErr)
	return fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// saveWithRetry writes content to bucket/objectName, giving each attempt its
// own deadline.
func saveWithRetry(ctx context.Context, logCtx *slog.Logger, bucket *storage.BucketHandle, objectName, contentType string, content []byte) error {
	return withRetry(ctx, logCtx.With("gcsObject", objectName), func(ctx context.Context) error {
		writeCtx, cancel := context.WithTimeout(ctx, 50*time.Second)
		defer cancel()
		return saveObject(writeCtx, bucket, objectName, contentType, content)
	})
}
