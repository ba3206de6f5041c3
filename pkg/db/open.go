package db

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/ajcastillo/gearmart-backend/pkg/config"
	"github.com/ajcastillo/gearmart-backend/pkg/logger"
)

var (
	openOnce   sync.Once
	sharedOpen *Client
	sharedErr  error
)

// OpenOnce opens the process-wide store handle exactly once. Concurrent first
// callers block until the single open completes and all of them observe the
// same client (or the same error). The handle is meant to be constructed at
// process start and passed down explicitly from there.
func OpenOnce(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	openOnce.Do(func() {
		sharedOpen, sharedErr = New(ctx, cfg, logg)
	})
	return sharedOpen, sharedErr
}

func storeFileExists(path string) bool {
	if path == "" || strings.HasPrefix(path, "file::memory:") || strings.Contains(path, "mode=memory") {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
