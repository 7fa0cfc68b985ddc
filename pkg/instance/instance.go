package instance

import (
	"os"

	"github.com/angelmondragon/catalog-backend/pkg/env"
)

const EnvWorkerID = "CATALOG_WORKER_ID"

const fallbackID = "worker-0"

// GetID returns the identifier of this process: CATALOG_WORKER_ID when set,
// else the hostname, else a fixed default.
func GetID() string {
	if id := env.Get(EnvWorkerID, ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
