package transform

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixora-app/pixora/internal/pkg/cache"
)

// Cache key format for the per-user transformation status
const statusKeyFormat = "transform:status:%d" // transform:status:<user id>

const statusTTL = time.Hour

// Status is the cached view of a user's active transformation, read by the
// studio front-end while the poller works in the background.
type Status struct {
	State    string `json:"state"`
	Tool     string `json:"tool,omitempty"`
	URL      string `json:"url,omitempty"`
	Attempts int    `json:"attempts"`
}

// SaveStatus writes the transformation status of a user to the cache
func SaveStatus(userID uint, status Status) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(statusKeyFormat, userID)
	return cache.Set(key, string(payload), statusTTL)
}

// LoadStatus reads the cached transformation status of a user. A missing
// entry maps to the idle state.
func LoadStatus(userID uint) (Status, error) {
	key := fmt.Sprintf(statusKeyFormat, userID)
	raw, err := cache.Get(key)
	if err != nil {
		return Status{State: StateIdle.String()}, nil
	}
	var status Status
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return Status{State: StateIdle.String()}, nil
	}
	return status, nil
}

// ClearStatus removes the cached transformation status of a user
func ClearStatus(userID uint) error {
	return cache.Delete(fmt.Sprintf(statusKeyFormat, userID))
}
