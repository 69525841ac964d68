package ticktick

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Fixed fields of the X-Device header. The service correlates the device to
// the session, so these must not change between requests of one client.
const (
	devicePlatform = "web"
	deviceVersion  = 6430
)

// NewDeviceID generates a fresh pseudo-random device identifier. Call it once
// per client instance; reusing an id across restarts keeps the server-side
// session binding stable.
func NewDeviceID() string {
	return uuid.NewString()
}

// deviceHeader builds the X-Device JSON value for the given device id.
// Minimal three-field format: platform, version, id.
func deviceHeader(deviceID string) string {
	payload, _ := json.Marshal(struct {
		Platform string `json:"platform"`
		Version  int    `json:"version"`
		ID       string `json:"id"`
	}{
		Platform: devicePlatform,
		Version:  deviceVersion,
		ID:       deviceID,
	})
	return string(payload)
}
