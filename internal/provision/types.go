// Package provision talks to the remote browser provisioning service.
package provision

import (
	"fmt"

	"github.com/xkilldash9x/hogflix-traffic/internal/device"
	"github.com/xkilldash9x/hogflix-traffic/internal/geo"
)

// Status is the lifecycle state of a provisioned browser.
type Status string

const (
	StatusRunning  Status = "running"
	StatusReleased Status = "released"
)

// SessionRequest describes the browser to provision. It is immutable once built.
type SessionRequest struct {
	Geo       geo.Location
	Device    device.Profile
	Region    string
	ProxyType string
}

// Session is a provisioned remote browser.
type Session struct {
	ID         string
	ConnectURL string
	Status     Status
}

// SessionUpdate changes a session's lifecycle state.
type SessionUpdate struct {
	Status Status
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provisioning API returned %d: %s", e.StatusCode, e.Body)
}
