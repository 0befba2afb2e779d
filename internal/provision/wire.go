package provision

import (
	"fmt"
	"strings"
)

// Wire formats of the provisioning REST API.

type geolocation struct {
	City    string `json:"city"`
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
}

type proxy struct {
	Type        string      `json:"type"`
	Geolocation geolocation `json:"geolocation"`
}

type viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type browserSettings struct {
	Viewport viewport `json:"viewport"`
}

type createSessionBody struct {
	ProjectID       string          `json:"projectId"`
	Region          string          `json:"region,omitempty"`
	Proxies         []proxy         `json:"proxies"`
	BrowserSettings browserSettings `json:"browserSettings"`
}

type updateSessionBody struct {
	ProjectID string `json:"projectId"`
	Status    string `json:"status"`
}

type sessionResponse struct {
	ID         string `json:"id"`
	ConnectURL string `json:"connectUrl"`
	Status     string `json:"status"`
}

const wireRequestRelease = "REQUEST_RELEASE"

func newCreateBody(projectID string, req SessionRequest) createSessionBody {
	return createSessionBody{
		ProjectID: projectID,
		Region:    req.Region,
		Proxies: []proxy{{
			Type: req.ProxyType,
			Geolocation: geolocation{
				City:    req.Geo.City,
				Country: req.Geo.Country,
				State:   req.Geo.State,
			},
		}},
		BrowserSettings: browserSettings{
			Viewport: viewport{Width: req.Device.Viewport.Width, Height: req.Device.Viewport.Height},
		},
	}
}

// wireStatus maps a domain status to the value the API accepts on update.
func wireStatus(s Status) (string, error) {
	switch s {
	case StatusReleased:
		return wireRequestRelease, nil
	default:
		return "", fmt.Errorf("unsupported session status update %q", s)
	}
}

// domainStatus maps an API session status to a domain status.
func domainStatus(s string) Status {
	switch strings.ToUpper(s) {
	case "COMPLETED", "ERROR", "TIMED_OUT", wireRequestRelease:
		return StatusReleased
	default:
		return StatusRunning
	}
}
