package workflow

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Report summarizes a completed session.
type Report struct {
	ReplayURL string
	Username  string
	Password  string
	Browser   string
	Screen    string
	Device    string
	URL       string
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Replay: %s\n", r.ReplayURL)
	fmt.Fprintf(&b, "- Username: %s\n", r.Username)
	fmt.Fprintf(&b, "- Password: %s\n", r.Password)
	fmt.Fprintf(&b, "- Browser: %s\n", r.Browser)
	fmt.Fprintf(&b, "- Screen: %s\n", r.Screen)
	fmt.Fprintf(&b, "- Device: %s\n", r.Device)
	fmt.Fprintf(&b, "- URL: %s", r.URL)
	return b.String()
}

// MarshalLogObject lets the report be logged as a single structured field.
func (r Report) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("replay", r.ReplayURL)
	enc.AddString("username", r.Username)
	enc.AddString("password", r.Password)
	enc.AddString("browser", r.Browser)
	enc.AddString("screen", r.Screen)
	enc.AddString("device", r.Device)
	enc.AddString("url", r.URL)
	return nil
}

var _ zapcore.ObjectMarshaler = Report{}

func (r *run) report(replayPrefix string) Report {
	return Report{
		ReplayURL: replayPrefix + r.session.ID,
		Username:  r.user.Username,
		Password:  r.user.Password,
		Browser:   r.device.BrowserType(),
		Screen:    fmt.Sprintf("%dx%d", r.device.Viewport.Width, r.device.Viewport.Height),
		Device:    string(r.device.Category),
		URL:       r.landingURL,
	}
}

func reportField(r Report) zap.Field { return zap.Object("report", r) }
