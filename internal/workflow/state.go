// Package workflow drives one simulated user journey through the target
// application as an explicit state machine.
package workflow

// State names a step of the session state machine.
type State string

const (
	StateRequestProvision State = "REQUEST_PROVISION"
	StateBrowserAttach    State = "BROWSER_ATTACH"
	StateLanding          State = "LANDING"
	StateSignupForm       State = "SIGNUP_FORM"
	StatePlanSelect       State = "PLAN_SELECT"
	StateSubmitSignup     State = "SUBMIT_SIGNUP"
	StateLogin            State = "LOGIN"
	StateContentSelect    State = "CONTENT_SELECT"
	StatePlayback         State = "PLAYBACK"
	StateLogout           State = "LOGOUT"
	StateCleanup          State = "CLEANUP"
	StateDone             State = "DONE"
	StateFailed           State = "FAILED"
)

func (s State) String() string { return string(s) }

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }
