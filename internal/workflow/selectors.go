package workflow

import "fmt"

// Routes and controls of the target application.
const (
	routeSignup = "signup"
	routeLogin  = "login"

	selFormControl   = ".form-control"
	selUsername      = "#username"
	selEmail         = "#email"
	selPassword      = "#password"
	selPassword2     = "#password2"
	selAdultCheckbox = ".form-check-input"
	selSignupSubmit  = `[accesskey="e"]`
	selLoginSubmit   = `input[type="submit"]`
	selCloseModal    = "#close-modal"
	selWelcome       = `:text-matches("Welcome back to Hogflix")`
	selLogout        = `a[accesskey="o"]`
)

// interstitialSelectors match the tunnel "continue" confirmation.
var interstitialSelectors = []string{
	"button.btn-primary.btn.js-toggle-hidden",
	`button:has-text("Continue")`,
	`[onclick*="tunnel_phishing_protection"]`,
}

func planButton(label string) string { return fmt.Sprintf("button:has-text(%q)", label) }

func movieTile(n int) string { return fmt.Sprintf(`a[accesskey="%d"]`, n) }

// Page scripts. Each evaluates to a JSON value.
const (
	scriptUserAgent    = `navigator.userAgent`
	scriptScrollHeight = `document.body.scrollHeight`

	scriptCSRFToken = `(function(){
  const input = document.querySelector('input[name="csrf_token"]');
  const meta = document.querySelector('meta[name="csrf-token"]');
  const data = document.querySelector('[data-csrf]');
  return (input && input.value) || (meta && meta.content) || (data && data.getAttribute('data-csrf')) || "";
})()`

	scriptLoginBanner = `(function(){
  const el = document.querySelector('.alert-error');
  return el ? el.textContent.trim() : "";
})()`

	scriptModalVisible = `(function(){
  const modal = document.querySelector('#signup-modal');
  return !!modal && window.getComputedStyle(modal).display !== 'none';
})()`

	scriptRemoveModal = `(function(){
  const modal = document.querySelector('#signup-modal');
  if (modal) modal.remove();
  const backdrop = document.querySelector('.modal-backdrop');
  if (backdrop) backdrop.remove();
  document.body.classList.remove('modal-open');
  return true;
})()`
)
