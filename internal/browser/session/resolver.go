// internal/browser/session/resolver.go
package session

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// query is the resolver's view of a parsed selector.
type query struct {
	CSS     string `json:"css"`
	Text    string `json:"text,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Visible bool   `json:"visible"`
}

// findElementJS defines __hfFind(q). It returns the first element matching the
// CSS part whose text satisfies the filter. With a text filter the innermost
// matching element wins, so ":has-text" on a wildcard does not select <body>.
const findElementJS = `
function __hfFind(q) {
  let nodes;
  try { nodes = Array.from(document.querySelectorAll(q.css)); } catch (e) { return null; }
  const textOf = el => (el.innerText || el.textContent || '');
  const visible = el => {
    const r = el.getBoundingClientRect();
    const s = window.getComputedStyle(el);
    return r.width > 0 && r.height > 0 && s.display !== 'none' && s.visibility !== 'hidden' && s.opacity !== '0';
  };
  let test = () => true;
  if (q.text) {
    const needle = q.text.toLowerCase();
    test = el => textOf(el).toLowerCase().includes(needle);
  } else if (q.pattern) {
    const re = new RegExp(q.pattern);
    test = el => re.test(textOf(el));
  }
  let matches = nodes.filter(test);
  if (q.text || q.pattern) {
    matches = matches.filter(el => !matches.some(o => o !== el && el.contains(o)));
  }
  if (q.visible) matches = matches.filter(visible);
  return matches.length > 0 ? matches[0] : null;
}
`

func encodeQuery(sel string, visible bool) (string, error) {
	parsed, err := browser.ParseSelector(sel)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(query{CSS: parsed.CSS, Text: parsed.Text, Pattern: parsed.Pattern, Visible: visible})
	if err != nil {
		return "", fmt.Errorf("encode selector %q: %w", sel, err)
	}
	return string(b), nil
}

func wrap(body, q string) string {
	return fmt.Sprintf("(function(q){%s\n%s\n})(%s)", findElementJS, body, q)
}

// existsScript evaluates to true when the selector currently matches.
func existsScript(sel string, visible bool) (string, error) {
	q, err := encodeQuery(sel, visible)
	if err != nil {
		return "", err
	}
	return wrap(`return __hfFind(q) !== null;`, q), nil
}

// boundingBoxScript evaluates to the viewport box of the first visible match, or null.
func boundingBoxScript(sel string) (string, error) {
	q, err := encodeQuery(sel, true)
	if err != nil {
		return "", err
	}
	return wrap(`const el = __hfFind(q);
  if (!el) return null;
  const r = el.getBoundingClientRect();
  return {x: r.left, y: r.top, width: r.width, height: r.height};`, q), nil
}

// clickScript clicks the first match through the DOM and evaluates to whether one existed.
func clickScript(sel string) (string, error) {
	q, err := encodeQuery(sel, false)
	if err != nil {
		return "", err
	}
	return wrap(`const el = __hfFind(q);
  if (!el) return false;
  el.scrollIntoView({block: 'center'});
  el.click();
  return true;`, q), nil
}

// fillScript sets the value of the first match and fires input and change events.
func fillScript(sel, value string) (string, error) {
	q, err := encodeQuery(sel, false)
	if err != nil {
		return "", err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return wrap(fmt.Sprintf(`const el = __hfFind(q);
  if (!el) return false;
  el.focus();
  el.value = %s;
  el.dispatchEvent(new Event('input', {bubbles: true}));
  el.dispatchEvent(new Event('change', {bubbles: true}));
  return true;`, v), q), nil
}

func scrollScript(y float64) string {
	return fmt.Sprintf(`(function(){ window.scrollTo({top: %g, behavior: 'smooth'}); return true; })()`, y)
}
