// File: internal/browser/scripts.go
package browser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// handleAttribute is stamped onto a resolved element so chromedp actions can
// address exactly that node with a plain CSS selector.
const handleAttribute = "data-authflows-handle"

// documentMarker is a window property set before a navigating click. A new
// document starts without it.
const documentMarker = "__authflowsDocument"

// Element bodies are JavaScript function expressions taking the matched node.
const (
	jsVisible = `el => {
		const style = window.getComputedStyle(el);
		const rect = el.getBoundingClientRect();
		return style.visibility !== 'hidden' && style.display !== 'none' && rect.width > 0 && rect.height > 0;
	}`
	jsEnabled     = `el => !el.disabled && el.getAttribute('aria-disabled') !== 'true'`
	jsChecked     = `el => !!el.checked`
	jsTextContent = `el => el.textContent || ''`
	jsValue       = `el => (el.value === undefined || el.value === null) ? '' : String(el.value)`
	jsClear       = `el => {
		el.focus();
		el.value = '';
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	}`
	jsCenter = `el => {
		el.scrollIntoView({ block: 'center', inline: 'center' });
		const r = el.getBoundingClientRect();
		return { x: r.left, y: r.top, width: r.width, height: r.height };
	}`
	jsForceHover = `el => {
		for (const type of ['mouseover', 'mouseenter', 'mousemove']) {
			el.dispatchEvent(new MouseEvent(type, { bubbles: type !== 'mouseenter', cancelable: true, view: window }));
		}
		return true;
	}`
	jsForceClick = `el => { el.click(); return true; }`
)

// elementQuery selects the nodes for a locator and applies body to the chosen one.
// The result is {state, error, count, value}; state is "found", "missing" or "invalid".
func elementQuery(l *Locator, body string) string {
	return fmt.Sprintf(`(function(sel, text, nth) {
	let nodes;
	try {
		nodes = Array.from(document.querySelectorAll(sel));
	} catch (e) {
		return { state: 'invalid', error: String(e && e.message || e) };
	}
	if (text) nodes = nodes.filter(n => (n.textContent || '').includes(text));
	const idx = nth < 0 ? nodes.length + nth : nth;
	const el = nodes[idx];
	if (!el) return { state: 'missing', count: nodes.length };
	return { state: 'found', count: nodes.length, value: (%s)(el) };
})(%s, %s, %d)`, body, jsonEncode(l.selector), jsonEncode(l.hasText), l.nth)
}

// listQuery applies body to every node matching the locator, ignoring nth.
func listQuery(l *Locator, body string) string {
	return fmt.Sprintf(`(function(sel, text) {
	let nodes;
	try {
		nodes = Array.from(document.querySelectorAll(sel));
	} catch (e) {
		return { state: 'invalid', error: String(e && e.message || e) };
	}
	if (text) nodes = nodes.filter(n => (n.textContent || '').includes(text));
	return { state: 'found', count: nodes.length, value: nodes.map(%s) };
})(%s, %s)`, body, jsonEncode(l.selector), jsonEncode(l.hasText))
}

// stampBody marks the node with token and returns it.
func stampBody(token string) string {
	return fmt.Sprintf(`el => { el.setAttribute(%s, %s); return %s; }`,
		jsonEncode(handleAttribute), jsonEncode(token), jsonEncode(token))
}

// firstEnabledQuery stamps the first match whose aria-disabled is exactly "false".
func firstEnabledQuery(l *Locator, token string) string {
	return fmt.Sprintf(`(function(sel, text, attr, token) {
	let nodes = Array.from(document.querySelectorAll(sel));
	if (text) nodes = nodes.filter(n => (n.textContent || '').includes(text));
	const el = nodes.find(n => n.getAttribute('aria-disabled') === 'false');
	if (!el) return false;
	el.setAttribute(attr, token);
	return true;
})(%s, %s, %s, %s)`, jsonEncode(l.selector), jsonEncode(l.hasText), jsonEncode(handleAttribute), jsonEncode(token))
}

func attributeBody(name string) string {
	return fmt.Sprintf(`el => el.getAttribute(%s)`, jsonEncode(name))
}

func cssBody(property string) string {
	return fmt.Sprintf(`el => window.getComputedStyle(el).getPropertyValue(%s)`, jsonEncode(property))
}

// selectBody picks the option whose value or label equals v.
func selectBody(v string) string {
	return fmt.Sprintf(`el => {
		const want = %s;
		const opt = Array.from(el.options || []).find(o => o.value === want || o.label === want || o.text === want);
		if (!opt) return false;
		el.value = opt.value;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	}`, jsonEncode(v))
}

// handleSelector addresses a stamped node.
func handleSelector(token string) string {
	return fmt.Sprintf(`[%s=%s]`, handleAttribute, jsonEncode(token))
}

// jsonEncode encodes a value as a JavaScript literal. HTML characters are
// left as they are so scripts stay readable in debug logs.
func jsonEncode(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
