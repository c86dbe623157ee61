// File: internal/browser/page_test.go
package browser

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formPage = `<!DOCTYPE html>
<html><head><style>
  .error { color: rgb(187, 0, 0); }
  #hidden { display: none; }
</style></head>
<body>
  <h2>Register</h2>
  <form id="f" onsubmit="event.preventDefault(); document.getElementById('flash').style.display = 'block';">
    <label for="login" class="error">Login</label>
    <input id="login" name="login" value="preset">
    <input id="pass" type="password">
    <input id="agree" type="checkbox">
    <input id="locked" disabled value="x">
    <select id="lang"><option value="en">English</option><option value="de">Deutsch</option></select>
    <input id="avatar" type="file">
    <button type="submit" id="submit">Submit</button>
  </form>
  <div id="flash" style="display:none">Account was successfully created.</div>
  <div id="hidden">secret</div>
  <ul id="menu">
    <li aria-disabled="true">Home</li>
    <li aria-disabled="false" onclick="this.dataset.clicked='1'">Home</li>
    <li aria-disabled="false">Projects</li>
  </ul>
  <div id="pad" style="width:200px;height:100px" onclick="this.dataset.x = event.offsetX"></div>
  <span id="hover" onmouseover="this.textContent='hovered'">idle</span>
  <a id="delayed" style="display:none">later</a>
  <script>setTimeout(() => { document.getElementById('delayed').style.display = 'inline'; }, 300);</script>
</body></html>`

func TestPage_FormInteractions(t *testing.T) {
	fx := newTestFixture(t, createStaticTestServer(t, formPage))
	ctx := fx.RootCtx
	p := fx.Page
	require.NoError(t, p.Navigate(ctx, "/register"))

	t.Run("Fill replaces existing value", func(t *testing.T) {
		require.NoError(t, p.Fill(ctx, "#login", "jsmith"))
		require.NoError(t, p.Expect().VerifyValue(ctx, "#login", "jsmith"))
	})

	t.Run("Clear empties the field", func(t *testing.T) {
		require.NoError(t, p.Fill(ctx, "#pass", "secret"))
		require.NoError(t, p.Clear(ctx, "#pass"))
		require.NoError(t, p.Expect().VerifyValue(ctx, "#pass", ""))
	})

	t.Run("Check", func(t *testing.T) {
		require.NoError(t, p.Check(ctx, "#agree"))
		checked, err := p.IsChecked(ctx, "#agree")
		require.NoError(t, err)
		assert.True(t, checked)
		// Checking twice leaves it checked.
		require.NoError(t, p.Check(ctx, "#agree"))
		checked, err = p.IsChecked(ctx, "#agree")
		require.NoError(t, err)
		assert.True(t, checked)
	})

	t.Run("SelectOption by value and label", func(t *testing.T) {
		require.NoError(t, p.SelectOption(ctx, "#lang", "de"))
		require.NoError(t, p.Expect().VerifyValue(ctx, "#lang", "de"))
		require.NoError(t, p.SelectOption(ctx, "#lang", "English"))
		require.NoError(t, p.Expect().VerifyValue(ctx, "#lang", "en"))
		assert.Error(t, p.SelectOption(ctx, "#lang", "Klingon"))
	})

	t.Run("Enabled state", func(t *testing.T) {
		disabled, err := p.IsDisabled(ctx, "#locked")
		require.NoError(t, err)
		assert.True(t, disabled)
		enabled, err := p.IsEnabled(ctx, "#login")
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("UploadFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "avatar.png")
		require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))
		require.NoError(t, p.UploadFile(ctx, "#avatar", path))

		var name string
		require.NoError(t, fx.Session.Evaluate(ctx, `document.getElementById('avatar').files[0].name`, &name))
		assert.Equal(t, "avatar.png", name)

		assert.Error(t, p.UploadFile(ctx, "#avatar", filepath.Join(t.TempDir(), "missing.png")))
	})

	t.Run("Submit shows flash", func(t *testing.T) {
		require.NoError(t, p.Click(ctx, "#submit"))
		require.NoError(t, p.Expect().VerifyVisible(ctx, "#flash", true, 0))
		require.NoError(t, p.Expect().VerifyText(ctx, "#flash", Exact("Account was successfully created."), true))
	})
}

func TestPage_Queries(t *testing.T) {
	fx := newTestFixture(t, createStaticTestServer(t, formPage))
	ctx := fx.RootCtx
	p := fx.Page
	require.NoError(t, p.Navigate(ctx, "/"))

	visible, err := p.IsVisible(ctx, "h2")
	require.NoError(t, err)
	assert.True(t, visible)

	hidden, err := p.IsHidden(ctx, "#hidden")
	require.NoError(t, err)
	assert.True(t, hidden)

	visible, err = p.IsVisible(ctx, "#does-not-exist")
	require.NoError(t, err, "a missing element is simply not visible")
	assert.False(t, visible)

	text, err := p.TextContent(ctx, "h2")
	require.NoError(t, err)
	assert.Equal(t, "Register", text)

	has, err := p.HasText(ctx, "#flash", "successfully")
	require.NoError(t, err)
	assert.True(t, has)

	count, err := p.Locator("#menu li").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	texts, err := p.Locator("#menu li").Filter("Home").AllTextContents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Home", "Home"}, texts)

	last, err := p.Locator("#menu li").Last().TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Projects", last)

	href, ok, err := p.Locator("label").Attribute(ctx, "for")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "login", href)

	_, ok, err = p.Locator("label").Attribute(ctx, "data-missing")
	require.NoError(t, err)
	assert.False(t, ok)

	color, err := p.Locator("label").CSS(ctx, "color")
	require.NoError(t, err)
	assert.Equal(t, "rgb(187, 0, 0)", color)

	url, err := p.CurrentURL(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, "/"))
}

func TestPage_PointerActions(t *testing.T) {
	fx := newTestFixture(t, createStaticTestServer(t, formPage))
	ctx := fx.RootCtx
	p := fx.Page
	require.NoError(t, p.Navigate(ctx, "/"))

	t.Run("ClickFirstEnabled skips disabled entries", func(t *testing.T) {
		require.NoError(t, p.ClickFirstEnabled(ctx, "#menu li", "Home"))
		require.NoError(t, p.Expect().VerifyAttribute(ctx, `#menu li[aria-disabled="false"]`, "data-clicked", "1"))
	})

	t.Run("ClickFirstEnabled without a match is a no-op", func(t *testing.T) {
		require.NoError(t, p.ClickFirstEnabled(ctx, "#menu li", "Nowhere"))
	})

	t.Run("ClickAtOffset", func(t *testing.T) {
		require.NoError(t, p.ClickAtOffset(ctx, "#pad", 0.75, 0.5))
		x, ok, err := p.Locator("#pad").Attribute(ctx, "data-x")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Contains(t, []string{"149", "150", "151"}, x)
	})

	t.Run("Hover", func(t *testing.T) {
		require.NoError(t, p.Hover(ctx, "#hover", false))
		require.NoError(t, p.Expect().VerifyText(ctx, "#hover", Exact("hovered"), true))
	})

	t.Run("Click waits for the element to appear", func(t *testing.T) {
		require.NoError(t, p.Reload(ctx))
		require.NoError(t, p.Click(ctx, "#delayed"))
	})
}

func TestPage_MissingElementTimesOut(t *testing.T) {
	fx := newTestFixture(t, createStaticTestServer(t, formPage))
	ctx := fx.RootCtx
	require.NoError(t, fx.Page.Navigate(ctx, "/"))

	start := time.Now()
	err := fx.Page.Click(ctx, "#nope")
	elapsed := time.Since(start)

	var te *TimeoutError
	require.True(t, errors.As(err, &te), "expected a timeout error, got %v", err)
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.GreaterOrEqual(t, elapsed, fx.Config.Browser().ActionTimeout)

	assert.Error(t, fx.Page.Click(ctx, "##bad["), "an invalid selector fails")
}

func TestVerifier(t *testing.T) {
	fx := newTestFixture(t, createStaticTestServer(t, formPage))
	ctx := fx.RootCtx
	p := fx.Page
	require.NoError(t, p.Navigate(ctx, "/account/register"))
	v := p.Expect().WithTimeout(500 * time.Millisecond)

	t.Run("URL", func(t *testing.T) {
		require.NoError(t, v.VerifyURL(ctx, MatchesPattern(`/account/register$`)))
		err := v.VerifyURL(ctx, Contains("/login"))
		var ae *AssertionError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "url", ae.What)
	})

	t.Run("Visibility", func(t *testing.T) {
		require.NoError(t, v.VerifyVisible(ctx, "#hidden", false, 0))
		require.NoError(t, v.VerifyVisible(ctx, "#delayed", true, 2*time.Second))
		assert.Error(t, v.VerifyVisible(ctx, "#hidden", true, 100*time.Millisecond))
	})

	t.Run("Text", func(t *testing.T) {
		require.NoError(t, v.VerifyText(ctx, "h2", Exact("Register"), true))
		require.NoError(t, v.VerifyText(ctx, "h2", Exact("Sign in"), false))
		require.NoError(t, v.VerifyContainsText(ctx, "#flash", "successfully"))

		err := v.VerifyText(ctx, "h2", Exact("Sign in"), true)
		var ae *AssertionError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "Register", ae.Actual)
	})

	t.Run("Texts", func(t *testing.T) {
		require.NoError(t, v.VerifyTexts(ctx, "#menu li", []string{"Home", "Home", "Projects"}))
		assert.Error(t, v.VerifyTexts(ctx, "#menu li", []string{"Home"}))
	})

	t.Run("Attribute and CSS", func(t *testing.T) {
		require.NoError(t, v.VerifyAttribute(ctx, "#login", "name", "login"))
		assert.Error(t, v.VerifyAttribute(ctx, "#login", "placeholder", ""))
		require.NoError(t, v.VerifyCSS(ctx, "label.error", "color", "rgb(187, 0, 0)"))
	})

	t.Run("AllContainText", func(t *testing.T) {
		require.NoError(t, v.AssertAllContainText(ctx, "#menu li[aria-disabled]", "o"))
		assert.Error(t, v.AssertAllContainText(ctx, "#menu li", "Home"))
		assert.ErrorIs(t, v.AssertAllContainText(ctx, ".nothing", "x"), ErrElementNotFound)
	})
}

func TestPage_ClickAndWaitForNavigation(t *testing.T) {
	server := createTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.URL.Path == "/done" {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`<html><body><p id="msg">Same text</p></body></html>`))
			return
		}
		_, _ = w.Write([]byte(`<html><body><p id="msg">Same text</p>
<form action="/done" method="get"><button id="go" type="submit">Go</button></form>
<button id="stay" type="button">Stay</button></body></html>`))
	}))
	fx := newTestFixture(t, server)
	ctx := fx.RootCtx
	require.NoError(t, fx.Page.Navigate(ctx, "/"))

	require.NoError(t, fx.Page.ClickAndWaitForNavigation(ctx, "#go"))
	url, err := fx.Page.CurrentURL(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, "/done?"), "got %s", url)

	opts := fx.Page.Options()
	opts.NavigationTimeout = time.Second
	short := NewPage(fx.Session, opts)
	require.NoError(t, short.Navigate(ctx, "/"))
	err = short.ClickAndWaitForNavigation(ctx, "#stay")
	var te *TimeoutError
	require.ErrorAs(t, err, &te, "a click that does not navigate times out")
	assert.Equal(t, "wait for navigation", te.Op)
}
