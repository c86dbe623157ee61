// File: internal/fakeapp/templates.go
package fakeapp

import (
	"html/template"
	"time"
)

// HighlightColor is the color of invalid inputs and their labels.
const HighlightColor = "rgb(187, 0, 0)"

const trackerLayout = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - Tracker</title>
<style>
body { font-family: sans-serif; margin: 0; }
#top-menu { background: #3e5b76; color: #fff; padding: 4px 8px; }
#top-menu a { color: #fff; margin-right: 8px; }
#loggedas { display: inline-block; margin-left: 16px; }
#content { padding: 12px; }
#sidebar { float: right; width: 220px; padding: 12px; }
#flash_notice { background: #dfffdf; padding: 6px; }
#flash_error, #errorExplanation { background: #ffe3e3; padding: 6px; }
input { border: 1px solid #d7d7d7; }
label.error { color: ` + HighlightColor + `; }
input.error { border: 1px solid ` + HighlightColor + `; }
</style>
</head>
<body>
<div id="top-menu">
<div id="account">
{{- if .User}}
<a class="my-account" href="/my/account">My account</a>
<a class="logout" href="/logout">Sign out</a>
{{- else}}
<a class="login" href="/login">Sign in</a>
<a class="register" href="/account/register">Register</a>
{{- end}}
</div>
{{- if .User}}
<div id="loggedas">Logged in as <a class="user active" href="/users/{{.User.ID}}">{{.User.Login}}</a></div>
{{- end}}
</div>
{{- if .Sidebar}}{{template "sidebar" .}}{{end}}
<div id="content">
{{- with .Notice}}<div class="flash notice" id="flash_notice">{{.}}</div>{{end}}
{{- with .Alert}}<div class="flash error" id="flash_error">{{.}}</div>{{end}}
{{template "content" .}}
</div>
</body>
</html>{{end}}
{{define "sidebar"}}{{end}}`

const trackerHome = `{{define "content"}}<h2>Home</h2>
<p>Welcome to the issue tracker.</p>{{end}}`

const trackerLogin = `{{define "content"}}<div id="login-form">
<form action="/login" method="post">
<label for="username">Login</label>
<input type="text" name="username" id="username" value="{{.Form.Login}}">
<label for="password">Password</label>
<input type="password" name="password" id="password">
<a class="lost_password" href="/account/lost_password">Lost password</a>
<label for="autologin"><input type="checkbox" name="autologin" id="autologin" value="1"> Stay logged in</label>
<input type="submit" name="login" value="Login" id="login-submit">
</form>
</div>{{end}}`

const trackerRegister = `{{define "content"}}<h2>Register</h2>
{{- if .Errors}}
<div id="errorExplanation"><ul>
{{- range .Errors}}
<li>{{.Message}}</li>
{{- end}}
</ul></div>
{{- end}}
<form id="new_user" action="/account/register" method="post">
<div class="box tabular">
<p><label for="user_login"{{if index .Invalid "login"}} class="error"{{end}}>Login <span class="required">*</span></label>
<input type="text" name="user[login]" id="user_login" value="{{.Form.Login}}"{{if index .Invalid "login"}} class="error"{{end}}></p>
<p><label for="user_password"{{if index .Invalid "password"}} class="error"{{end}}>Password <span class="required">*</span></label>
<input type="password" name="user[password]" id="user_password"{{if index .Invalid "password"}} class="error"{{end}}></p>
<p><label for="user_password_confirmation">Confirmation <span class="required">*</span></label>
<input type="password" name="user[password_confirmation]" id="user_password_confirmation"></p>
<p><label for="user_firstname"{{if index .Invalid "firstname"}} class="error"{{end}}>First name <span class="required">*</span></label>
<input type="text" name="user[firstname]" id="user_firstname" value="{{.Form.FirstName}}"{{if index .Invalid "firstname"}} class="error"{{end}}></p>
<p><label for="user_lastname"{{if index .Invalid "lastname"}} class="error"{{end}}>Last name <span class="required">*</span></label>
<input type="text" name="user[lastname]" id="user_lastname" value="{{.Form.LastName}}"{{if index .Invalid "lastname"}} class="error"{{end}}></p>
<p><label for="user_mail"{{if index .Invalid "mail"}} class="error"{{end}}>Email <span class="required">*</span></label>
<input type="text" name="user[mail]" id="user_mail" value="{{.Form.Email}}"{{if index .Invalid "mail"}} class="error"{{end}}></p>
<p><label for="pref_hide_mail">Hide my email address</label>
<input type="checkbox" name="pref[hide_mail]" id="pref_hide_mail" value="1"{{if .Form.HideEmail}} checked{{end}}></p>
<p><label for="user_language">Language</label>
<select name="user[language]" id="user_language">
{{- range .Languages}}
<option value="{{.Code}}"{{if eq .Code $.Form.Language}} selected{{end}}>{{.Name}}</option>
{{- end}}
</select></p>
<p><label for="user_custom_field_values_5">Organization</label>
<input type="text" name="user[custom_field_values][5]" id="user_custom_field_values_5" value="{{.Form.Organization}}"></p>
<p><label for="user_custom_field_values_6">Location</label>
<input type="text" name="user[custom_field_values][6]" id="user_custom_field_values_6" value="{{.Form.Location}}"></p>
<p><label for="user_custom_field_values_3">IRC nick</label>
<input type="text" name="user[custom_field_values][3]" id="user_custom_field_values_3" value="{{.Form.IRC}}"></p>
</div>
<input type="submit" name="commit" value="Submit">
</form>{{end}}`

const trackerMyAccount = `{{define "sidebar"}}<div id="sidebar">
<h3>My account</h3>
<p>Login: <a class="user active" href="/users/{{.User.ID}}">{{.User.Login}}</a><br>
Registered on: {{date .User.CreatedOn}}</p>
</div>{{end}}
{{define "content"}}<h2><img class="gravatar" alt="" width="24" height="24" src="data:image/gif;base64,R0lGODlhAQABAAAAACw="> My account</h2>
<form id="my_account_form" action="/my/account" method="post">
<p><label for="user_firstname">First name</label>
<input type="text" name="user[firstname]" id="user_firstname" value="{{.User.FirstName}}"></p>
<p><label for="user_lastname">Last name</label>
<input type="text" name="user[lastname]" id="user_lastname" value="{{.User.LastName}}"></p>
<p><label for="user_mail">Email</label>
<input type="text" name="user[mail]" id="user_mail" value="{{.User.Email}}"></p>
<p><label for="user_custom_field_values_3">IRC nick</label>
<input type="text" name="user[custom_field_values][3]" id="user_custom_field_values_3" value="{{.User.IRC}}"></p>
</form>{{end}}`

const trackerUser = `{{define "content"}}<h2><img class="gravatar" alt="" width="50" height="50" src="data:image/gif;base64,R0lGODlhAQABAAAAACw="> {{.Profile.Name}}</h2>
<ul>
<li>Login: {{.Profile.Login}}</li>
{{- if .ShowEmail}}
<li>Email: <a href="mailto:{{.Profile.Email}}">{{.Profile.Email}}</a></li>
{{- end}}
<li class="string_cf cf_3">IRC nick: {{.Profile.IRC}}</li>
<li>Registered on: {{date .Profile.CreatedOn}}</li>
<li>Last connection: {{date .Profile.LastLoginOn}}</li>
</ul>{{end}}`

const portalLayout = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - Portal</title>
<style>
header, footer { padding: 8px; background: #222; color: #eee; }
header a, footer a { color: #9cf; margin-right: 8px; }
header form { display: inline; }
.alert-error { color: ` + HighlightColor + `; }
</style>
</head>
<body>
<header>
<a class="brand" href="/">Portal</a>
{{- if .User}}
<span class="user-menu"><span class="username">{{.User.Login}}</span></span>
<a class="profile" href="/profile">Profile</a>
<form method="post" action="/signout"><button class="sign-out" type="submit">Sign out</button></form>
{{- else}}
<a class="sign-in" href="/signin">Sign in</a>
{{- end}}
</header>
<main>
{{template "content" .}}
</main>
<footer>
<nav>{{range .FooterLinks}}<a href="{{.Path}}">{{.Name}}</a>{{end}}</nav>
<p class="copyright">&copy; {{.Year}} Authflows Portal</p>
</footer>
</body>
</html>{{end}}`

const portalHome = `{{define "content"}}<h1 class="hero-title">Welcome to the portal</h1>
<p class="hero-tagline">Everything about your account in one place.</p>{{end}}`

const portalSignIn = `{{define "content"}}<h1>Sign in</h1>
{{- with .Alert}}<div class="alert-error" role="alert">{{.}}</div>{{end}}
<form class="sign-in" method="post" action="/signin">
<label>Username <input type="text" name="username" value="{{.Form.Login}}"></label>
<label>Password <input type="password" name="password"></label>
<button type="submit">Sign in</button>
</form>{{end}}`

const portalProfile = `{{define "content"}}<h1 class="profile-name">{{.User.Name}}</h1>
<dl>
<dt>Username</dt><dd class="profile-username">{{.User.Login}}</dd>
<dt>Email</dt><dd class="profile-email" data-email="{{.User.Email}}">{{.User.Email}}</dd>
<dt>Member since</dt><dd class="profile-since">{{date .User.CreatedOn}}</dd>
</dl>{{end}}`

const portalInfo = `{{define "content"}}<h1 class="info-title">{{.Title}}</h1>
<p>This page is intentionally short.</p>{{end}}`

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Format("2006-01-02")
	},
}

// pageSet parses one template per page on top of a shared layout.
func pageSet(layout string, pages map[string]string) map[string]*template.Template {
	base := template.Must(template.New("layout").Funcs(funcs).Parse(layout))
	set := make(map[string]*template.Template, len(pages))
	for name, body := range pages {
		set[name] = template.Must(template.Must(base.Clone()).Parse(body))
	}
	return set
}

var (
	trackerPages = pageSet(trackerLayout, map[string]string{
		"home":       trackerHome,
		"login":      trackerLogin,
		"register":   trackerRegister,
		"my_account": trackerMyAccount,
		"user":       trackerUser,
	})
	portalPages = pageSet(portalLayout, map[string]string{
		"home":    portalHome,
		"signin":  portalSignIn,
		"profile": portalProfile,
		"info":    portalInfo,
	})
)
