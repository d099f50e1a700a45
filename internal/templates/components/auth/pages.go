package auth

import (
	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/templates/view"
)

type LoginData struct {
	Email      string
	Next       string
	Error      string
	Registered bool
}

type RegisterData struct {
	Name   string
	Email  string
	Phone  string
	Error  string
	Closed bool
}

func LoginPage(data LoginData) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<section class="auth-card"><h1>Sign in</h1>`)
		if data.Registered {
			v.Raw(`<div class="alert alert-success">Account created. You can sign in now.</div>`)
		}
		if data.Error != "" {
			v.Printf(`<div class="alert alert-error" role="alert">%s</div>`, data.Error)
		}
		v.Raw(`<form method="post" action="/api/auth/login" class="stack">`)
		v.Printf(`<input type="hidden" name="next" value="%s">`, data.Next)
		v.Printf(`<label for="email">Email</label><input id="email" type="email" name="email" value="%s" required autocomplete="username">`, data.Email)
		v.Raw(`<label for="password">Password</label><input id="password" type="password" name="password" required autocomplete="current-password">`)
		v.Raw(`<button type="submit" class="btn btn-primary">Sign in</button></form>`)
		v.Raw(`<p class="form-hint">No account? <a href="/register">Register</a></p></section>`)
	})
}

func RegisterPage(data RegisterData) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<section class="auth-card"><h1>Register</h1>`)
		if data.Closed {
			v.Raw(`<div class="alert alert-info">Registration is closed. Ask an existing administrator for an account.</div></section>`)
			return
		}
		if data.Error != "" {
			v.Printf(`<div class="alert alert-error" role="alert">%s</div>`, data.Error)
		}
		v.Raw(`<form method="post" action="/api/auth/register" class="stack">`)
		v.Printf(`<label for="name">Full Name</label><input id="name" type="text" name="name" value="%s" required>`, data.Name)
		v.Printf(`<label for="email">Email</label><input id="email" type="email" name="email" value="%s" required autocomplete="username">`, data.Email)
		v.Printf(`<label for="phone">Phone</label><input id="phone" type="tel" name="phone" value="%s">`, data.Phone)
		v.Raw(`<label for="password">Password</label><input id="password" type="password" name="password" required minlength="8" autocomplete="new-password">`)
		v.Raw(`<button type="submit" class="btn btn-primary">Create account</button></form>`)
		v.Raw(`<p class="form-hint">Already registered? <a href="/login">Sign in</a></p></section>`)
	})
}
