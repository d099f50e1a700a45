package contact

import (
	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/templates/layouts"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

type Details struct {
	Address []string
	Phone   string
	Email   string
	Hours   []string
}

type FormData struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type PageData struct {
	Details   Details
	Form      FormData
	Error     string
	Sent      bool
	Available bool
}

func lines(v *view.Writer, heading string, values []string) {
	if len(values) == 0 {
		return
	}
	v.Printf(`<div class="contact-item"><h3>%s</h3>`, heading)
	for _, line := range values {
		v.Printf(`<p>%s</p>`, line)
	}
	v.Raw(`</div>`)
}

func Page(data PageData) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<section class="page-banner"><h1>Contact Us</h1>`)
		v.Raw(`<p class="lead">We'd love to hear from you! Whether you're interested in joining the club, have questions about upcoming events, or want to learn more about our facilities, we're here to help.</p></section>`)

		v.Raw(`<div class="contact-grid"><aside class="contact-details"><h2>Get in Touch</h2>`)
		lines(v, "Address", data.Details.Address)
		if data.Details.Phone != "" {
			lines(v, "Phone", []string{data.Details.Phone})
		}
		if data.Details.Email != "" {
			v.Printf(`<div class="contact-item"><h3>Email</h3><p><a href="mailto:%s">%s</a></p></div>`, data.Details.Email, data.Details.Email)
		}
		lines(v, "Hours", data.Details.Hours)
		v.Raw(`</aside><section class="contact-form">`)

		if data.Sent {
			v.Component(layouts.Alert("success", "Thanks for getting in touch. We'll reply soon."))
		}
		if !data.Available {
			v.Component(layouts.Alert("info", "The contact form is not available right now. Please reach us by phone or email."))
			v.Raw(`</section></div>`)
			return
		}
		v.Component(layouts.Alert("error", data.Error))
		v.Raw(`<form method="post" action="/api/contact" class="stack">`)
		v.Printf(`<label for="name">Name</label><input id="name" type="text" name="name" value="%s" required maxlength="100">`, data.Form.Name)
		v.Printf(`<label for="email">Email</label><input id="email" type="email" name="email" value="%s" required>`, data.Form.Email)
		v.Printf(`<label for="phone">Phone (optional)</label><input id="phone" type="tel" name="phone" value="%s">`, data.Form.Phone)
		v.Printf(`<label for="subject">Subject</label><input id="subject" type="text" name="subject" value="%s" maxlength="120" placeholder="Membership, events, facility rental...">`, data.Form.Subject)
		v.Raw(`<label for="message">Message</label><textarea id="message" name="message" rows="6" required>`)
		v.Text(data.Form.Message)
		v.Raw(`</textarea><button type="submit" class="btn btn-primary">Send message</button></form></section></div>`)
	})
}
