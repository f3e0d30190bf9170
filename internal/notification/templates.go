// internal/notification/templates.go

package notification

import (
	"bytes"
	"fmt"
	"text/template"
)

type cannedTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[Kind]cannedTemplate{
	KindOTP: {
		subject: "Your Tadhana verification code",
		body: template.Must(template.New("otp").Parse(
			`Your verification code is {{.code}}.

It expires in {{.expires_in}} minutes. If you did not request this, you can ignore this email.`)),
	},
	KindMatchFound: {
		subject: "💘 You have a match!",
		body: template.Must(template.New("match_found").Parse(
			`Hi {{.alias}},

Good news: we found you a match with a compatibility score of {{.score}}.
{{range .reasons}}
  • {{.}}{{end}}

Open Tadhana to say hello. Chat unlocks once you both consent.`)),
	},
	KindFirstMessage: {
		subject: "💬 Your match sent you a message",
		body: template.Must(template.New("first_message").Parse(
			`Hi {{.alias}},

{{.partner_alias}} just sent you their first message. Open Tadhana to reply.`)),
	},
	KindRevealFull: {
		subject: "✨ Your match revealed themselves",
		body: template.Must(template.New("reveal_full").Parse(
			`Hi {{.alias}},

You both agreed to reveal. Your match is {{.partner_name}}, and you can reach them at {{.partner_email}}.`)),
	},
	KindRevealAnonymous: {
		subject: "✨ Your match agreed to connect",
		body: template.Must(template.New("reveal_anonymous").Parse(
			`Hi {{.alias}},

You both agreed to reveal. Your match joined anonymously and goes by {{.partner_alias}}. You can reach them at {{.partner_email}}.`)),
	},
}

// Render builds the email for a canned kind
func Render(kind Kind, to string, data map[string]interface{}) (*Email, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return nil, fmt.Errorf("unknown email kind %q", kind)
	}

	var body bytes.Buffer
	if err := tmpl.body.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", kind, err)
	}

	return &Email{To: to, Subject: tmpl.subject, Body: body.String()}, nil
}
