package notify

import (
	"context"
	"embed"
	"io/fs"

	"github.com/dmitrymomot/newsletter/pkg/mailer"
)

//go:embed templates
var templates embed.FS

const welcomeTemplate = "welcome.md"

// Templates returns the embedded email templates rooted at the templates directory.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return sub
}

// Notifier sends the service's outbound messages.
type Notifier struct {
	mailer *mailer.Mailer
}

// New creates a Notifier.
func New(m *mailer.Mailer) *Notifier {
	return &Notifier{mailer: m}
}

// NewWithSender wires a Mailer over sender using the embedded templates.
func NewWithSender(sender mailer.Sender, cfg mailer.Config) *Notifier {
	return New(mailer.New(sender, mailer.NewRenderer(Templates()), cfg))
}

type welcomeData struct {
	Email string
	Name  string
}

// Welcome sends the welcome message to a new subscriber. name may be empty.
func (n *Notifier) Welcome(ctx context.Context, email, name string) error {
	return n.mailer.Send(ctx, mailer.SendParams{
		To:       email,
		Template: welcomeTemplate,
		Data:     welcomeData{Email: email, Name: name},
	})
}

// Send delivers a plain text message.
func (n *Notifier) Send(ctx context.Context, to, subject, body string) error {
	return n.mailer.SendRaw(ctx, &mailer.Email{
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
}
