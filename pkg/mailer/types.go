package mailer

import "fmt"

// Email is a message ready for delivery. It is never persisted.
type Email struct {
	Headers map[string]string
	Subject string
	HTML    string
	Text    string
	From    string // overrides the provider's default sender
	ReplyTo string
	To      []string
}

// Recipient formats a name and address as "Name <email>", or just the address.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
