// Package notify composes the service's emails: the welcome message sent
// after a subscription and ad-hoc plain text messages.
package notify
