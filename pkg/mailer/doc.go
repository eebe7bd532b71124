// Package mailer renders markdown email templates and delivers them through a
// pluggable Sender.
//
// Templates are markdown files with optional YAML front matter:
//
//	---
//	Subject: Welcome, {{.Name}}
//	---
//	Hello **{{escape .Name}}**, thank you for subscribing!
//
// The body is executed as a text/template, converted to HTML with goldmark,
// sanitized and placed into an html/template layout as {{.Content}}.
// Wrap untrusted values in {{escape ...}}: markdown syntax in them is quoted
// in the HTML part and left untouched in the plain text part.
//
// Providers live in subpackages: smtp (any SMTP relay) and resend (Resend API).
// Each delivery is a single synchronous attempt; failures are reported as
// ErrSendFailed joined with the transport error.
package mailer
