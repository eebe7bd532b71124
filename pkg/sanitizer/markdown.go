package sanitizer

import "strings"

// CommonMark treats a backslash before any of these as a literal character.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`(`, `\(`,
	`)`, `\)`,
	`#`, `\#`,
	`+`, `\+`,
	`-`, `\-`,
	`!`, `\!`,
	`|`, `\|`,
	`~`, `\~`,
	`&`, `\&`,
)

// EscapeMarkdown backslash-escapes markdown syntax so s renders as literal
// text. Line breaks are collapsed to spaces to keep s inline.
func EscapeMarkdown(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return markdownEscaper.Replace(s)
}
