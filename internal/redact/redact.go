// Package redact scrubs storage details from error text before it is
// logged or returned to an API client. Errors from the sqlite and file
// backends embed database paths, DSN pragmas, SQL statements and home
// directories; none of that belongs in a response body.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder = "[REDACTED]"
	PathPlaceholder      = "[REDACTED_PATH]"
	DSNPlaceholder       = "[REDACTED_DSN]"
	SQLPlaceholder       = "[REDACTED_SQL]"
	StackPlaceholder     = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	re          *regexp.Regexp
	placeholder string
}

// Rules run in order; DSNs go before paths so the whole DSN is replaced.
var rules = []rule{
	{regexp.MustCompile(`(?:file:)?[^\s"'?]*\?(?:_pragma=[^\s&"']+&?)+`), DSNPlaceholder},
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), StackPlaceholder},
	{regexp.MustCompile(
		`(?i)\b(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)\b[\s\w,*()?]+\b(FROM|INTO|SET|TABLE|INDEX)\b[^;:]*`,
	), SQLPlaceholder},
	{regexp.MustCompile(`(?:~|\.{1,2})?(?:/[\w.-]+){2,}`), PathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(?:\\[^\\\s]+)+`), PathPlaceholder},
}

// String redacts storage details from s.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.placeholder)
	}
	return s
}

// Error redacts err's message. A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
