// Package redact scrubs credentials and personal data from error text
// before it reaches logs.
package redact

import "regexp"

type rule struct {
	re          *regexp.Regexp
	placeholder string
}

// Rules run in order; connection strings go first so their passwords are
// not half-matched by the password rule.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres(?:ql)?|rediss?|amqp)://[^@\s]+@`), "[REDACTED_CREDENTIAL]"},
	{regexp.MustCompile(`(?i)(password|passwd|pwd|secret)([=:\s]?['"]?)[^'"&\s]{3,}`), "[REDACTED_CREDENTIAL]"},
	{regexp.MustCompile(`(?i)bearer\s+[a-z0-9._-]+`), "[REDACTED_TOKEN]"},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), "[REDACTED_JWT]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`(?i)\b(SELECT|INSERT\s+INTO|UPDATE\s+\w+\s+SET|DELETE\s+FROM)\b[^;]*`), "[REDACTED_SQL]"},
}

// String returns input with every sensitive match replaced.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.re.ReplaceAllString(input, r.placeholder)
	}
	return input
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
