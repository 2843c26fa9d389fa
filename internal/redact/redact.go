// Package redact provides utilities for redacting sensitive information from strings
// before they are logged or returned in error responses. It covers graph
// database connection URIs, credentials, Cypher fragments, file paths and
// stack traces that driver errors tend to carry.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCypherPlaceholder     = "[REDACTED_CYPHER]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules are applied in order; earlier rules consume text later ones would
// otherwise match partially.
var rules = []rule{
	// Connection URIs with embedded user info
	{
		regexp.MustCompile(`(?i)\b(bolt|bolt\+s|bolt\+ssc|neo4j|neo4j\+s|neo4j\+ssc|http|https)://[^@\s/]+@`),
		RedactedCredentialPlaceholder,
	},
	// Bare graph database URIs
	{
		regexp.MustCompile(`(?i)\b(bolt|bolt\+s|bolt\+ssc|neo4j|neo4j\+s|neo4j\+ssc)://[^\s'"]+`),
		RedactedHostPlaceholder,
	},
	// Credentials and tokens
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd|credentials)([=:\s]?['"]?)[^'"&\s]{3,}`),
		RedactedCredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(api[_-]?key|token|secret|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},
	// Stack trace fragments
	{
		regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		"[STACK_TRACE_REDACTED]",
	},
	// Cypher statements, from the first clause keyword to the end of the text.
	// Keywords are matched upper case only so prose such as "failed to create"
	// is left alone.
	{
		regexp.MustCompile(`\b(OPTIONAL MATCH|MATCH|MERGE|CREATE|UNWIND|DETACH DELETE)\s[\s\S]*`),
		RedactedCypherPlaceholder,
	},
	// File paths
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`), RedactedPathPlaceholder},
	// Host names with an optional port
	{
		regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`),
		RedactedHostPlaceholder,
	},
	{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}(?::\d{1,5})?\b`), RedactedHostPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
