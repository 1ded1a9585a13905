// Package logging keeps registry credentials out of cargo-protologic's log files.
//
// Cargo command lines and environments can carry crates.io tokens and
// credentialed git URLs, and both are logged at debug level. Everything written
// to the rotating log file passes through FilteringWriter.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

//nolint:gochecknoglobals // compiled once at package init
var sensitivePatterns = []*regexp.Regexp{
	// crates.io API tokens
	regexp.MustCompile(`cio[a-zA-Z0-9]{32}`),

	// CARGO_REGISTRY_TOKEN=... and CARGO_REGISTRIES_<NAME>_TOKEN=...
	regexp.MustCompile(`(?i)CARGO_REGISTR(?:Y|IES_[A-Z0-9_]+?)_TOKEN\s*[:=]\s*["']?[^\s"']+["']?`),

	// GitHub tokens (ghp_, gho_, ghu_, ghs_, ghr_) used for git dependencies
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`),

	// token = "...", password: ..., and friends from config dumps
	regexp.MustCompile(`(?i)(token|secret|password|credential|passwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),
}

// urlUserinfoPattern matches credentials embedded in URLs, as used by private
// git dependencies. The scheme is captured so it survives redaction.
var urlUserinfoPattern = regexp.MustCompile(`([a-z][a-z0-9+.-]*://)[^/\s:@]+:[^/\s@]+@`) //nolint:gochecknoglobals // compiled once

//nolint:gochecknoglobals // fixed list
var sensitiveFieldNames = []string{
	"token",
	"password",
	"passwd",
	"secret",
	"credential",
	"authorization",
	"private_key",
}

// SensitiveDataHook flags log events whose message looks like it carries a secret.
// zerolog hooks cannot rewrite the message; FilteringWriter does the redaction.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	if urlUserinfoPattern.MatchString(s) {
		return true
	}
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value with [REDACTED].
// URL userinfo is replaced but the scheme is kept so the URL stays readable.
func FilterSensitiveValue(value string) string {
	result := urlUserinfoPattern.ReplaceAllString(value, "${1}"+RedactedValue+"@")
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether a field or env var name suggests a secret,
// e.g. CARGO_REGISTRY_TOKEN or registry_password.
func IsSensitiveFieldName(fieldName string) bool {
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// RedactIfSensitive returns [REDACTED] for sensitive field names and the
// filtered value otherwise.
func RedactIfSensitive(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// FilteringWriter wraps an io.Writer and redacts sensitive data from everything
// written through it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a FilteringWriter around w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success even when the
// redacted output is shorter, so callers never see a short write.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := fw.w.Write([]byte(FilterSensitiveValue(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
