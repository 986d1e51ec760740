// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package logging

import (
	"errors"
	"net/url"
	"strings"
)

// sensitiveParams are query parameter names whose values never reach a log line.
var sensitiveParams = map[string]bool{
	"api_key":      true,
	"apikey":       true,
	"access_token": true,
	"token":        true,
}

// RedactSecret masks a credential, showing only the first and last 2 characters.
// Example: "0123456789abcdef" -> "01...ef"
func RedactSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:2] + "..." + secret[len(secret)-2:]
}

// RedactURL replaces the values of credential query parameters in raw with
// "REDACTED". Strings that do not parse as URLs are returned with any literal
// "api_key=" value cut off.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.Index(raw, "api_key="); i >= 0 {
			return raw[:i] + "api_key=REDACTED"
		}
		return raw
	}

	q := u.Query()
	changed := false
	for key := range q {
		if sensitiveParams[strings.ToLower(key)] {
			q.Set(key, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// RedactError returns err's message with any embedded URL credentials masked.
// net/http wraps failures in *url.Error whose text includes the full request URL.
func RedactError(err error) string {
	if err == nil {
		return ""
	}
	var ue *url.Error
	msg := err.Error()
	if errors.As(err, &ue) {
		return strings.ReplaceAll(msg, ue.URL, RedactURL(ue.URL))
	}
	return msg
}
