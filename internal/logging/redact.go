package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Query parameters whose values never reach a log line.
var (
	guestParams  = []string{"email"}
	secretParams = []string{"proxy_key"}
)

// AnonymizeEmail hashes an address so log lines about the same guest can be
// correlated without the address itself. Case and surrounding space are ignored.
func AnonymizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return "guest:" + hex.EncodeToString(sum[:8])
}

// SanitizeToken describes a secret by its length only.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// RedactTarget rewrites the query of a path or URL so guest addresses are
// anonymized and secrets masked. Targets without such parameters come back
// unchanged; an unparsable query is dropped.
func RedactTarget(target string) string {
	base, rawQuery, ok := strings.Cut(target, "?")
	if !ok {
		return target
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return base
	}

	changed := redactParams(q, guestParams, AnonymizeEmail)
	changed = redactParams(q, secretParams, SanitizeToken) || changed
	if !changed {
		return target
	}
	return base + "?" + q.Encode()
}

func redactParams(q url.Values, keys []string, redact func(string) string) bool {
	changed := false
	for _, key := range keys {
		values, ok := q[key]
		if !ok {
			continue
		}
		for i, v := range values {
			values[i] = redact(v)
		}
		changed = true
	}
	return changed
}

// RedactURLError redacts the URL that net/http puts into its client errors.
// Other errors are returned as they are.
func RedactURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = RedactTarget(uerr.URL)
	}
	return err
}
