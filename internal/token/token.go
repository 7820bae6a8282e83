// Package token implements the reversible encoding between client-facing
// video tokens and origin URLs. A token is the standard Base64 encoding of
// the UTF-8 origin URL; decoding is a pure data transform with no I/O.
package token

import (
	"encoding/base64"
	"fmt"
)

// Encode returns the token for the given origin URL.
func Encode(originURL string) string {
	return base64.StdEncoding.EncodeToString([]byte(originURL))
}

// Decode returns the origin URL encoded in the token. The result is a raw
// candidate string; callers are responsible for URL validation.
func Decode(tok string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(tok)
	if err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	return string(b), nil
}
