package openai

import (
	"errors"
	"strings"

	"github.com/poiesic/newswire/ai"
)

var errEmptyResult = errors.New("provider returned empty result")

// classifyProviderError wraps an upstream client error into a
// *ai.ProviderError, extracting the HTTP status code from the error
// message when present. The OpenAI-compatible clients embed the status
// in the message rather than a typed field.
func classifyProviderError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	status := extractStatusCode(msg)
	return &ai.ProviderError{
		StatusCode:  status,
		RateLimited: status == 429 || strings.Contains(strings.ToLower(msg), "rate limit"),
		Err:         err,
	}
}

// extractStatusCode scans a message for a three-digit HTTP status.
func extractStatusCode(msg string) int {
	for i := 0; i+3 <= len(msg); i++ {
		if (i == 0 || !isDigit(msg[i-1])) &&
			isDigit(msg[i]) && isDigit(msg[i+1]) && isDigit(msg[i+2]) &&
			(i+3 == len(msg) || !isDigit(msg[i+3])) {
			code := int(msg[i]-'0')*100 + int(msg[i+1]-'0')*10 + int(msg[i+2]-'0')
			if code >= 400 && code < 600 {
				return code
			}
		}
	}
	return 0
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
