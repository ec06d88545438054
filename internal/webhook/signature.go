package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/feral-file/ff-confirmator/internal/adapter"
)

// GenerateSignedPayload serializes the event into canonical JSON and signs it with HMAC-SHA256.
// The secret is hex encoded. The signed message is "{timestamp}.{event_id}.{json_body}" and the
// signature is formatted as "sha256=<hex>".
func GenerateSignedPayload(hexSecret string, event WebhookEvent, timestamp int64, json adapter.JSON, jcs adapter.JCS) (payload []byte, signature string, err error) {
	secret, err := hex.DecodeString(hexSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode hex secret: %w", err)
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event: %w", err)
	}

	payload, err = jcs.Transform(raw)
	if err != nil {
		return nil, "", fmt.Errorf("failed to canonicalize event: %w", err)
	}

	return payload, Sign(secret, timestamp, event.EventID, payload), nil
}

// Sign computes the signature header value of a payload
func Sign(secret []byte, timestamp int64, eventID string, payload []byte) string {
	h := hmac.New(sha256.New, secret)
	fmt.Fprintf(h, "%d.%s.%s", timestamp, eventID, payload)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

// Verify checks a signature header value against a payload in constant time
func Verify(hexSecret string, timestamp int64, eventID string, payload []byte, signature string) bool {
	secret, err := hex.DecodeString(hexSecret)
	if err != nil {
		return false
	}

	expected := Sign(secret, timestamp, eventID, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
