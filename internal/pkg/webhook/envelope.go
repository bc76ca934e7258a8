package webhook

import (
	"errors"
	"regexp"
	"strings"
)

// HeaderName is the request header carrying the provider signature.
const HeaderName = "Webhook-Signature"

var (
	ErrMissingSignature   = errors.New("webhook signature header is required")
	ErrMalformedSignature = errors.New("webhook signature header is malformed")
)

// Envelope is the parsed timestamp/signature pair from the signature header.
// Raw keeps the untouched header value; it doubles as the idempotency key.
type Envelope struct {
	Timestamp string
	Signature string
	Raw       string
}

// The header must look like "time=<epoch-seconds>,sig1=<hex-hmac>". The
// signature part is required to be hex so that a garbage value is rejected
// here instead of surviving until the HMAC comparison.
var signatureHeaderPattern = regexp.MustCompile(`^time=(\d+),sig1=([0-9a-fA-F]+)$`)

// ParseSignatureHeader validates the signature header shape and splits it
// into its envelope fields.
func ParseSignatureHeader(header string) (Envelope, error) {
	if header == "" {
		return Envelope{}, ErrMissingSignature
	}
	if !signatureHeaderPattern.MatchString(header) {
		return Envelope{}, ErrMalformedSignature
	}

	parts := strings.Split(header, ",")
	timestamp := strings.SplitN(parts[0], "=", 2)[1]
	signature := strings.SplitN(parts[1], "=", 2)[1]

	return Envelope{
		Timestamp: timestamp,
		Signature: signature,
		Raw:       header,
	}, nil
}
