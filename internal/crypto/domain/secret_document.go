package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SecretDocument is the JSON body stored in the remote secret store:
//
//	{"key": "<base64 32-byte value>"}
type SecretDocument struct {
	Key string `json:"key"`
}

// ParseSecretDocument decodes a secret store body and checks that the key
// field is present. Returns ErrKeyUnavailable on any failure.
func ParseSecretDocument(body []byte) (*SecretDocument, error) {
	var doc SecretDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid secret document: %w", ErrKeyUnavailable, err)
	}

	if strings.TrimSpace(doc.Key) == "" {
		return nil, fmt.Errorf("%w: secret document has no \"key\" field", ErrKeyUnavailable)
	}

	return &doc, nil
}
