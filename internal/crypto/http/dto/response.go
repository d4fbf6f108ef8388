package dto

// EncryptResponse contains the base64 envelope for an encrypted field.
type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
}

// DecryptResponse contains the recovered plaintext.
type DecryptResponse struct {
	Plaintext string `json:"plaintext"`
}
