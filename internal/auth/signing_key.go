package auth

// SigningKey is the process-wide HMAC-SHA256 secret in its stable internal
// form. It is built exactly once at startup and injected into every component
// that signs or verifies tokens; nothing mutates it afterwards.
type SigningKey struct {
	secret []byte
}

// NewSigningKey converts the configured secret into its signing representation.
func NewSigningKey(secret string) SigningKey {
	return SigningKey{secret: []byte(secret)}
}

// String keeps the key material out of logs and formatted output.
func (SigningKey) String() string {
	return "SigningKey(redacted)"
}
