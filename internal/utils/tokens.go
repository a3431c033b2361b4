package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"
)

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// GenerateHexToken returns a hex token of 2*byteLen characters. Evaluation
// access links use 32 bytes, giving the 64-character tokens the candidate
// URLs are built from.
func GenerateHexToken(byteLen int) (string, error) {
	bytes := make([]byte, byteLen)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
