package utils

import (
	"crypto/hmac"
	"crypto/sha256"
)

// HashBytes computes an HMAC-SHA256 digest over the given byte slice
// using the provided hash key.
//
// A new HMAC instance is created on each call, so it is safe to use with
// secrets that differ per call.
//
// Parameters:
//
//	data    - byte slice to be hashed
//	hashKey - secret key used for the HMAC operation
//
// Returns:
//
//	[]byte - raw HMAC-SHA256 digest
func HashBytes(data []byte, hashKey string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}
