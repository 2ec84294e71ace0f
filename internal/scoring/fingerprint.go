// internal/scoring/fingerprint.go
package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint is a stable hex digest of the profile's decoded content. Two profiles
// that decode to the same values share a fingerprint regardless of how the raw
// numbers were spelled.
func (p Profile) Fingerprint() string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
