package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// FingerprintValue is the derived identity of a logical commit, stable across
// branches and SHAs. Two records with equal fingerprints represent the same
// logical contribution.
type FingerprintValue string

// Fingerprint computes the canonical identity of a record from its normalized
// message and change signature. It is a pure function: equal inputs always
// produce equal values across runs and processes.
//
// The (message, signature) pair is a documented heuristic, not a cryptographic
// identity: message alone collides on generic texts ("fix typo"), signature
// alone conflates identical diffs with different intent. Tuning lives in the
// change-signature policy (SignatureMode), not here.
func Fingerprint(r CommitRecord) FingerprintValue {
	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(r.Message)))
	h.Write([]byte{0})
	h.Write([]byte(r.ChangeSignature))
	return FingerprintValue(hex.EncodeToString(h.Sum(nil)))
}
