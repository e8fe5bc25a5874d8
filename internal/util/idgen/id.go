// Package idgen generates the identifiers of the league entities and the secret invite values.
package idgen

import (
	crand "crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"
)

// Lowercase Crockford alphabet, so the IDs sort in creation order and are safe in URLs.
var encoding = base32.NewEncoding("0123456789abcdefghjkmnpqrstvwxyz").WithPadding(base32.NoPadding)

// ID returns a 26-character identifier. The first ten characters encode the creation time in
// milliseconds, the rest is random.
func ID() string {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], uint64(time.Now().UnixMilli())<<16)
	binary.BigEndian.PutUint64(b[8:16], rand.Uint64())
	binary.BigEndian.PutUint16(b[6:8], uint16(rand.Uint32()))
	return encoding.EncodeToString(b[:])
}

// SecureLinkValue returns an unguessable value for an invite link.
func SecureLinkValue() (string, error) {
	var b [20]byte
	if _, err := crand.Read(b[:]); err != nil {
		return "", fmt.Errorf("crypto rand: %w", err)
	}
	return encoding.EncodeToString(b[:]), nil
}
