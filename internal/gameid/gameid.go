// Package gameid generates table identifiers: UUIDv7 payloads rendered as
// 26 characters of Crockford base32. IDs sort roughly by creation time and
// are safe to put in URLs.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource supplies the random tail of an ID. Tests inject a
// deterministic one; production uses crypto/rand.
type RandSource interface {
	Intn(n int) int
}

// Generator creates IDs with configurable randomness.
type Generator struct {
	randSource RandSource
	now        func() time.Time
}

// NewGenerator returns a Generator. A nil randSource means crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource, now: time.Now}
}

// New creates an ID with the default generator.
func New() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a fresh ID.
func (g *Generator) Generate() string {
	var raw [16]byte

	// 48-bit millisecond timestamp, then version/variant bits over the
	// random tail, per UUIDv7.
	ms := g.now().UnixMilli()
	for i := 0; i < 6; i++ {
		raw[i] = byte(ms >> (40 - 8*i))
	}

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			raw[i] = byte(g.randSource.Intn(256))
		}
	} else if _, err := rand.Read(raw[6:]); err != nil {
		panic("gameid: " + err.Error())
	}
	raw[6] = raw[6]&0x0f | 0x70
	raw[8] = raw[8]&0x3f | 0x80

	return encode(raw)
}

// encode renders 128 bits as 26 base32 characters, five bits at a time,
// most significant first.
func encode(raw [16]byte) string {
	var out [26]byte
	for i := range out {
		bit := i * 5
		byteIdx, shift := bit/8, bit%8

		var v byte
		if shift <= 3 {
			v = raw[byteIdx] >> (3 - shift) & 0x1f
		} else {
			v = raw[byteIdx] << (shift - 3) & 0x1f
			if byteIdx+1 < len(raw) {
				v |= raw[byteIdx+1] >> (11 - shift)
			}
		}
		out[i] = alphabet[v]
	}
	return string(out[:])
}

// Validate reports whether id is a well-formed game ID.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game ID must be 26 characters, got %d", len(id))
	}
	// 130 encoded bits carry only 128: the first character holds 2 zero
	// padding bits, so it cannot exceed '7'.
	if id[0] > '7' {
		return fmt.Errorf("game ID first character out of range: %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
