package engine

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

var seedAlphabet = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// seedFromString hashes arbitrary seed text down to 64 bits.
func seedFromString(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(h[:8])
}

// derive returns a child seed for a stable label such as "map#3".
func derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	sum := m.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// SessionSeed is the textual seed of one browsing session. The same text
// replays the same map draws.
type SessionSeed struct {
	Text string
	root uint64
}

// NewSessionSeed rejects empty text.
func NewSessionSeed(text string) (SessionSeed, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SessionSeed{}, errors.New("seed text must not be empty")
	}
	return SessionSeed{Text: text, root: seedFromString(text)}, nil
}

// RandomSeedText returns 24 base32 characters from crypto/rand.
func RandomSeedText() (string, error) {
	buf := make([]byte, 15)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random seed")
	}
	return seedAlphabet.EncodeToString(buf), nil
}

// Stream returns a deterministic RNG stream for label.
func (s SessionSeed) Stream(label string) *Stream {
	return newStream(derive(s.root, label))
}

// splitMix64 backs every Stream.
type splitMix64 struct{ state uint64 }

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Stream provides deterministic random numbers with labelled child streams.
type Stream struct {
	base uint64
	sm   *splitMix64
}

func newStream(seed uint64) *Stream {
	return &Stream{base: seed, sm: &splitMix64{state: seed}}
}

// Intn mirrors math/rand.Intn; n <= 0 yields 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.sm.next() % uint64(n))
}

func (s *Stream) Uint64() uint64 { return s.sm.next() }

// Child creates a sub-stream derived from this stream's base seed and label.
func (s *Stream) Child(label string) *Stream { return newStream(derive(s.base, label)) }

// PickCities draws min(n, len(cities)) distinct cities uniformly using a
// partial Fisher-Yates shuffle. The input slice is not modified.
func PickCities(s *Stream, cities []City, n int) []City {
	pool := append([]City{}, cities...)
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		j := i + s.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
