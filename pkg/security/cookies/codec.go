package cookies

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Session tokens routinely outgrow the safe size of a single cookie, so one
// logical value is stored either directly under its base name or as an
// ordered run of fragment cookies "<base>.0" .. "<base>.N-1". The codec owns
// both representations and never mixes them: every encode clears whatever was
// there before writing.

const (
	// DefaultMaxFragments caps how many fragment cookies a single value may
	// occupy. Encoding past the cap fails loudly instead of truncating.
	DefaultMaxFragments = 10

	// DefaultChunkSize is the largest value written into one cookie.
	DefaultChunkSize = 3180

	// DefaultCacheTTL bounds how long a reassembled value is memoized.
	DefaultCacheTTL = time.Second
)

var (
	ErrTooManyFragments = errors.New("cookies: value exceeds fragment limit")
	ErrFragmentGap      = errors.New("cookies: fragmented value is incomplete")
	ErrMalformedValue   = errors.New("cookies: malformed fragmented value")
)

// Source is the read side of a cookie store.
type Source interface {
	// Get returns the named cookie's value and whether it exists.
	Get(name string) (string, bool)
}

// Jar is a cookie store that also accepts writes.
type Jar interface {
	Source
	Set(name, value string)
	Delete(name string)
}

type cacheEntry struct {
	value   string
	expires time.Time
}

// Codec reassembles and fragments logical cookie values. It memoizes
// reassembled reads for a short TTL; any write or delete through the codec
// invalidates the memo so stale reads never leak within a request.
type Codec struct {
	maxFragments int
	cacheTTL     time.Duration
	now          func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// CodecOption customizes a Codec.
type CodecOption func(*Codec)

// WithMaxFragments overrides the fragment cap.
func WithMaxFragments(n int) CodecOption {
	return func(c *Codec) {
		if n > 0 {
			c.maxFragments = n
		}
	}
}

// WithCacheTTL overrides the read-memo TTL. Zero disables memoization.
func WithCacheTTL(ttl time.Duration) CodecOption {
	return func(c *Codec) { c.cacheTTL = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a cookie fragment codec.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{
		maxFragments: DefaultMaxFragments,
		cacheTTL:     DefaultCacheTTL,
		now:          time.Now,
		cache:        make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FragmentName returns the cookie name of fragment i for a base name.
func FragmentName(base string, i int) string {
	return base + "." + strconv.Itoa(i)
}

// BelongsTo reports whether a cookie name is the base cookie or one of its
// fragments. The session layer uses this to decide which cookies must go
// through the codec.
func BelongsTo(name, base string) bool {
	if name == base {
		return true
	}
	if !strings.HasPrefix(name, base+".") {
		return false
	}
	idx, err := strconv.Atoi(name[len(base)+1:])
	return err == nil && idx >= 0
}

// Decode reads the logical value stored under base. A direct, unfragmented
// cookie wins; otherwise fragments are collected in index order and joined.
// A completely absent value decodes to ("", nil). A fragmented value whose
// joined payload disagrees with its length prefix fails with ErrFragmentGap
// rather than returning a silently corrupted join.
func (c *Codec) Decode(base string, src Source) (string, error) {
	if v, ok := c.cached(base); ok {
		return v, nil
	}

	if v, ok := src.Get(base); ok && v != "" {
		c.remember(base, v)
		return v, nil
	}

	var parts []string
	found := false
	for i := 0; i < c.maxFragments; i++ {
		v, ok := src.Get(FragmentName(base, i))
		if !ok {
			parts = append(parts, "")
			continue
		}
		found = true
		parts = append(parts, v)
	}
	if !found {
		return "", nil
	}

	// Fragments are written contiguously from index 0; trim trailing
	// absent slots, then join what remains in index order.
	last := len(parts) - 1
	for last >= 0 && parts[last] == "" {
		last--
	}
	joined := strings.Join(parts[:last+1], "")

	value, err := stripLengthPrefix(joined)
	if err != nil {
		return "", err
	}

	c.remember(base, value)
	return value, nil
}

// Encode stores value under base, fragmenting when it exceeds chunkSize.
// Both representations are cleared first so switching between fragmented and
// unfragmented storage never leaves stale cookies behind.
func (c *Codec) Encode(base, value string, chunkSize int, jar Jar) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	c.Invalidate(base)
	c.clear(base, jar)

	if len(value) <= chunkSize {
		jar.Set(base, value)
		return nil
	}

	payload := strconv.Itoa(len(value)) + ":" + value
	chunks := splitChunks(payload, chunkSize)
	if len(chunks) > c.maxFragments {
		return fmt.Errorf("%w: %d fragments needed, limit is %d",
			ErrTooManyFragments, len(chunks), c.maxFragments)
	}

	for i, chunk := range chunks {
		jar.Set(FragmentName(base, i), chunk)
	}
	return nil
}

// Delete removes the logical value in both representations.
func (c *Codec) Delete(base string, jar Jar) {
	c.Invalidate(base)
	c.clear(base, jar)
}

// Invalidate drops any memoized reconstruction for base. Callers mutating
// cookies outside the codec must invalidate before the next read.
func (c *Codec) Invalidate(base string) {
	c.mu.Lock()
	delete(c.cache, base)
	c.mu.Unlock()
}

func (c *Codec) clear(base string, jar Jar) {
	jar.Delete(base)
	for i := 0; i < c.maxFragments; i++ {
		jar.Delete(FragmentName(base, i))
	}
}

func (c *Codec) cached(base string) (string, bool) {
	if c.cacheTTL <= 0 {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[base]
	if !ok || c.now().After(entry.expires) {
		delete(c.cache, base)
		return "", false
	}
	return entry.value, true
}

func (c *Codec) remember(base, value string) {
	if c.cacheTTL <= 0 {
		return
	}
	c.mu.Lock()
	c.cache[base] = cacheEntry{value: value, expires: c.now().Add(c.cacheTTL)}
	c.mu.Unlock()
}

// stripLengthPrefix parses the "<len>:<value>" payload written by Encode and
// verifies the join is complete. A length mismatch means at least one
// fragment was missing or truncated.
func stripLengthPrefix(payload string) (string, error) {
	sep := strings.IndexByte(payload, ':')
	if sep <= 0 {
		return "", ErrMalformedValue
	}
	want, err := strconv.Atoi(payload[:sep])
	if err != nil || want < 0 {
		return "", ErrMalformedValue
	}
	value := payload[sep+1:]
	if len(value) != want {
		return "", fmt.Errorf("%w: have %d bytes, expected %d",
			ErrFragmentGap, len(value), want)
	}
	return value, nil
}

func splitChunks(s string, size int) []string {
	var chunks []string
	for len(s) > size {
		chunks = append(chunks, s[:size])
		s = s[size:]
	}
	return append(chunks, s)
}
