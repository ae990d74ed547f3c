package cookies

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapJar is an in-memory jar for codec tests.
type mapJar struct {
	values map[string]string
}

func newMapJar() *mapJar {
	return &mapJar{values: make(map[string]string)}
}

func (j *mapJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

func (j *mapJar) Set(name, value string) {
	j.values[name] = value
}

func (j *mapJar) Delete(name string) {
	delete(j.values, name)
}

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		chunkSize int
	}{
		{
			name:      "short value stays unfragmented",
			value:     "hello-session-token",
			chunkSize: 64,
		},
		{
			name:      "value at exactly chunk size stays unfragmented",
			value:     strings.Repeat("a", 64),
			chunkSize: 64,
		},
		{
			name:      "long value is fragmented",
			value:     strings.Repeat("x", 300),
			chunkSize: 64,
		},
		{
			name:      "value filling the fragment cap",
			value:     strings.Repeat("y", 600),
			chunkSize: 64,
		},
		{
			name:      "empty value",
			value:     "",
			chunkSize: 64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := NewCodec(WithCacheTTL(0))
			jar := newMapJar()

			require.NoError(t, codec.Encode("sess", tt.value, tt.chunkSize, jar))

			got, err := codec.Decode("sess", jar)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestCodecFragmentLayout(t *testing.T) {
	codec := NewCodec(WithCacheTTL(0))
	jar := newMapJar()

	value := strings.Repeat("z", 150)
	require.NoError(t, codec.Encode("sess", value, 64, jar))

	// The base cookie must not exist alongside fragments.
	_, ok := jar.Get("sess")
	assert.False(t, ok)

	_, ok = jar.Get("sess.0")
	assert.True(t, ok)
	_, ok = jar.Get("sess.1")
	assert.True(t, ok)
}

func TestCodecDecodeIgnoresStorageOrder(t *testing.T) {
	codec := NewCodec(WithCacheTTL(0))
	jar := newMapJar()

	value := strings.Repeat("ab", 200)
	require.NoError(t, codec.Encode("sess", value, 64, jar))

	// Reassembly reads by index, so physical iteration order of the map
	// jar is irrelevant.
	got, err := codec.Decode("sess", jar)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestCodecEncodeFailsPastFragmentLimit(t *testing.T) {
	codec := NewCodec(WithCacheTTL(0), WithMaxFragments(3))
	jar := newMapJar()

	err := codec.Encode("sess", strings.Repeat("q", 1000), 64, jar)
	require.ErrorIs(t, err, ErrTooManyFragments)

	// A failed encode must not leave a partial representation behind.
	got, decodeErr := codec.Decode("sess", jar)
	require.NoError(t, decodeErr)
	assert.Empty(t, got)
}

func TestCodecSwitchingRepresentationsClearsStaleState(t *testing.T) {
	codec := NewCodec(WithCacheTTL(0))
	jar := newMapJar()

	long := strings.Repeat("L", 300)
	require.NoError(t, codec.Encode("sess", long, 64, jar))

	// Fragmented -> unfragmented must drop every fragment cookie.
	require.NoError(t, codec.Encode("sess", "short", 64, jar))
	for i := 0; i < DefaultMaxFragments; i++ {
		_, ok := jar.Get(FragmentName("sess", i))
		assert.False(t, ok, "stale fragment %d survived", i)
	}

	got, err := codec.Decode("sess", jar)
	require.NoError(t, err)
	assert.Equal(t, "short", got)

	// And back: unfragmented -> fragmented must drop the base cookie.
	require.NoError(t, codec.Encode("sess", long, 64, jar))
	_, ok := jar.Get("sess")
	assert.False(t, ok)

	got, err = codec.Decode("sess", jar)
	require.NoError(t, err)
	assert.Equal(t, long, got)
}

func TestCodecDecodeFailsOnFragmentGap(t *testing.T) {
	codec := NewCodec(WithCacheTTL(0))
	jar := newMapJar()

	require.NoError(t, codec.Encode("sess", strings.Repeat("g", 300), 64, jar))

	// Simulate a lost middle fragment.
	jar.Delete("sess.2")

	_, err := codec.Decode("sess", jar)
	assert.ErrorIs(t, err, ErrFragmentGap)
}

func TestCodecDecodeFailsOnMalformedPayload(t *testing.T) {
	codec := NewCodec(WithCacheTTL(0))
	jar := newMapJar()
	jar.Set("sess.0", "no-length-prefix-here")

	_, err := codec.Decode("sess", jar)
	assert.ErrorIs(t, err, ErrMalformedValue)
}

func TestCodecDecodeMissingValue(t *testing.T) {
	codec := NewCodec(WithCacheTTL(0))
	jar := newMapJar()

	got, err := codec.Decode("sess", jar)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCodecMemoInvalidation(t *testing.T) {
	now := time.Now()
	codec := NewCodec(
		WithCacheTTL(time.Second),
		WithClock(func() time.Time { return now }),
	)
	jar := newMapJar()

	require.NoError(t, codec.Encode("sess", "first", 64, jar))
	got, err := codec.Decode("sess", jar)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	// A write through the codec invalidates the memo immediately.
	require.NoError(t, codec.Encode("sess", "second", 64, jar))
	got, err = codec.Decode("sess", jar)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	// A write around the codec is hidden until the TTL lapses.
	jar.Set("sess", "third")
	got, err = codec.Decode("sess", jar)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	now = now.Add(2 * time.Second)
	got, err = codec.Decode("sess", jar)
	require.NoError(t, err)
	assert.Equal(t, "third", got)
}

func TestCodecDelete(t *testing.T) {
	codec := NewCodec(WithCacheTTL(0))
	jar := newMapJar()

	require.NoError(t, codec.Encode("sess", strings.Repeat("d", 300), 64, jar))
	codec.Delete("sess", jar)

	got, err := codec.Decode("sess", jar)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, jar.values)
}

func TestBelongsTo(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		expected bool
	}{
		{"base name", "sess", true},
		{"fragment zero", "sess.0", true},
		{"high fragment", "sess.9", true},
		{"other cookie", "theme", false},
		{"prefix but not fragment", "sess.abc", false},
		{"different base", "session.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BelongsTo(tt.cookie, "sess"))
		})
	}
}
