package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/coocood/freecache"
)

// DefaultMemorySize is the freecache arena size used when none is configured.
const DefaultMemorySize = 64 * 1024 * 1024

// freecache rejects a key plus value larger than a quarter of one of its 256
// segments, minus the entry header. Values above that are stored as chunks.
const (
	freecacheSegments  = 256
	freecacheEntryHdr  = 24
	chunkKeyAllowance  = 64
	minFreecacheBuffer = 512 * 1024
)

// Stored values carry a one byte tag so Get can tell inline values from chunk
// manifests.
const (
	tagInline  byte = 'i'
	tagChunked byte = 'c'
)

// ErrMissingChunk is returned when part of a chunked value was evicted.
var ErrMissingChunk = errors.New("memory backend: chunk evicted")

// Memory is an ephemeral backend; nothing survives the process.
type Memory struct {
	cache     *freecache.Cache
	chunkSize int
}

var _ Backend = (*Memory)(nil)

// NewMemory allocates a memory backend of size bytes.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if size < minFreecacheBuffer {
		size = minFreecacheBuffer
	}
	return &Memory{
		cache:     freecache.NewCache(size),
		chunkSize: size/freecacheSegments/4 - freecacheEntryHdr - chunkKeyAllowance,
	}
}

// MaxEntrySize is the largest value stored without chunking.
func (m *Memory) MaxEntrySize() int {
	return m.chunkSize
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := m.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw) == 0 {
		return nil, false, fmt.Errorf("memory backend: empty record for %q", key)
	}
	switch raw[0] {
	case tagInline:
		return raw[1:], true, nil
	case tagChunked:
		count, err := strconv.Atoi(string(raw[1:]))
		if err != nil {
			return nil, false, fmt.Errorf("memory backend: bad manifest for %q: %w", key, err)
		}
		var out []byte
		for i := 0; i < count; i++ {
			part, err := m.cache.Get(chunkKey(key, i))
			if errors.Is(err, freecache.ErrNotFound) {
				return nil, false, fmt.Errorf("%w: %q part %d", ErrMissingChunk, key, i)
			}
			if err != nil {
				return nil, false, err
			}
			out = append(out, part...)
		}
		return out, true, nil
	default:
		return nil, false, fmt.Errorf("memory backend: unknown record tag for %q", key)
	}
}

// Set implements Backend.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	previous := m.chunkCount(key)

	if len(key)+len(value) < m.chunkSize {
		if err := m.cache.Set([]byte(key), append([]byte{tagInline}, value...), 0); err != nil {
			return err
		}
		m.dropChunks(key, 0, previous)
		return nil
	}

	count := 0
	for start := 0; start < len(value); start += m.chunkSize {
		end := min(start+m.chunkSize, len(value))
		if err := m.cache.Set(chunkKey(key, count), value[start:end], 0); err != nil {
			return fmt.Errorf("memory backend: failed to store %q part %d: %w", key, count, err)
		}
		count++
	}
	manifest := append([]byte{tagChunked}, strconv.Itoa(count)...)
	if err := m.cache.Set([]byte(key), manifest, 0); err != nil {
		return err
	}
	m.dropChunks(key, count, previous)
	return nil
}

// Close implements Backend.
func (m *Memory) Close() error {
	m.cache.Clear()
	return nil
}

func (m *Memory) chunkCount(key string) int {
	raw, err := m.cache.Get([]byte(key))
	if err != nil || len(raw) == 0 || raw[0] != tagChunked {
		return 0
	}
	n, err := strconv.Atoi(string(raw[1:]))
	if err != nil {
		return 0
	}
	return n
}

func (m *Memory) dropChunks(key string, from, to int) {
	for i := from; i < to; i++ {
		m.cache.Del(chunkKey(key, i))
	}
}

func chunkKey(key string, i int) []byte {
	return []byte(key + "#" + strconv.Itoa(i))
}
