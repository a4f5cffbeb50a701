package source

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/viant/bintly"

	"github.com/elemstage/elemstage/cache"
	"github.com/elemstage/elemstage/element"
)

// entriesFormatVersion guards the on-disk cache layout; bump it when the
// entry encoding changes and stale files will be discarded by callers.
const entriesFormatVersion = int32(1)

// EncodeBinary writes the entry to a bintly stream.
func (e *Entry) EncodeBinary(stream *bintly.Writer) error {
	stream.String(e.Location)
	stream.Uint64(e.Hash)
	stream.Time(e.ModTime)
	stream.Int32(int32(len(e.Elements)))
	for _, item := range e.Elements {
		if err := item.EncodeBinary(stream); err != nil {
			return err
		}
	}
	return nil
}

// DecodeBinary reads the entry from a bintly stream.
func (e *Entry) DecodeBinary(stream *bintly.Reader) error {
	stream.String(&e.Location)
	stream.Uint64(&e.Hash)
	stream.Time(&e.ModTime)
	var count int32
	stream.Int32(&count)
	e.Elements = make(element.Elements, 0, count)
	for i := 0; i < int(count); i++ {
		item := &element.Element{}
		if err := item.DecodeBinary(stream); err != nil {
			return err
		}
		e.Elements = append(e.Elements, item)
	}
	return nil
}

// SaveEntries persists the partition cache to path using the element
// binary codec, so later runs skip unchanged documents.
func SaveEntries(path string, entries *cache.Map[string, Entry]) error {
	if path == "" || entries == nil {
		return nil
	}
	writers := bintly.NewWriters()
	writer := writers.Get()
	defer writers.Put(writer)

	keys := entries.Keys()
	writer.Int32(entriesFormatVersion)
	writer.Int32(int32(len(keys)))
	for _, key := range keys {
		entry, ok := entries.Get(key)
		if !ok {
			continue
		}
		writer.String(key)
		if err := entry.EncodeBinary(writer); err != nil {
			return fmt.Errorf("encode cache entry %s: %w", key, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	return os.WriteFile(path, writer.Bytes(), 0o644)
}

// LoadEntries restores a partition cache previously written by SaveEntries.
// A missing file yields an empty cache.
func LoadEntries(path string) (*cache.Map[string, Entry], error) {
	entries := cache.NewMap[string, Entry]()
	if path == "" {
		return entries, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}
	readers := bintly.NewReaders()
	reader := readers.Get()
	defer readers.Put(reader)
	if err := reader.FromBytes(data); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", path, err)
	}
	var version int32
	reader.Int32(&version)
	if version != entriesFormatVersion {
		return entries, nil
	}
	var count int32
	reader.Int32(&count)
	for i := 0; i < int(count); i++ {
		var key string
		reader.String(&key)
		entry := &Entry{}
		if err := entry.DecodeBinary(reader); err != nil {
			return nil, fmt.Errorf("decode cache entry %s: %w", key, err)
		}
		entries.Set(key, entry)
	}
	return entries, nil
}
