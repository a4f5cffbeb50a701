package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/elemstage/elemstage/cache"
	"github.com/elemstage/elemstage/element"
	"github.com/elemstage/elemstage/matching"
	"github.com/elemstage/elemstage/partition"
)

// Entry records the partition result for a single source document so
// unchanged documents are not partitioned again.
type Entry struct {
	Location string
	Hash     uint64
	ModTime  time.Time
	Elements element.Elements
}

// Walker lists source documents, filters them through matching rules and
// partitions new or changed content into elements.
type Walker struct {
	fs      Service
	matcher *matching.Manager
	factory *partition.Factory
}

// Option configures a Walker.
type Option func(*Walker)

// WithFS overrides the storage service used for listing and download.
func WithFS(fs Service) Option {
	return func(w *Walker) { w.fs = fs }
}

// NewWalker creates a source walker.
func NewWalker(matcher *matching.Manager, factory *partition.Factory, opts ...Option) *Walker {
	w := &Walker{
		fs:      NewAFS(),
		matcher: matcher,
		factory: factory,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Collect walks a location recursively and returns elements for every
// non-excluded document. Documents whose content hash matches a cache entry
// are served from the cache without re-partitioning.
func (w *Walker) Collect(ctx context.Context, location string, entries *cache.Map[string, Entry]) (element.Elements, error) {
	norm, err := normalizeLocation(location)
	if err != nil {
		return nil, err
	}
	objects, err := w.fs.List(ctx, norm)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", location, err)
	}

	var elements element.Elements
	for _, object := range objects {
		objectPath := url.Path(object.URL())
		if object.IsDir() {
			if url.Equals(objectPath, url.Path(norm)) || object.URL() == norm {
				continue
			}
			sub, err := w.Collect(ctx, url.Join(norm, object.Name()), entries)
			if err != nil {
				return nil, err
			}
			elements = append(elements, sub...)
			continue
		}
		if w.matcher != nil && w.matcher.IsExcluded(objectPath, int(object.Size())) {
			continue
		}
		items, err := w.collectFile(ctx, object, entries)
		if err != nil {
			return nil, err
		}
		elements = append(elements, items...)
	}
	return elements, nil
}

func (w *Walker) collectFile(ctx context.Context, object storage.Object, entries *cache.Map[string, Entry]) (element.Elements, error) {
	location := url.Path(object.URL())
	data, err := w.fs.Download(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", location, err)
	}
	hash, err := cache.ContentHash(data)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", location, err)
	}
	if entries != nil {
		if prev, ok := entries.Get(location); ok && prev.Hash == hash {
			return prev.Elements, nil
		}
	}
	elements, err := w.factory.Partition(location, data)
	if err != nil {
		return nil, fmt.Errorf("failed to partition %s: %w", location, err)
	}
	if entries != nil {
		entries.Set(location, &Entry{
			Location: location,
			Hash:     hash,
			ModTime:  object.ModTime(),
			Elements: elements,
		})
	}
	return elements, nil
}

// normalizeLocation makes relative paths absolute and scheme-less absolute
// paths file:// URLs for cross-platform AFS compatibility.
func normalizeLocation(location string) (string, error) {
	norm := location
	if url.Scheme(norm, "") == "" && url.IsRelative(norm) {
		var err error
		norm, err = filepath.Abs(norm)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path for %s: %w", location, err)
		}
	}
	if url.Scheme(norm, "") == "" && !url.IsRelative(norm) {
		norm = url.ToFileURL(norm)
	}
	return norm, nil
}
