// Package store keeps saved pages on disk. Every asset is Huffman-encoded
// into its own file and the list of saved URLs is kept in a plain text
// index, one URL per line.
package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/axiomhq/webcompress"
	"github.com/axiomhq/webcompress/logger"
)

// Kind identifies one of the assets saved for a page.
type Kind string

const (
	KindHTML   Kind = "html"
	KindCSS    Kind = "css"
	KindImages Kind = "img"
)

// Kinds lists every asset kind in storage order.
var Kinds = []Kind{KindHTML, KindCSS, KindImages}

const (
	indexFile        = "saved-urls.txt"
	assetExt         = ".huf"
	defaultCacheSize = 128
)

var (
	// ErrNotFound indicates an unknown URL or a missing asset.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalidKind indicates an asset kind outside Kinds.
	ErrInvalidKind = errors.New("store: invalid asset kind")
)

// ParseKind converts s to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(Kinds, k) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

type options struct {
	cacheSize int
	codec     *webcompress.Codec
	log       logger.Logger
}

// Option is a functional option for configuring a Store.
type Option func(*options)

// WithCacheSize sets how many decoded assets are kept in memory.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithCodec sets the codec used to encode and decode asset files.
func WithCodec(c *webcompress.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// Store is a directory of encoded page assets. It is safe for concurrent use.
type Store struct {
	dir   string
	codec *webcompress.Codec
	cache *lru.Cache[string, []byte]
	log   logger.Logger

	mu  sync.Mutex // guards the index and asset files
	gen uint64     // bumped by every write, under mu
}

// Open creates dir if needed and returns a Store rooted at it.
func Open(dir string, opts ...Option) (*Store, error) {
	o := options{cacheSize: defaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.codec == nil {
		o.codec = webcompress.NewCodec()
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	cache, err := lru.New[string, []byte](max(o.cacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Store{dir: dir, codec: o.codec, cache: cache, log: o.log}, nil
}

// Dir returns the directory of the store.
func (s *Store) Dir() string { return s.dir }

func cacheKey(url string, kind Kind) string { return string(kind) + "\x00" + url }

// assetPath names asset files by kind and the xxhash of the URL, so any URL
// maps to a safe file name.
func (s *Store) assetPath(url string, kind Kind) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%016x%s", kind, xxhash.Sum64String(url), assetExt))
}

// Put encodes text and saves it as the kind asset of url. The first asset
// saved for a URL adds it to the index. An empty text is stored as an empty
// file, since the codec has nothing to build a dictionary from.
func (s *Store) Put(url string, kind Kind, text []byte) error {
	return s.PutPage(url, map[Kind][]byte{kind: text})
}

// PutPage saves several assets of url at once. Every asset is encoded
// before any file is written, so an asset the codec refuses leaves the
// store unchanged.
func (s *Store) PutPage(url string, assets map[Kind][]byte) error {
	if url == "" || strings.ContainsAny(url, "\r\n") {
		return fmt.Errorf("store: invalid url %q", url)
	}
	encoded := make(map[Kind][]byte, len(assets))
	for kind, text := range assets {
		if _, err := ParseKind(string(kind)); err != nil {
			return err
		}
		if len(text) == 0 {
			encoded[kind] = nil
			continue
		}
		data, err := s.codec.Encode(text)
		if err != nil {
			return fmt.Errorf("store: encode %s of %s: %w", kind, url, err)
		}
		encoded[kind] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	for _, kind := range Kinds {
		data, ok := encoded[kind]
		if !ok {
			continue
		}
		if err := writeFileAtomic(s.assetPath(url, kind), data); err != nil {
			return fmt.Errorf("store: %w", err)
		}
		s.cache.Add(cacheKey(url, kind), bytes.Clone(assets[kind]))
		s.log.Infof("saved %s of %s: %d bytes -> %d bytes", kind, url, len(assets[kind]), len(data))
	}

	urls, err := s.readIndex()
	if err != nil {
		return err
	}
	if !slices.Contains(urls, url) {
		return s.writeIndex(append(urls, url))
	}
	return nil
}

// Get returns the decoded kind asset of url. Files are read under the lock
// and decoded outside it.
func (s *Store) Get(url string, kind Kind) ([]byte, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	key := cacheKey(url, kind)
	if text, ok := s.cache.Get(key); ok {
		return bytes.Clone(text), nil
	}

	s.mu.Lock()
	gen := s.gen
	data, err := os.ReadFile(s.assetPath(url, kind))
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s of %s", ErrNotFound, kind, url)
	}
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	var text []byte
	if len(data) > 0 {
		if text, err = s.codec.Decode(data); err != nil {
			s.log.Errorf("decode %s of %s: %v", kind, url, err)
			return nil, fmt.Errorf("store: decode %s of %s: %w", kind, url, err)
		}
	}

	// A write since the read may have replaced the file; skip caching then.
	s.mu.Lock()
	if s.gen == gen {
		s.cache.Add(key, text)
	}
	s.mu.Unlock()
	return bytes.Clone(text), nil
}

// URLs returns the saved URLs in the order they were first saved.
func (s *Store) URLs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIndex()
}

// Remove deletes every asset of url and drops it from the index.
func (s *Store) Remove(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	urls, err := s.readIndex()
	if err != nil {
		return err
	}
	i := slices.Index(urls, url)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	s.gen++
	for _, kind := range Kinds {
		if err := os.Remove(s.assetPath(url, kind)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("store: %w", err)
		}
		s.cache.Remove(cacheKey(url, kind))
	}
	if err := s.writeIndex(slices.Delete(urls, i, i+1)); err != nil {
		return err
	}
	s.log.Infof("removed %s", url)
	return nil
}

func (s *Store) readIndex() ([]string, error) {
	f, err := os.Open(filepath.Join(s.dir, indexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			urls = append(urls, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("store: read index: %w", err)
	}
	return urls, nil
}

func (s *Store) writeIndex(urls []string) error {
	var buf bytes.Buffer
	for _, u := range urls {
		buf.WriteString(u)
		buf.WriteByte('\n')
	}
	if err := writeFileAtomic(filepath.Join(s.dir, indexFile), buf.Bytes()); err != nil {
		return fmt.Errorf("store: write index: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
