package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/lexicard/board"
	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/config"
	"github.com/domino14/lexicard/lexicon"
)

// The cache holds large read-only objects that every match shares:
// dictionaries, board layouts and card catalogues. Keys are prefixed with
// the object kind, e.g. "dict:animals".

type cache struct {
	sync.Mutex
	objects map[string]any
}

type loadFunc func(cfg *config.Config, key string) (any, error)

var GlobalObjectCache *cache

func (c *cache) load(cfg *config.Config, key string, loadFunc loadFunc) error {
	log.Debug().Str("key", key).Msg("loading into cache")

	obj, err := loadFunc(cfg, key)
	if err != nil {
		return err
	}
	c.objects[key] = obj
	return nil
}

func (c *cache) get(cfg *config.Config, key string, loadFunc loadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	if err := c.load(cfg, key, loadFunc); err != nil {
		return nil, err
	}
	return c.objects[key], nil
}

func CreateGlobalObjectCache() {
	GlobalObjectCache = &cache{objects: make(map[string]any)}
}

func Load(cfg *config.Config, name string, loadFunc loadFunc) (any, error) {
	if GlobalObjectCache == nil {
		CreateGlobalObjectCache()
	}
	return GlobalObjectCache.get(cfg, name, loadFunc)
}

// typed loads through the cache and asserts the stored type.
func typed[T any](cfg *config.Config, key string, fn loadFunc) (T, error) {
	var zero T
	obj, err := Load(cfg, key, fn)
	if err != nil {
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("cache: %s holds %T", key, obj)
	}
	return t, nil
}

// Dictionary returns the dictionary for a category. A file named
// <category>.json or <category>.txt under <data-path>/dictionaries
// overrides the built-in list.
func Dictionary(cfg *config.Config, category lexicon.Category) (*lexicon.Dictionary, error) {
	return typed[*lexicon.Dictionary](cfg, "dict:"+string(category), loadDictionary)
}

func loadDictionary(cfg *config.Config, key string) (any, error) {
	category := lexicon.Category(strings.TrimPrefix(key, "dict:"))
	dir := filepath.Join(cfg.GetString(config.ConfigDataPath), "dictionaries")
	for _, ext := range []string{".json", ".txt"} {
		path := filepath.Join(dir, string(category)+ext)
		if _, err := os.Stat(path); err == nil {
			return lexicon.Load(path, category)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return lexicon.Embedded(category)
}

// Layout returns the board layout for a size. <data-path>/layouts/<size>.yaml
// overrides the standard layout.
func Layout(cfg *config.Config, size int) (*board.Layout, error) {
	return typed[*board.Layout](cfg, fmt.Sprintf("layout:%d", size), loadLayout)
}

func loadLayout(cfg *config.Config, key string) (any, error) {
	var size int
	if _, err := fmt.Sscanf(key, "layout:%d", &size); err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.GetString(config.ConfigDataPath), "layouts", fmt.Sprintf("%d.yaml", size))
	if _, err := os.Stat(path); err == nil {
		return board.LoadLayout(path)
	}
	return board.StandardLayout(size), nil
}

// Catalogue returns the card catalogue named by card-catalogue-path, or the
// built-in one.
func Catalogue(cfg *config.Config) (*cards.Catalogue, error) {
	return typed[*cards.Catalogue](cfg, "catalogue", func(cfg *config.Config, key string) (any, error) {
		if p := cfg.GetString(config.ConfigCardCataloguePath); p != "" {
			return cards.LoadCatalogue(p)
		}
		return cards.DefaultCatalogue(), nil
	})
}
