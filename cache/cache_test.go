package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/lexicard/config"
	"github.com/domino14/lexicard/lexicon"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, t.TempDir())
	CreateGlobalObjectCache()
	return cfg
}

func TestEmbeddedDictionary(t *testing.T) {
	is := is.New(t)
	cfg := testConfig(t)
	d, err := Dictionary(cfg, lexicon.CategoryAnimals)
	is.NoErr(err)
	is.True(d.Len() > 0)

	again, err := Dictionary(cfg, lexicon.CategoryAnimals)
	is.NoErr(err)
	is.True(d == again)
}

func TestDictionaryOverride(t *testing.T) {
	is := is.New(t)
	cfg := testConfig(t)
	dir := filepath.Join(cfg.GetString(config.ConfigDataPath), "dictionaries")
	is.NoErr(os.MkdirAll(dir, 0o755))
	is.NoErr(os.WriteFile(filepath.Join(dir, "food.txt"), []byte("pie\ta baked dish\nbun\n"), 0o644))

	d, err := Dictionary(cfg, lexicon.CategoryFood)
	is.NoErr(err)
	is.Equal(d.Len(), 2)
	is.True(d.Contains("PIE"))
}

func TestLayoutAndCatalogue(t *testing.T) {
	is := is.New(t)
	cfg := testConfig(t)
	l, err := Layout(cfg, 15)
	is.NoErr(err)
	is.Equal(l.Size, 15)

	cat, err := Catalogue(cfg)
	is.NoErr(err)
	is.True(cat.Len() > 0)
}
