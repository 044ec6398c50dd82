package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type catalogFile struct {
	Language string            `yaml:"language"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the translation tables of every supported language. It is
// immutable once loaded and safe to share between goroutines.
type Catalog struct {
	tables map[Language]map[string]string
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the process-wide catalog built from the embedded
// locale files. A broken embed is a build defect and panics.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		cat, err := LoadCatalog(embeddedLocales)
		if err != nil {
			panic(fmt.Sprintf("i18n: load embedded catalog: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// LoadCatalog reads every locales/*.yaml file from fsys. Each supported
// language must be present exactly once.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	cat := &Catalog{tables: make(map[Language]map[string]string, len(paths))}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		if err := cat.add(p, file); err != nil {
			return nil, err
		}
	}

	for _, lang := range Supported() {
		if _, ok := cat.tables[lang]; !ok {
			return nil, fmt.Errorf("locale %q is not defined", lang)
		}
	}
	return cat, nil
}

func (c *Catalog) add(p string, file catalogFile) error {
	lang, ok := ParseLanguage(file.Language)
	if !ok {
		return fmt.Errorf("%s: unsupported language %q", p, file.Language)
	}
	if base := strings.TrimSuffix(path.Base(p), path.Ext(p)); base != string(lang) {
		return fmt.Errorf("%s: language %q must match file name %q", p, lang, base)
	}
	if _, exists := c.tables[lang]; exists {
		return fmt.Errorf("%s: language %q defined twice", p, lang)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("%s: messages are required", p)
	}

	table := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%s: blank message key", p)
		}
		if value == "" {
			return fmt.Errorf("%s: message %q is empty", p, key)
		}
		table[key] = value
	}
	c.tables[lang] = table
	return nil
}

// Lookup returns the message for key in lang.
func (c *Catalog) Lookup(lang Language, key string) (string, bool) {
	value, ok := c.tables[lang][key]
	return value, ok
}

// Keys returns the sorted message keys of lang.
func (c *Catalog) Keys(lang Language) []string {
	table := c.tables[lang]
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Messages returns a copy of the table for lang.
func (c *Catalog) Messages(lang Language) map[string]string {
	out := make(map[string]string, len(c.tables[lang]))
	for key, value := range c.tables[lang] {
		out[key] = value
	}
	return out
}

// MissingKeys returns the keys defined for the default language but absent
// from lang.
func (c *Catalog) MissingKeys(lang Language) []string {
	var missing []string
	for _, key := range c.Keys(DefaultLanguage) {
		if _, ok := c.tables[lang][key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
