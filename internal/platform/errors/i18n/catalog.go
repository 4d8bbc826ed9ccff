// Package i18n renders user-facing error messages from the "errors" namespace
// of the locale catalogs.
package i18n

import (
	"bytes"
	"sync"
	"text/template"

	i18ncatalog "github.com/therili1/buckshot-roulette-bot/internal/platform/i18n/catalog"
)

// Code is a machine-readable error code (a string here to avoid an import cycle
// with the errors package).
type Code = string

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale    string
	messages  map[Code]string
	mu        sync.Mutex
	templates map[Code]*template.Template
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}
)

// GetCatalog returns the catalog for locale, resolving "uk" to "uk-UA" and
// unknown locales to en-US.
func GetCatalog(locale string) *Catalog {
	bundle := i18ncatalog.Default()
	resolved, messages := bundle.NamespaceMessagesWithFallback(locale, "errors")

	catalogsMu.RLock()
	cat, ok := catalogs[resolved]
	catalogsMu.RUnlock()
	if ok {
		return cat
	}

	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[resolved]; ok {
		return existing
	}
	cat = NewCatalog(resolved, messages)
	catalogs[resolved] = cat
	return cat
}

// NewCatalog creates a catalog with the given locale and message templates.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:    locale,
		messages:  cloned,
		templates: map[Code]*template.Template{},
	}
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the template for code with metadata. Unknown codes render as
// the code itself; broken templates render as their raw text.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	raw, ok := c.messages[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	tmpl, err := c.template(code, raw)
	if err != nil {
		return raw
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return raw
	}
	return buf.String()
}

func (c *Catalog) template(code Code, raw string) (*template.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tmpl, ok := c.templates[code]; ok {
		return tmpl, nil
	}
	tmpl, err := template.New(code).Parse(raw)
	if err != nil {
		return nil, err
	}
	c.templates[code] = tmpl
	return tmpl, nil
}
