package messages

import (
	_ "embed"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/electroredes/contactguard/pkg/validator"
)

// DefaultLanguage is served when negotiation finds no match.
const DefaultLanguage = "es"

// maxAcceptLanguageLength bounds the header parsed per request.
const maxAcceptLanguageLength = 1024

//go:embed catalog.yaml
var builtin []byte

// Catalog holds flattened message templates per language.
type Catalog struct {
	fallback string
	langs    []string
	entries  map[string]map[string]string
	matcher  language.Matcher
}

// Default parses the embedded catalog. It panics if the embedded file is
// broken, which only happens on a bad build.
func Default() *Catalog {
	c, err := Parse(builtin, DefaultLanguage)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse reads a YAML document whose top-level keys are language codes and
// whose nested maps are flattened into dot-separated keys.
func Parse(data []byte, fallback string) (*Catalog, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseCatalog, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyCatalog
	}
	if _, ok := raw[fallback]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, fallback)
	}

	c := &Catalog{
		fallback: fallback,
		entries:  make(map[string]map[string]string, len(raw)),
	}
	for lang, tree := range raw {
		flat := make(map[string]string)
		if err := flatten("", tree, flat); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParseCatalog, lang, err)
		}
		c.entries[lang] = flat
		c.langs = append(c.langs, lang)
	}

	// the matcher treats the first tag as its default
	slices.Sort(c.langs)
	c.langs = slices.DeleteFunc(c.langs, func(l string) bool { return l == fallback })
	c.langs = append([]string{fallback}, c.langs...)

	tags := make([]language.Tag, 0, len(c.langs))
	for _, l := range c.langs {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("%w: language %q: %w", ErrParseCatalog, l, err)
		}
		tags = append(tags, tag)
	}
	c.matcher = language.NewMatcher(tags)

	return c, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %q: expected string or map, got %T", key, v)
		}
	}
	return nil
}

// Languages lists the catalog languages, fallback first.
func (c *Catalog) Languages() []string {
	return slices.Clone(c.langs)
}

// Match picks the best catalog language for an Accept-Language header.
func (c *Catalog) Match(acceptLanguage string) string {
	if len(acceptLanguage) > maxAcceptLanguageLength {
		acceptLanguage = acceptLanguage[:maxAcceptLanguageLength]
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	return c.langs[idx]
}

// Has reports whether lang defines key.
func (c *Catalog) Has(lang, key string) bool {
	_, ok := c.entries[lang][key]
	return ok
}

// T renders key in lang, substituting %{name} placeholders from params.
// Missing keys fall back to the default language and then to the key.
func (c *Catalog) T(lang, key string, params map[string]any) string {
	tmpl, ok := c.entries[lang][key]
	if !ok {
		if tmpl, ok = c.entries[c.fallback][key]; !ok {
			return key
		}
	}
	return render(tmpl, params)
}

// Validation renders a validation error in lang. Keys missing from the
// catalog keep the error's own message.
func (c *Catalog) Validation(lang string, e validator.ValidationError) string {
	if !c.Has(lang, e.TranslationKey) && !c.Has(c.fallback, e.TranslationKey) {
		return e.Message
	}
	return c.T(lang, e.TranslationKey, e.TranslationValues)
}

var placeholder = regexp.MustCompile(`%\{([^}]+)\}`)

func render(tmpl string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := params[m[2:len(m)-1]]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}
