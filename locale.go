// File: locale.go
package main

import (
	"embed"
	"fmt"
	"github.com/leonelquinteros/gotext"
	"net/http"
	"path"
	"shapeCaptcha/internal/challenge"
	"strings"
)

//go:embed locales/*.po
var localeFS embed.FS

// dynamicGet looks up keys that are not constants (shape and color
// names) and keyed messages that take arguments, which vet would
// otherwise read as printf formats.
var dynamicGet = (*gotext.Po).Get

// Catalogs holds one parsed PO catalog per language.
type Catalogs struct {
	byLang   map[string]*gotext.Po
	fallback string
}

// LoadCatalogs parses every embedded catalog. fallback must be one of
// them.
func LoadCatalogs(fallback string) (*Catalogs, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	c := &Catalogs{byLang: make(map[string]*gotext.Po), fallback: fallback}
	for _, e := range entries {
		data, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		po := gotext.NewPo()
		po.Parse(data)
		c.byLang[strings.TrimSuffix(e.Name(), ".po")] = po
	}
	if _, ok := c.byLang[fallback]; !ok {
		return nil, fmt.Errorf("no catalog for default locale %q", fallback)
	}
	return c, nil
}

// For 按 Accept-Language 选第一个有翻译的语言
func (c *Catalogs) For(r *http.Request) *gotext.Po {
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		lang := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if po, ok := c.byLang[lang]; ok {
			return po
		}
	}
	return c.byLang[c.fallback]
}

// outcomeMessage is the verdict line shown for a settled phase.
func outcomeMessage(po *gotext.Po, p challenge.Phase) string {
	switch p {
	case challenge.Passed:
		return po.Get("VERIFY_PASSED")
	case challenge.Failed:
		return po.Get("VERIFY_FAILED")
	case challenge.Blocked:
		return po.Get("VERIFY_BLOCKED")
	}
	return ""
}

// prompt tells the user what to do in the current phase.
func prompt(po *gotext.Po, p challenge.Phase, t *challenge.Target) string {
	switch p {
	case challenge.Capturing:
		return po.Get("CAPTURE_PROMPT")
	case challenge.Selecting:
		if t == nil {
			return ""
		}
		name := dynamicGet(po, string(t.Shape))
		if t.Color != "" {
			name = dynamicGet(po, "TARGET_COLORED", dynamicGet(po, string(t.Color)), name)
		}
		return dynamicGet(po, "SELECT_PROMPT", name)
	}
	return outcomeMessage(po, p)
}
