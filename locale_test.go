package main

import (
	"net/http/httptest"
	"strings"
	"testing"

	"shapeCaptcha/internal/challenge"
)

func TestCatalogSelection(t *testing.T) {
	cats, err := LoadCatalogs("en")
	if err != nil {
		t.Fatalf("LoadCatalogs: %v", err)
	}
	tests := []struct {
		header string
		want   string
	}{
		{"", "Sorry, that was incorrect. You failed the CAPTCHA."},
		{"zh-CN,zh;q=0.9", "验证失败"},
		{"fr-FR, zh;q=0.5", "验证失败"},
		{"de", "Sorry, that was incorrect. You failed the CAPTCHA."},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.Header.Set("Accept-Language", tt.header)
			if got := outcomeMessage(cats.For(r), challenge.Failed); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	cats, err := LoadCatalogs("en")
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest("GET", "/", nil)
	po := cats.For(r)
	got := prompt(po, challenge.Selecting, &challenge.Target{Shape: challenge.Triangle, Color: challenge.Red})
	if want := "Select every red triangle in the grid, then validate."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	got = prompt(po, challenge.Selecting, &challenge.Target{Shape: challenge.Circle})
	if want := "Select every circle in the grid, then validate."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	r.Header.Set("Accept-Language", "zh")
	got = prompt(cats.For(r), challenge.Selecting, &challenge.Target{Shape: challenge.Square, Color: challenge.Blue})
	if want := "请选出网格中所有的蓝色正方形，然后点击验证。"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadCatalogsUnknownFallback(t *testing.T) {
	if _, err := LoadCatalogs("xx"); err == nil {
		t.Fatal("expected an error for a missing default catalog")
	}
}

func TestPromptFormatsEveryTarget(t *testing.T) {
	cats, err := LoadCatalogs("en")
	if err != nil {
		t.Fatal(err)
	}
	for _, lang := range []string{"en", "zh"} {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Accept-Language", lang)
		po := cats.For(r)
		for _, shape := range []challenge.Shape{challenge.Triangle, challenge.Square, challenge.Circle} {
			for _, color := range []challenge.Color{"", challenge.Red, challenge.Green, challenge.Blue} {
				got := prompt(po, challenge.Selecting, &challenge.Target{Shape: shape, Color: color})
				if strings.Contains(got, "%") || strings.Contains(got, "SELECT_PROMPT") || strings.Contains(got, "TARGET_COLORED") {
					t.Errorf("%s %s %s: unformatted prompt %q", lang, color, shape, got)
				}
				if strings.Contains(got, string(shape)) == (lang == "zh") {
					t.Errorf("%s %s: prompt %q does not use the catalog name", lang, shape, got)
				}
			}
		}
	}
}
