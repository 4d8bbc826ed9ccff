package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if !bundle.HasLocale(BaseLocale) {
		t.Fatalf("expected base locale %s", BaseLocale)
	}
	if !bundle.HasLocale("uk-UA") {
		t.Fatalf("expected locale uk-UA")
	}
	for _, namespace := range []string{"errors", "events", "items", "tui"} {
		if got := len(bundle.NamespaceMessages("en-US", namespace)); got == 0 {
			t.Fatalf("expected en-US %s namespace messages", namespace)
		}
	}
}

func TestEmbeddedLocalesShareKeys(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	base := bundle.LocaleMessages(BaseLocale)
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Errorf("locale %s missing key %q", locale, key)
			}
		}
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/events.yaml"), `locale: "en-US"
namespace: "events"
messages:
  "a.key": "a"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/items.yaml"), `locale: "en-US"
namespace: "items"
messages:
  "a.key": "b"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/events.yaml"), `locale: "uk-UA"
namespace: "events"
messages:
  "a.key": "a"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/uk-UA/events.yaml"), `locale: "uk-UA"
namespace: "events"
messages:
  "a.key": "a"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestLoadFromFSRejectsInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/events.yaml"), "locale: [unclosed\n")

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolve(t *testing.T) {
	bundle := Default()
	tests := []struct {
		in   string
		want string
	}{
		{in: "uk-UA", want: "uk-UA"},
		{in: "uk", want: "uk-UA"},
		{in: "en", want: "en-US"},
		{in: "fr-FR", want: BaseLocale},
		{in: "", want: BaseLocale},
		{in: "!!", want: BaseLocale},
	}
	for _, tt := range tests {
		if got := bundle.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNamespaceMessagesWithFallback(t *testing.T) {
	resolved, messages := Default().NamespaceMessagesWithFallback("fr-FR", "errors")
	if resolved != BaseLocale {
		t.Fatalf("resolved locale = %q, want %s", resolved, BaseLocale)
	}
	if len(messages) == 0 {
		t.Fatal("expected fallback errors namespace messages")
	}
}

func TestRegisteredWithPrinter(t *testing.T) {
	_ = Default()
	p := message.NewPrinter(language.MustParse("uk"))
	if got := p.Sprintf("event.player_joined", "Оля"); got != "Оля приєднався до гри!" {
		t.Fatalf("uk printer = %q", got)
	}
	p = message.NewPrinter(language.MustParse("en-US"))
	if got := p.Sprintf("event.shot_blank", "Ann"); got != "💨 Ann survived!" {
		t.Fatalf("en printer = %q", got)
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	value, ok := Default().Message("fr-FR", "item.cuffs")
	if !ok || value != "handcuffs" {
		t.Fatalf("Message fallback = %q, %v", value, ok)
	}
	if _, ok := Default().Message("en-US", " "); ok {
		t.Fatal("expected blank key lookup to fail")
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
