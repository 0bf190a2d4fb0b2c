package panel

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const DefaultLocale = "en"

// Messages renders notice texts for one locale, falling back to English.
type Messages struct {
	localizer *i18n.Localizer
}

func NewMessages(locale string) (*Messages, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
	}

	if locale == "" {
		locale = DefaultLocale
	}
	return &Messages{localizer: i18n.NewLocalizer(bundle, locale, DefaultLocale)}, nil
}

// T returns the message id itself when no translation exists.
func (m *Messages) T(id string, data map[string]any) string {
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}
