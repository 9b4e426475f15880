// internal/tui/messages.go
//
// Message catalogue loading (gotext PO files embedded under assets/locale).

package tui

import (
	"fmt"

	"github.com/leonelquinteros/gotext"

	"github.com/robalobadob/matchboard/assets"
)

// Catalogue looks up user-facing strings by key.
type Catalogue interface {
	Get(key string, vars ...interface{}) string
}

// LoadCatalogue parses the embedded .po file for lang.
func LoadCatalogue(lang string) (Catalogue, error) {
	data, err := assets.Locale(lang)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", lang, err)
	}
	po := gotext.NewPo()
	po.Parse(data)
	return po, nil
}
