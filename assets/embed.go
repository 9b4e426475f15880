// assets/embed.go
//
// Files compiled into the binary:
//   - data.json:  default category/process dataset.
//   - web/:       the single-page board served at "/".
//   - locale/:    message catalogue for the terminal surface.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed data.json web locale
var FS embed.FS

// DefaultDataset returns the raw bytes of the embedded dataset.
func DefaultDataset() ([]byte, error) {
	return FS.ReadFile("data.json")
}

// Web returns the static page tree rooted at web/.
func Web() (fs.FS, error) {
	return fs.Sub(FS, "web")
}

// Locale returns the .po catalogue for lang, e.g. "en".
func Locale(lang string) ([]byte, error) {
	return FS.ReadFile("locale/" + lang + ".po")
}
