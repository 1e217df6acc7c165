package importer

import "fmt"

// Options controls how a schema document is imported.
type Options struct {
	// StrictKeywords turns unknown keywords into errors instead of warnings.
	StrictKeywords bool
	// WarnExtensions reports "x-" extension keywords, which are otherwise
	// skipped silently.
	WarnExtensions bool
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool  { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string { return append([]string(nil), d.ws...) }

func (d *simpleDiag) warnf(at, f string, a ...any) {
	d.ws = append(d.ws, at+": "+fmt.Sprintf(f, a...))
}
