package tui

import (
	"fmt"

	"github.com/forPelevin/tweetdub/internal/locale"
)

// langPicker cycles through the supported target locales with ←/→.
type langPicker struct {
	locales []locale.Locale
	idx     int
}

func newLangPicker() langPicker {
	p := langPicker{locales: locale.All()}
	for i, l := range p.locales {
		if l.Code == locale.Default.Code {
			p.idx = i
			break
		}
	}
	return p
}

func (p *langPicker) prev() {
	p.idx = (p.idx - 1 + len(p.locales)) % len(p.locales)
}

func (p *langPicker) next() {
	p.idx = (p.idx + 1) % len(p.locales)
}

func (p langPicker) current() locale.Locale {
	return p.locales[p.idx]
}

func (p langPicker) View() string {
	l := p.current()
	return fmt.Sprintf("◀ %s (%s) ▶", l.Name, l.Code)
}
