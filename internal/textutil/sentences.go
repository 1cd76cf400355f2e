package textutil

import (
	"regexp"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Splitter breaks text into sentences. Implementations are deterministic and pure.
type Splitter interface {
	Split(text string) []string
}

// PunktSplitter splits with the English Punkt model.
type PunktSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

var (
	punktOnce sync.Once
	punkt     *PunktSplitter
	punktErr  error
)

// NewSplitter returns the shared Punkt splitter, or a RegexpSplitter when the
// model can't be loaded.
func NewSplitter() Splitter {
	punktOnce.Do(func() {
		tok, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			punktErr = err
			return
		}
		punkt = &PunktSplitter{tokenizer: tok}
	})
	if punktErr != nil || punkt == nil {
		return RegexpSplitter{}
	}
	return punkt
}

// Split implements Splitter.
func (p *PunktSplitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	for _, s := range p.tokenizer.Tokenize(text) {
		if t := CollapseWhitespace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var sentenceEnd = regexp.MustCompile(`[.!?]+["'”’)]*\s+`)

// RegexpSplitter splits on terminal punctuation followed by whitespace.
type RegexpSplitter struct{}

// Split implements Splitter.
func (RegexpSplitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := CollapseWhitespace(text[last:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if s := CollapseWhitespace(text[last:]); s != "" {
		out = append(out, s)
	}
	return out
}
