// Package splitter cuts document text into overlapping chunks for embedding.
package splitter

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the maximum chunk length in runes.
	DefaultChunkSize = 512
	// DefaultChunkOverlap is the maximum number of runes carried into the next chunk.
	DefaultChunkOverlap = 100
)

// Splitter is a sentence-aware splitter. It cuts at sentence and line
// boundaries first, then at whitespace, then mid-word as a last resort.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New validates sizes and returns a splitter.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, errors.New("chunk overlap must be in [0, chunk size)")
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Default returns a 512/100 splitter.
func Default() *Splitter {
	return &Splitter{chunkSize: DefaultChunkSize, overlap: DefaultChunkOverlap}
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the chunks of text. Every chunk is at most ChunkSize runes,
// trimmed, and non-empty. Blank input yields nil.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := s.pieces(text)

	var chunks []string
	var cur []string
	curLen := 0

	for _, p := range pieces {
		pl := utf8.RuneCountInString(p)
		if curLen+pl > s.chunkSize && len(cur) > 0 {
			chunks = appendChunk(chunks, cur)
			cur, curLen = s.tail(cur)
			for len(cur) > 0 && curLen+pl > s.chunkSize {
				curLen -= utf8.RuneCountInString(cur[0])
				cur = cur[1:]
			}
		}
		cur = append(cur, p)
		curLen += pl
	}
	return appendChunk(chunks, cur)
}

// tail keeps trailing pieces of the emitted chunk, up to overlap runes.
func (s *Splitter) tail(cur []string) ([]string, int) {
	n := 0
	i := len(cur)
	for i > 0 {
		l := utf8.RuneCountInString(cur[i-1])
		if n+l > s.overlap {
			break
		}
		n += l
		i--
	}
	out := make([]string, len(cur)-i)
	copy(out, cur[i:])
	return out, n
}

func appendChunk(chunks, parts []string) []string {
	c := strings.TrimSpace(strings.Join(parts, ""))
	if c == "" {
		return chunks
	}
	return append(chunks, c)
}

// pieces breaks text into sentences, then words, then rune windows until
// every piece fits into one chunk. Pieces keep their trailing whitespace,
// so concatenating them restores the input.
func (s *Splitter) pieces(text string) []string {
	var out []string
	for _, sent := range splitAfter(text, sentenceEnd) {
		if utf8.RuneCountInString(sent) <= s.chunkSize {
			out = append(out, sent)
			continue
		}
		for _, w := range splitAfter(sent, wordEnd) {
			if utf8.RuneCountInString(w) <= s.chunkSize {
				out = append(out, w)
				continue
			}
			out = append(out, hardSplit(w, s.chunkSize)...)
		}
	}
	return out
}

// boundary reports whether a cut may follow position i of runes,
// given that runes[i] is whitespace.
type boundary func(runes []rune, i int) bool

func sentenceEnd(runes []rune, i int) bool {
	if runes[i] == '\n' {
		return true
	}
	if i == 0 {
		return false
	}
	switch runes[i-1] {
	case '.', '!', '?', ';', '…':
		return true
	}
	return false
}

func wordEnd([]rune, int) bool { return true }

// splitAfter cuts text after every whitespace run whose first rune satisfies at.
func splitAfter(text string, at boundary) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) || !at(runes, i) {
			continue
		}
		j := i
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		out = append(out, string(runes[start:j]))
		start = j
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func hardSplit(s string, size int) []string {
	runes := []rune(s)
	out := make([]string, 0, len(runes)/size+1)
	for len(runes) > size {
		out = append(out, string(runes[:size]))
		runes = runes[size:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
