// Package chunker splits documents into overlapping chunks for embedding.
package chunker

import "strings"

// Separators tried in order when a text exceeds the chunk size. The empty
// string is the terminal fallback: a hard character split.
var separators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts text into chunks of at most ChunkSize characters with
// ChunkOverlap characters of trailing context carried into the next chunk.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// NewSplitter creates a splitter. Non-positive or inconsistent values fall
// back to the defaults; overlap is always strictly smaller than the size.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = defaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Split chunks the text. Paragraph boundaries are preferred over line
// boundaries, lines over words. Whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.split(text, separators)
}

func (s *Splitter) split(text string, seps []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	sep := ""
	rest := []string{""}
	for i, candidate := range seps {
		if candidate == "" {
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = seps[i+1:]
			break
		}
	}
	if sep == "" {
		return s.hardSplit(text)
	}

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(current, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		// Retain the tail pieces as overlap for the next chunk.
		for currentLen > s.chunkOverlap && len(current) > 1 {
			currentLen -= len(current[0]) + len(sep)
			current = current[1:]
		}
		if currentLen > s.chunkOverlap {
			current = nil
			currentLen = 0
		}
	}

	for _, piece := range strings.Split(text, sep) {
		if piece == "" {
			continue
		}
		if len(piece) > s.chunkSize {
			flush()
			current = nil
			currentLen = 0
			chunks = append(chunks, s.split(piece, rest)...)
			continue
		}
		if currentLen+len(piece)+len(sep) > s.chunkSize && currentLen > 0 {
			flush()
		}
		current = append(current, piece)
		currentLen += len(piece) + len(sep)
	}
	if len(current) > 0 {
		chunk := strings.TrimSpace(strings.Join(current, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// hardSplit cuts the text into fixed windows stepping by size minus overlap.
func (s *Splitter) hardSplit(text string) []string {
	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = s.chunkSize
	}

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + s.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}
