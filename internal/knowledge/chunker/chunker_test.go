package chunker

import (
	"strings"
	"testing"
)

func TestSplit_ShortTextIsOneChunk(t *testing.T) {
	s := NewSplitter(100, 20)
	chunks := s.Split("a short document")
	if len(chunks) != 1 || chunks[0] != "a short document" {
		t.Fatalf("expected one untouched chunk, got %v", chunks)
	}
}

func TestSplit_WhitespaceOnlyYieldsNothing(t *testing.T) {
	s := NewSplitter(100, 20)
	if chunks := s.Split("   \n\t  "); chunks != nil {
		t.Fatalf("expected no chunks, got %v", chunks)
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(50, 10)
	para1 := strings.Repeat("a", 30)
	para2 := strings.Repeat("b", 30)
	chunks := s.Split(para1 + "\n\n" + para2)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != para1 || chunks[1] != para2 {
		t.Fatalf("expected paragraph split, got %v", chunks)
	}
}

func TestSplit_RespectsChunkSize(t *testing.T) {
	s := NewSplitter(40, 10)
	words := strings.Repeat("word ", 50)
	for _, chunk := range s.Split(words) {
		if len(chunk) > 40 {
			t.Fatalf("chunk exceeds size: %d chars", len(chunk))
		}
	}
}

func TestSplit_HardSplitWithoutSeparators(t *testing.T) {
	s := NewSplitter(10, 2)
	text := strings.Repeat("x", 25)
	chunks := s.Split(text)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if len(chunk) > 10 {
			t.Fatalf("hard split chunk exceeds size: %q", chunk)
		}
	}
	// Overlap: the second chunk starts before the first one ends.
	if !strings.HasPrefix(chunks[1], "xx") {
		t.Fatalf("expected overlap carried into second chunk, got %q", chunks[1])
	}
}

func TestNewSplitter_SanitizesArguments(t *testing.T) {
	s := NewSplitter(0, -1)
	if s.chunkSize != defaultChunkSize || s.chunkOverlap != defaultChunkOverlap {
		t.Fatalf("expected defaults, got size=%d overlap=%d", s.chunkSize, s.chunkOverlap)
	}

	s = NewSplitter(100, 100)
	if s.chunkOverlap >= s.chunkSize {
		t.Fatalf("expected overlap below size, got size=%d overlap=%d", s.chunkSize, s.chunkOverlap)
	}
}
