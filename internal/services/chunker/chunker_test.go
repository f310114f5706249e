package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
)

func newTestChunker(size, overlap int, preserveSentences bool) *Chunker {
	cfg := common.ChunkingConfig{
		ChunkSize:         size,
		ChunkOverlap:      overlap,
		PreserveSentences: preserveSentences,
	}
	return NewChunker(cfg, arbor.NewLogger())
}

func TestChunkEmptyText(t *testing.T) {
	c := newTestChunker(1000, 150, true)

	assert.Empty(t, c.Chunk("", nil))
	assert.Empty(t, c.Chunk("   \n\t  ", nil))
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	c := newTestChunker(1000, 150, true)
	text := "A short document that fits in one chunk."

	chunks := c.Chunk(text, map[string]interface{}{"document_id": "abc"})

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Metadata["chunk_index"])
	assert.Equal(t, "abc", chunks[0].Metadata["document_id"])
}

func TestChunkMetadataCopiedPerChunk(t *testing.T) {
	c := newTestChunker(80, 20, true)
	text := strings.Repeat("One sentence here. Another sentence follows. ", 10)

	meta := map[string]interface{}{"document_id": "abc"}
	chunks := c.Chunk(text, meta)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Metadata["chunk_index"])
		assert.Equal(t, "abc", chunk.Metadata["document_id"])
	}

	// Mutating one chunk's metadata must not leak into another's.
	chunks[0].Metadata["document_id"] = "mutated"
	assert.Equal(t, "abc", chunks[1].Metadata["document_id"])
	assert.NotContains(t, meta, "chunk_index")
}

func TestChunkSentencesNotSplit(t *testing.T) {
	c := newTestChunker(100, 20, true)
	sentences := []string{
		"The quick brown fox jumps over the lazy dog.",
		"Pack my box with five dozen liquor jugs.",
		"How vexingly quick daft zebras jump!",
		"Sphinx of black quartz, judge my vow.",
	}
	text := strings.Join(sentences, " ")

	chunks := c.Chunk(text, nil)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		for _, s := range sentences {
			if strings.Contains(chunk.Content, s[:10]) {
				assert.Contains(t, chunk.Content, s,
					"chunk cut a sentence: %q", chunk.Content)
			}
		}
	}
}

func TestChunkOversizedSentenceKeptIntact(t *testing.T) {
	c := newTestChunker(50, 10, true)
	long := "This single sentence is deliberately much longer than the configured chunk size and must not be split."
	text := "Short lead. " + long + " Short tail."

	chunks := c.Chunk(text, nil)

	found := false
	for _, chunk := range chunks {
		if strings.Contains(chunk.Content, long) {
			found = true
		}
	}
	assert.True(t, found, "oversized sentence was split across chunks")
}

func TestChunkCoverage(t *testing.T) {
	c := newTestChunker(120, 30, true)
	text := "Alpha bravo charlie delta. Echo foxtrot golf hotel india. " +
		"Juliett kilo lima mike november oscar. Papa quebec romeo sierra tango. " +
		"Uniform victor whiskey xray yankee zulu. Numbers one two three four five six."

	chunks := c.Chunk(text, nil)
	require.Greater(t, len(chunks), 1)

	joined := ""
	for _, chunk := range chunks {
		joined += " " + chunk.Content
	}
	for _, word := range strings.Fields(text) {
		assert.Contains(t, joined, word)
	}
}

func TestChunkOverlapCarriedForward(t *testing.T) {
	c := newTestChunker(100, 40, true)
	text := strings.Repeat("Some filler sentence with enough words to matter. ", 12)

	chunks := c.Chunk(text, nil)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1].Content
		if len(prevTail) > 40 {
			prevTail = prevTail[len(prevTail)-40:]
		}
		// The next chunk starts with sentence material from the previous
		// chunk's tail.
		words := strings.Fields(prevTail)
		require.NotEmpty(t, words)
		assert.Contains(t, chunks[i].Content, words[len(words)-1])
	}
}

func TestChunkCharacterModeWordBoundaries(t *testing.T) {
	c := newTestChunker(50, 10, false)
	text := strings.Repeat("lorem ipsum dolor sit amet consectetur ", 10)

	chunks := c.Chunk(strings.TrimSpace(text), nil)
	require.Greater(t, len(chunks), 1)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 50)
		for _, word := range strings.Fields(chunk.Content) {
			assert.Contains(t, text, word, "word was cut: %q", word)
		}
	}
}

func TestChunkCharacterModeTerminates(t *testing.T) {
	// Overlap one short of the chunk size, with words sized so the
	// boundary snap pulls end back inside the overlap. The window must
	// still advance on every iteration instead of repeating forever.
	c := newTestChunker(20, 19, false)
	text := strings.TrimSpace(strings.Repeat("abcdefghij ", 20))

	chunks := c.Chunk(text, nil)
	require.NotEmpty(t, chunks)
	assert.LessOrEqual(t, len(chunks), len(text))

	joined := ""
	for _, chunk := range chunks {
		joined += " " + chunk.Content
	}
	assert.Contains(t, joined, "abcdefghij")
}

func TestChunkIDsFollowOrdinalPosition(t *testing.T) {
	c := newTestChunker(80, 20, true)
	text := strings.Repeat("One sentence here. Another sentence follows. ", 10)

	chunks := c.Chunk(text, nil)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.Equal(t, fmt.Sprintf("chunk_%d", i), chunk.ChunkID)
	}

	single := c.Chunk("Tiny.", nil)
	require.Len(t, single, 1)
	assert.Equal(t, "chunk_0", single[0].ChunkID)
}

func TestChunkParagraphsRespected(t *testing.T) {
	c := newTestChunker(1000, 100, true)
	text := "First paragraph sentence one. First paragraph sentence two.\n\n" +
		"Second paragraph sentence one. Second paragraph sentence two."

	chunks := c.Chunk(text, nil)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "First paragraph")
	assert.Contains(t, chunks[0].Content, "Second paragraph")
}
