package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

var (
	paragraphBreaks = regexp.MustCompile(`\n\s*\n`)
	sentenceEndings = regexp.MustCompile(`([.!?]+)\s+`)
)

// Chunker splits document text into overlapping chunks sized for embedding.
// The sentence-preserving mode packs whole sentences up to the chunk size;
// the character mode slides a fixed window and snaps to word boundaries.
type Chunker struct {
	chunkSize         int
	chunkOverlap      int
	preserveSentences bool
	logger            arbor.ILogger
}

func NewChunker(cfg common.ChunkingConfig, logger arbor.ILogger) *Chunker {
	return &Chunker{
		chunkSize:         cfg.ChunkSize,
		chunkOverlap:      cfg.ChunkOverlap,
		preserveSentences: cfg.PreserveSentences,
		logger:            logger,
	}
}

// Chunk splits text and stamps every chunk with a copy of metadata plus its
// chunk_index. Empty or whitespace-only text yields an empty slice. Text that
// already fits in one chunk is returned as a single chunk, index 0.
func (c *Chunker) Chunk(text string, metadata map[string]interface{}) []models.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return []models.Chunk{}
	}

	if len(text) <= c.chunkSize {
		return []models.Chunk{c.newChunk(text, 0, metadata)}
	}

	var chunks []models.Chunk
	if c.preserveSentences {
		chunks = c.chunkBySentences(text, metadata)
	} else {
		chunks = c.chunkByCharacters(text, metadata)
	}

	c.logger.Debug().
		Int("chunk_count", len(chunks)).
		Int("text_size", len(text)).
		Bool("preserve_sentences", c.preserveSentences).
		Msg("Text chunked")

	return chunks
}

// chunkBySentences packs whole sentences greedily. A chunk is emitted when
// adding the next sentence would exceed the chunk size; the next chunk starts
// with the overlap tail of the one just emitted. A single sentence longer
// than the chunk size is kept intact and emitted oversized rather than cut
// mid-sentence.
func (c *Chunker) chunkBySentences(text string, metadata map[string]interface{}) []models.Chunk {
	chunks := []models.Chunk{}
	current := ""
	index := 0

	for _, paragraph := range paragraphBreaks.Split(text, -1) {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		for _, sentence := range splitSentences(paragraph) {
			potential := sentence
			if current != "" {
				potential = current + " " + sentence
			}
			if len(potential) > c.chunkSize && current != "" {
				chunks = append(chunks, c.newChunk(current, index, metadata))
				index++
				if tail := c.overlapTail(current); tail != "" {
					current = tail + " " + sentence
				} else {
					current = sentence
				}
			} else {
				current = potential
			}
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, c.newChunk(current, index, metadata))
	}
	return chunks
}

// chunkByCharacters slides a fixed-size window with overlap. The right edge
// snaps back to the last space so words are not cut, except when no space
// exists in the window.
func (c *Chunker) chunkByCharacters(text string, metadata map[string]interface{}) []models.Chunk {
	chunks := []models.Chunk{}
	start := 0
	index := 0

	for start < len(text) {
		end := start + c.chunkSize
		sliceEnd := end
		if sliceEnd > len(text) {
			sliceEnd = len(text)
		}
		chunkText := text[start:sliceEnd]

		if end < len(text) && text[end] != ' ' && text[end] != '\n' && text[end] != '\t' {
			if lastSpace := strings.LastIndex(chunkText, " "); lastSpace > 0 {
				end = start + lastSpace
				chunkText = text[start:end]
			}
		}

		if trimmed := strings.TrimSpace(chunkText); trimmed != "" {
			chunks = append(chunks, c.newChunk(trimmed, index, metadata))
			index++
		}

		next := end - c.chunkOverlap
		if next <= start {
			// The boundary snap pulled end back inside the overlap, so the
			// next window would not advance. Skip the overlap for this step.
			next = end
		}
		start = next
	}
	return chunks
}

// overlapTail returns the trailing chunkOverlap characters of text, advanced
// past the first sentence boundary inside the window so the overlap starts on
// a whole sentence when one fits.
func (c *Chunker) overlapTail(text string) string {
	if c.chunkOverlap <= 0 {
		return ""
	}
	if len(text) <= c.chunkOverlap {
		return text
	}
	cut := len(text) - c.chunkOverlap
	for cut < len(text) && !utf8.RuneStart(text[cut]) {
		cut++
	}
	tail := text[cut:]
	if loc := sentenceEndings.FindStringIndex(tail); loc != nil {
		tail = tail[loc[1]:]
	}
	return strings.TrimSpace(tail)
}

func (c *Chunker) newChunk(content string, index int, metadata map[string]interface{}) models.Chunk {
	meta := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	meta["chunk_index"] = index
	return models.Chunk{
		ChunkID:  fmt.Sprintf("chunk_%d", index),
		Content:  content,
		Metadata: meta,
	}
}

// splitSentences splits a paragraph on terminal punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(paragraph string) []string {
	locs := sentenceEndings.FindAllStringSubmatchIndex(paragraph, -1)
	sentences := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		// loc[3] is the end of the punctuation run, loc[1] the end of the
		// trailing whitespace.
		if s := strings.TrimSpace(paragraph[prev:loc[3]]); s != "" {
			sentences = append(sentences, s)
		}
		prev = loc[1]
	}
	if s := strings.TrimSpace(paragraph[prev:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
