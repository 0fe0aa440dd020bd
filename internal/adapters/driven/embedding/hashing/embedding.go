// Package hashing provides a deterministic, offline embedding service based on
// signed feature hashing. It needs no model download and is used for
// air-gapped runs and tests.
package hashing

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/vectormath"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "fnv-hashing"
	DefaultDimensions = 512
)

// Config holds configuration for the hashing embedding service.
type Config struct {
	// Dimensions is the number of hash buckets (default: 512).
	Dimensions int
}

// EmbeddingService maps tokens into a fixed number of signed buckets.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a new hashing embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: cfg.Dimensions}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, s.dimensions)
	for _, tok := range Tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		idx := sum % uint64(s.dimensions)
		if sum>>63 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}
	return vectormath.Normalize(vec), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return DefaultModel
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// Tokenize lower-cases text and splits it into features. Runs of letters and
// digits become words. Han characters have no word boundaries, so each one
// becomes a unigram and each adjacent pair a bigram.
func Tokenize(text string) []string {
	var (
		tokens []string
		word   strings.Builder
		prev   rune
	)

	flushWord := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.Is(unicode.Han, r):
			flushWord()
			tokens = append(tokens, string(r))
			if prev != 0 {
				tokens = append(tokens, string([]rune{prev, r}))
			}
			prev = r
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		default:
			flushWord()
		}
		prev = 0
	}
	flushWord()

	return tokens
}
