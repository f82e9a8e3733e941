// Package mock provides test doubles for the ai service interfaces.
//
// The mocks run without external services and behave deterministically.
// Function fields replace the default behavior and call counters support
// assertions. All mocks are safe for concurrent use.
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("provider down")
//	}
//	...
//	assert.Equal(t, 1, embedder.CallCount())
//
// Defaults:
//
//   - MockEmbedder: unit vectors derived from an FNV hash of the text
//   - MockProfileExtractor: skills picked from a small keyword list
//   - MockProvider: aggregates the two
package mock
