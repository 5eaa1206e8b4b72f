package ocr

import (
	"image"
	"strings"
)

// DefaultMinConfidence is the score a token must exceed to be kept.
const DefaultMinConfidence = 40

// FilterTokens returns the tokens whose trimmed text is non-empty and whose
// confidence is strictly greater than minConfidence. Order is preserved.
// Tokens with the -1 sentinel are dropped for any minConfidence >= -1.
func FilterTokens(tokens []Token, minConfidence int) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		if t.Confidence < 0 || t.Confidence <= minConfidence {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Rectangles returns the boxes of tokens as image rectangles.
func Rectangles(tokens []Token) []image.Rectangle {
	rects := make([]image.Rectangle, len(tokens))
	for i, t := range tokens {
		rects[i] = t.Box.Rect()
	}
	return rects
}
