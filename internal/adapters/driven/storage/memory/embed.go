package memory

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// splitText splits text into paragraphs, then packs words into chunks of at
// most size bytes. A single word longer than size becomes its own chunk.
func splitText(text string, size int) []string {
	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		var b strings.Builder
		for _, word := range strings.Fields(para) {
			if b.Len() > 0 && b.Len()+1+len(word) > size {
				chunks = append(chunks, b.String())
				b.Reset()
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
		}
		if b.Len() > 0 {
			chunks = append(chunks, b.String())
		}
	}
	return chunks
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// embed returns a term frequency vector.
func embed(text string) map[string]float64 {
	vec := make(map[string]float64)
	for _, tok := range tokenize(text) {
		vec[tok]++
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, v := range a {
		dot += v * b[k]
		na += v * v
	}
	for _, v := range b {
		nb += v * v
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// project maps a vector to a point in [-1, 1]^3 by hashing each term to a
// fixed direction and averaging the weighted directions.
func project(id string, vec map[string]float64) domain.Point {
	var x, y, z, total float64
	for term, w := range vec {
		h := fnv.New64a()
		_, _ = h.Write([]byte(term))
		sum := h.Sum64()
		x += w * unit(sum)
		y += w * unit(sum>>21)
		z += w * unit(sum>>42)
		total += w
	}
	p := domain.Point{ID: id}
	if total > 0 {
		p.X, p.Y, p.Z = x/total, y/total, z/total
	}
	return p
}

func unit(v uint64) float64 {
	const mask = 1<<21 - 1
	return float64(v&mask)/mask*2 - 1
}
