package imgtag

import (
	"context"
	"fmt"
	"image"
	"os"
	"sort"
)

// ColorExtractor finds the dominant colors of a local image file.
type ColorExtractor interface {
	// ExtractDominantColors returns up to count colors as "#rrggbb",
	// most frequent first.
	ExtractDominantColors(ctx context.Context, path string, count int) ([]string, error)
}

// Quantization of the built-in extractor
const (
	colorQuantShift   = 4
	colorSampleStride = 4
	colorHexFmt       = "#%02x%02x%02x"
)

// QuantizingColorExtractor is a ColorExtractor that buckets sampled pixels
// into 4096 colors and ranks the buckets by population. Transparent pixels
// are ignored. It decodes whatever image formats are registered, GIF, JPEG
// and PNG at least.
type QuantizingColorExtractor struct{}

// ExtractDominantColors implements ColorExtractor.
func (QuantizingColorExtractor) ExtractDominantColors(ctx context.Context, path string, count int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultColorCount
	}
	return dominantColors(img, count), nil
}

type colorBucket struct {
	key        uint16
	population int
	r, g, b    uint64
}

func dominantColors(img image.Image, count int) []string {
	buckets := make(map[uint16]*colorBucket)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += colorSampleStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += colorSampleStride {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			r8, g8, b8 := r>>8, g>>8, b>>8
			key := uint16(r8>>colorQuantShift)<<8 | uint16(g8>>colorQuantShift)<<4 | uint16(b8>>colorQuantShift)
			bucket, ok := buckets[key]
			if !ok {
				bucket = &colorBucket{key: key}
				buckets[key] = bucket
			}
			bucket.population++
			bucket.r += uint64(r8)
			bucket.g += uint64(g8)
			bucket.b += uint64(b8)
		}
	}

	ranked := make([]*colorBucket, 0, len(buckets))
	for _, bucket := range buckets {
		ranked = append(ranked, bucket)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].population != ranked[j].population {
			return ranked[i].population > ranked[j].population
		}
		return ranked[i].key < ranked[j].key
	})

	out := make([]string, 0, min(count, len(ranked)))
	for _, bucket := range ranked[:min(count, len(ranked))] {
		n := uint64(bucket.population)
		out = append(out, fmt.Sprintf(colorHexFmt, bucket.r/n, bucket.g/n, bucket.b/n))
	}
	return out
}
