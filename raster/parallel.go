package raster

import (
	"runtime"
	"sync"

	"github.com/npillmayer/ttf2bdf/outline"
)

// Result is the outcome of rasterizing one outline of a batch.
type Result struct {
	Code   rune
	Bitmap *Bitmap
	Err    error
}

// RasterizeAll rasterizes a batch of outlines with up to workers goroutines
// (GOMAXPROCS if workers ≤ 0). Glyphs share no state, so they are rasterized
// independently; results are returned in the order of the input. A failing
// glyph does not abort the others, its error is stored in its Result.
func RasterizeAll(outlines []outline.Outline, pixelsPerEm, unitsPerEm, workers int,
	opts ...Option) []Result {
	//
	results := make([]Result, len(outlines))
	if len(outlines) == 0 {
		return results
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(outlines))
	tracer().Debugf("rasterizing %d glyphs with %d workers", len(outlines), workers)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				bm, err := Rasterize(outlines[i], pixelsPerEm, unitsPerEm, opts...)
				results[i] = Result{Code: outlines[i].Code, Bitmap: bm, Err: err}
			}
		}()
	}
	for i := range outlines {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
