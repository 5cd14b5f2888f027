package chunks

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/dargueta/modunpack"
	"github.com/dargueta/modunpack/utilities/compression"
	"github.com/hashicorp/go-multierror"
)

// DecodeChunk decodes a single chunk of `image`. The decoder only sees the
// chunk's region, so a corrupt chunk can't read into its neighbor.
func DecodeChunk(image []byte, chunk Chunk) (modunpack.Result, error) {
	start, end, err := chunk.Region(len(image))
	if err != nil {
		return modunpack.Result{}, err
	}

	result, err := compression.Decompress(chunk.Method, image[:end], start, chunk.Params())
	if err != nil {
		return result, fmt.Errorf("chunk %q: %w", chunk.Name, err)
	}
	return result, nil
}

type unpackJob struct {
	index int
	chunk Chunk
}

type unpackOutput struct {
	index  int
	result modunpack.Result
	err    error
}

// UnpackAll decodes every chunk in `chunks` using up to `workers` goroutines. If
// `workers` isn't positive, one worker per CPU is used.
//
// The returned results are in the same order as `chunks`. A chunk that fails to
// decode gets whatever result its decoder returned (usually empty) and doesn't
// stop the others. All failures are collected into a single error.
func UnpackAll(image []byte, chunks []Chunk, workers int) ([]modunpack.Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	results := make([]modunpack.Result, len(chunks))
	if len(chunks) == 0 {
		return results, nil
	}

	jobs := make(chan unpackJob)
	outputs := make(chan unpackOutput, len(chunks))

	var waitGroup sync.WaitGroup
	for i := 0; i < workers; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for job := range jobs {
				result, err := DecodeChunk(image, job.chunk)
				outputs <- unpackOutput{index: job.index, result: result, err: err}
			}
		}()
	}

	for i, chunk := range chunks {
		jobs <- unpackJob{index: i, chunk: chunk}
	}
	close(jobs)
	waitGroup.Wait()
	close(outputs)

	// Errors are collected per index so they come out in manifest order no matter
	// which worker finished first.
	errs := make([]error, len(chunks))
	for output := range outputs {
		results[output.index] = output.result
		errs[output.index] = output.err
	}

	var result *multierror.Error
	for i, err := range errs {
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("chunk %d: %w", i, err))
		}
	}
	return results, result.ErrorOrNil()
}
