package convert

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/gyeh/tempinfer/internal/infer"
	"github.com/gyeh/tempinfer/internal/normalize"
	"github.com/gyeh/tempinfer/internal/temporal"
)

// Infer votes on the family of a chunked column after null-token cleaning.
func Infer(cat *temporal.Catalog, raw *arrow.Chunked, tokens normalize.NullTokens, sampleSize int) (infer.Result, error) {
	col, err := temporal.ChunkedStrings(raw)
	if err != nil {
		return infer.Result{}, err
	}
	if tokens != nil {
		col = tokens.Clean(col)
	}
	return infer.VoteWith(cat, col, sampleSize), nil
}
