// Package oracle wraps the external language model behind a single
// completion interface so the classifier and the generative tools share one
// client and tests can substitute a deterministic stub.
package oracle

import "context"

type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
