// Package embedding defines the contract for text embedding backends.
package embedding

import "context"

// Provider turns a batch of input strings into one fixed-dimension float
// vector per string, in input order.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// Dimensions reports the vector dimensionality the backend produces.
	Dimensions() int
}
