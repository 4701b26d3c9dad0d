package transformer

import (
	"context"

	"github.com/pkg/errors"
)

// FakeProvider is an in-memory Provider for tests. Rewrite maps an original
// headline to its canned replacement; headlines without an entry fail.
type FakeProvider struct {
	Rewrite map[string]string
	// FailFor lists headlines whose transformation should error.
	FailFor map[string]bool
	// Calls records every headline handed to Transform, in order.
	Calls []string
}

func (f *FakeProvider) Transform(ctx context.Context, headline string, author string, content string, promptTemplate string) (*TransformResult, error) {
	f.Calls = append(f.Calls, headline)
	if f.FailFor[headline] {
		return nil, errors.New("fake provider failure")
	}
	transformed, ok := f.Rewrite[headline]
	if !ok {
		return nil, errors.Errorf("no canned rewrite for %q", headline)
	}
	return &TransformResult{
		TransformedHeadline: transformed,
		ProviderUsed:        "test",
	}, nil
}
