package huggingface

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ValidateID checks that a model id has the author/name shape. Each part may only hold
// letters, digits, '-', '_' and '.', and neither may be "." or "..".
func ValidateID(modelID string) error {
	author, name, ok := strings.Cut(strings.TrimSpace(modelID), "/")
	if !ok || !validIDPart(author) || !validIDPart(name) {
		return ErrInvalidID
	}
	return nil
}

func validIDPart(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// FetchBundle fetches metadata first, then the config, README and tokenizer config in
// parallel. Only a metadata failure is returned; the optional parts degrade to nil.
func (c *Client) FetchBundle(ctx context.Context, modelID string) (*Bundle, error) {
	if err := ValidateID(modelID); err != nil {
		return nil, err
	}
	modelID = strings.TrimSpace(modelID)

	meta, err := c.FetchMetadata(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("could not load metadata for %s: %w", modelID, err)
	}

	b := &Bundle{Metadata: *meta}

	// The optional fetchers never fail, so the group only provides the join.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.Config = c.FetchConfig(gctx, modelID)
		return nil
	})
	g.Go(func() error {
		b.Readme = c.FetchReadme(gctx, modelID)
		return nil
	})
	g.Go(func() error {
		b.TokenizerConfig = c.FetchTokenizerConfig(gctx, modelID)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.FetchedAt = time.Now().UTC()
	return b, nil
}
