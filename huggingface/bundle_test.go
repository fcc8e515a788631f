package huggingface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBundle(t *testing.T) {
	_, c := fakeRegistry(t, func(m *http.ServeMux) {
		m.HandleFunc("/api/models/a/b", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(metadataJSON))
		})
		m.HandleFunc("/a/b/raw/main/config.json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(configJSON))
		})
		m.HandleFunc("/a/b/raw/main/README.md", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# Model\n\nA model."))
		})
	})

	before := time.Now().UTC()
	b, err := c.FetchBundle(context.Background(), "a/b")
	require.NoError(t, err)

	assert.Equal(t, "meta-llama", b.Metadata.Author)
	assert.NotNil(t, b.Config)
	require.NotNil(t, b.Readme)
	assert.Contains(t, *b.Readme, "A model.")
	assert.Nil(t, b.TokenizerConfig, "missing tokenizer config degrades to nil")
	assert.False(t, b.FetchedAt.Before(before))
}

func TestFetchBundleInvalidID(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	for _, id := range []string{"", "no-slash", "/name", "author/", "a/b/c", "a/b?x=1", "a/b#frag", "a/b%2F", "a b/c", "../b", "a/.."} {
		_, err := c.FetchBundle(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidID, id)
	}
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"a/b", " org/model ", "TinyLlama/TinyLlama-1.1B-Chat-v1.0", "Qwen/Qwen2.5_7B"} {
		assert.NoError(t, ValidateID(id), id)
	}
}

func TestFetchBundleMetadataFailureAborts(t *testing.T) {
	_, c := fakeRegistry(t, func(m *http.ServeMux) {
		m.HandleFunc("/api/models/a/b", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	})
	b, err := c.FetchBundle(context.Background(), "a/b")
	assert.Nil(t, b)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindNotFound, ClassifyError(err).Kind)
}

func TestFetchBundleCancelled(t *testing.T) {
	_, c := fakeRegistry(t, func(m *http.ServeMux) {
		m.HandleFunc("/api/models/a/b", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(metadataJSON))
		})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchBundle(ctx, "a/b")
	assert.Error(t, err)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		kind  Kind
		title string
	}{
		{"sentinel not found", fmt.Errorf("wrapped: %w", ErrNotFound), KindNotFound, "Model Not Found"},
		{"404 text", errors.New("status 404"), KindNotFound, "Model Not Found"},
		{"gated sentinel", ErrGated, KindValidation, "Gated Model"},
		{"permissions text", errors.New("missing permissions"), KindValidation, "Gated Model"},
		{"url error", &url.Error{Op: "Get", URL: "https://huggingface.co", Err: errors.New("dial tcp")}, KindNetwork, "Network Error"},
		{"net error", timeoutErr{}, KindNetwork, "Network Error"},
		{"fetch text", errors.New("failed to fetch"), KindNetwork, "Network Error"},
		{"invalid id", ErrInvalidID, KindValidation, "Invalid Model ID"},
		{"api error", &APIError{StatusCode: 500, Status: "500 Internal Server Error"}, KindUnknown, "Error"},
		{"anything else", errors.New("boom"), KindUnknown, "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyError(tt.err)
			assert.Equal(t, tt.kind, info.Kind)
			assert.Equal(t, tt.title, info.Title)
			assert.NotEmpty(t, info.Suggestion)
		})
	}

	assert.Equal(t, "boom", ClassifyError(errors.New("boom")).Message)
	assert.Equal(t, ErrorInfo{}, ClassifyError(nil))
}

func TestClassifyErrorOrder(t *testing.T) {
	// not found wins over gated when both match
	info := ClassifyError(errors.New("gated model not found"))
	assert.Equal(t, KindNotFound, info.Kind)

	// a sentinel beats text anywhere in the chain
	info = ClassifyError(fmt.Errorf("could not load acme/not-found-bert: %w", ErrGated))
	assert.Equal(t, "Gated Model", info.Title)
}

func TestClassifyErrorMatchesInnermostText(t *testing.T) {
	api := &APIError{StatusCode: 502, Status: "502 Bad Gateway"}
	for _, prefix := range []string{"gated-attention", "network-intrusion", "fetch-404"} {
		err := fmt.Errorf("could not load metadata for acme/%s: %w", prefix, api)
		assert.Equal(t, KindUnknown, ClassifyError(err).Kind, prefix)
	}

	err := fmt.Errorf("could not load metadata for acme/plain: %w", errors.New("upstream fetch failed"))
	assert.Equal(t, KindNetwork, ClassifyError(err).Kind)
}
