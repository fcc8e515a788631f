package explorer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/huggingface"
	"github.com/sammcj/hfscout/vramestimator"
)

type fakeFetcher struct {
	mu       sync.Mutex
	bundles  map[string]*huggingface.Bundle
	calls    map[string]int
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func newFakeFetcher(bundles map[string]*huggingface.Bundle) *fakeFetcher {
	return &fakeFetcher{bundles: bundles, calls: map[string]int{}}
}

func (f *fakeFetcher) FetchBundle(ctx context.Context, id string) (*huggingface.Bundle, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls[id]++
	b, ok := f.bundles[id]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, huggingface.ErrNotFound
	}
	return b, nil
}

func llamaBundle(id string, hidden, layers int) *huggingface.Bundle {
	readme := "# Model\n\nA chat model.\n\n## Usage\n\nRun it.\n"
	return &huggingface.Bundle{
		Metadata: huggingface.ModelInfo{
			ModelID:   id,
			Downloads: 50000,
			Likes:     120,
			Tags:      []string{"transformers", "license:apache-2.0"},
		},
		Config: map[string]any{
			"model_type":              "llama",
			"hidden_size":             float64(hidden),
			"num_hidden_layers":       float64(layers),
			"vocab_size":              float64(32000),
			"max_position_embeddings": float64(4096),
		},
		Readme:    &readme,
		FetchedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestEnrich(t *testing.T) {
	rec := Enrich(llamaBundle("acme/llama-7b", 4096, 32))

	assert.Equal(t, "acme/llama-7b", rec.ModelID)
	assert.Equal(t, "acme", rec.Author)
	assert.Equal(t, "unknown", rec.Library)
	assert.Equal(t, "text-generation", rec.PipelineTag)
	assert.Equal(t, "apache-2.0", rec.RawLicense)
	assert.Equal(t, core.CommercialAllowed, rec.License.Commercial)
	require.NotNil(t, rec.Config)
	assert.Equal(t, 4096, rec.ContextLength())
	require.NotNil(t, rec.Card)
	assert.Equal(t, vramestimator.EstimateVRAM(rec.Config), rec.VRAM)
	assert.True(t, rec.VRAM.Known())
	assert.False(t, rec.Quantization.Quantized)
	assert.Equal(t, 2025, rec.FetchedAt.Year())
}

func TestEnrichMinimalBundle(t *testing.T) {
	rec := Enrich(&huggingface.Bundle{Metadata: huggingface.ModelInfo{ID: "solo", Author: "someone", Gated: "manual"}})

	assert.Equal(t, "solo", rec.ModelID)
	assert.Equal(t, "someone", rec.Author)
	assert.True(t, rec.Gated)
	assert.Nil(t, rec.Config)
	assert.Nil(t, rec.Card)
	assert.False(t, rec.VRAM.Known())
	assert.Equal(t, core.StatusUnknown, rec.License.Status)

	rec = Enrich(&huggingface.Bundle{})
	assert.Equal(t, "unknown", rec.ModelID)
}

func TestEnrichDetectsQuantizationFromID(t *testing.T) {
	rec := Enrich(&huggingface.Bundle{Metadata: huggingface.ModelInfo{ModelID: "TheBloke/Llama-2-7B-GPTQ"}})
	assert.True(t, rec.Quantization.Quantized)
	assert.Equal(t, 4, rec.Quantization.Bits)
}

func TestInspectPropagatesErrors(t *testing.T) {
	ex := New(newFakeFetcher(nil), Options{})
	_, err := ex.Inspect(context.Background(), "missing/model")
	assert.ErrorIs(t, err, huggingface.ErrNotFound)
}

func TestInspectUsesConfiguredEstimator(t *testing.T) {
	f := newFakeFetcher(map[string]*huggingface.Bundle{"a/b": llamaBundle("a/b", 4096, 32)})
	est := vramestimator.Estimator{LayerMultiplier: 12, Overhead: 2}

	rec, err := New(f, Options{Estimator: est}).Inspect(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, est.Estimate(rec.Config), rec.VRAM)
}

func TestLoadPoolKeepsOrderAndSkipsFailures(t *testing.T) {
	noConfig := &huggingface.Bundle{Metadata: huggingface.ModelInfo{ModelID: "c/no-config"}}
	f := newFakeFetcher(map[string]*huggingface.Bundle{
		"a/big":         llamaBundle("a/big", 5120, 40),
		"b/small":       llamaBundle("b/small", 2048, 22),
		"c/no-config":   noConfig,
		"d/also-medium": llamaBundle("d/also-medium", 4096, 32),
	})
	f.delay = 5 * time.Millisecond

	ids := []string{"a/big", "x/missing", "b/small", "c/no-config", "d/also-medium"}
	pool, err := New(f, Options{Concurrency: 2}).LoadPool(context.Background(), ids)
	require.NoError(t, err)

	got := make([]string, len(pool))
	for i, m := range pool {
		got[i] = m.ModelID
	}
	assert.Equal(t, []string{"a/big", "b/small", "c/no-config", "d/also-medium"}, got)
	assert.Equal(t, FallbackVRAM, pool[2].VRAM)
	assert.LessOrEqual(t, f.peak.Load(), int32(2))
}

func TestLoadPoolEmitsProgress(t *testing.T) {
	f := newFakeFetcher(map[string]*huggingface.Bundle{
		"a/one": llamaBundle("a/one", 4096, 32),
		"a/two": llamaBundle("a/two", 2048, 22),
	})
	bus := core.NewEventBus()
	defer bus.Close()
	events := bus.Subscribe()

	_, err := New(f, Options{Events: bus}).LoadPool(context.Background(), []string{"a/one", "x/missing", "a/two"})
	require.NoError(t, err)

	counts := map[core.EventType]int{}
	maxDone := 0
	for range 4 {
		select {
		case e := <-events:
			counts[e.Type]++
			assert.Equal(t, 3, e.Total)
			if e.Type != core.EventPoolLoaded {
				maxDone = max(maxDone, e.Done)
			}
			if e.Type == core.EventPoolModelFailed {
				assert.Equal(t, "x/missing", e.ModelID)
				assert.NotEmpty(t, e.Err)
			}
			if e.Type == core.EventPoolLoaded {
				assert.Equal(t, 2, e.Done)
			}
		case <-time.After(time.Second):
			t.Fatal("missing progress events")
		}
	}
	assert.Equal(t, 2, counts[core.EventPoolModelLoaded])
	assert.Equal(t, 1, counts[core.EventPoolModelFailed])
	assert.Equal(t, 1, counts[core.EventPoolLoaded])
	assert.Equal(t, 3, maxDone)
}

func TestLoadPoolCancelled(t *testing.T) {
	f := newFakeFetcher(map[string]*huggingface.Bundle{"a/b": llamaBundle("a/b", 4096, 32)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(f, Options{}).LoadPool(ctx, []string{"a/b"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPoolIsCachedOnceLoaded(t *testing.T) {
	f := newFakeFetcher(map[string]*huggingface.Bundle{"a/b": llamaBundle("a/b", 4096, 32)})
	ex := New(f, Options{PoolIDs: []string{"a/b"}})

	for range 3 {
		pool, err := ex.Pool(context.Background())
		require.NoError(t, err)
		require.Len(t, pool, 1)
	}
	assert.Equal(t, 1, f.calls["a/b"])
}

func TestPoolRetriesWhenEmpty(t *testing.T) {
	f := newFakeFetcher(map[string]*huggingface.Bundle{})
	ex := New(f, Options{PoolIDs: []string{"a/b"}})

	pool, err := ex.Pool(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pool)

	f.mu.Lock()
	f.bundles["a/b"] = llamaBundle("a/b", 4096, 32)
	f.mu.Unlock()

	pool, err = ex.Pool(context.Background())
	require.NoError(t, err)
	assert.Len(t, pool, 1)
}

func TestReport(t *testing.T) {
	f := newFakeFetcher(map[string]*huggingface.Bundle{
		"a/big":   llamaBundle("a/big", 5120, 40),
		"b/small": llamaBundle("b/small", 2048, 22),
	})
	ex := New(f, Options{PoolIDs: []string{"a/big", "b/small"}})

	r, err := ex.Report(context.Background(), "a/big")
	require.NoError(t, err)

	assert.Equal(t, "a/big", r.Model.ModelID)
	assert.Equal(t, "ready", r.Advice.Status)
	assert.Greater(t, r.Score.Total, 0)
	require.NotEmpty(t, r.Alternatives.Cheaper)
	assert.Equal(t, "b/small", r.Alternatives.Cheaper[0].Model.ModelID)
	assert.True(t, r.Summary.HasCheaper)
	assert.NotEmpty(t, r.GPUs.All)

	assert.Equal(t, "a/big", r.Compatibility.ModelID)
	assert.Len(t, r.Compatibility.Frameworks, 5)
	require.NotNil(t, r.TCO)
	assert.Equal(t, r.Model.VRAM.FP16, r.TCO.VRAM)
}

func TestReportUnknownModel(t *testing.T) {
	ex := New(newFakeFetcher(nil), Options{PoolIDs: []string{"a/b"}})
	_, err := ex.Report(context.Background(), "nope/nope")
	assert.ErrorIs(t, err, huggingface.ErrNotFound)
}

func TestBuildReportWithoutEstimate(t *testing.T) {
	r := BuildReport(core.ModelRecord{ModelID: "x/y"}, nil)
	assert.Empty(t, r.GPUs.All)
	assert.Equal(t, 0, r.Summary.Total)
	assert.Nil(t, r.TCO)
	assert.Equal(t, "Good", r.Compatibility.Summary.Overall)
}

func TestInspectOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/models/acme/tiny", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"modelId":"acme/tiny","downloads":10,"cardData":{"license":"mit"}}`))
	})
	mux.HandleFunc("/acme/tiny/raw/main/config.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model_type":"llama","hidden_size":2048,"num_hidden_layers":22,"vocab_size":32000}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec, err := New(huggingface.NewClient(srv.URL, ""), Options{}).Inspect(context.Background(), "acme/tiny")
	require.NoError(t, err)
	assert.Equal(t, "mit", rec.RawLicense)
	require.NotNil(t, rec.Config)
	assert.Equal(t, 2048, rec.Config.HiddenSize)
	assert.True(t, rec.VRAM.Known())
	assert.Nil(t, rec.Card)
}
