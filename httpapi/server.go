// Package httpapi exposes the explorer over a JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sammcj/hfscout/alternatives"
	"github.com/sammcj/hfscout/compatibility"
	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/hardware"
	"github.com/sammcj/hfscout/huggingface"
	"github.com/sammcj/hfscout/recommender"
	"github.com/sammcj/hfscout/scoring"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// Service defines the model lookups the HTTP API layer needs.
type Service interface {
	Inspect(ctx context.Context, modelID string) (core.ModelRecord, error)
	Pool(ctx context.Context) ([]core.ModelRecord, error)
}

// Searcher lists models from the registry
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]huggingface.ModelSummary, error)
	Trending(ctx context.Context, limit int) ([]huggingface.ModelSummary, error)
}

type Options struct {
	CORSOrigins []string
	DefaultTopN int
}

// AlternativesResponse is the body of the alternatives route
type AlternativesResponse struct {
	ModelID      string               `json:"modelId"`
	Alternatives alternatives.Result  `json:"alternatives"`
	Summary      alternatives.Summary `json:"summary"`
}

// RecommendResponse is the body of the recommend route
type RecommendResponse struct {
	Recommendations []RecommendedModel `json:"recommendations"`
}

type RecommendedModel struct {
	recommender.Recommendation
	Explanation string `json:"explanation"`
}

func NewMux(svc Service, search Searcher, opts Options) http.Handler {
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	// model loads the record named by the author and name URL params
	model := func(w http.ResponseWriter, r *http.Request) (core.ModelRecord, bool) {
		id := chi.URLParam(r, "author") + "/" + chi.URLParam(r, "name")
		rec, err := svc.Inspect(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return core.ModelRecord{}, false
		}
		return rec, true
	}

	r.Route("/models/{author}/{name}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			if rec, ok := model(w, r); ok {
				writeJSON(w, http.StatusOK, rec)
			}
		})

		r.Get("/score", func(w http.ResponseWriter, r *http.Request) {
			if rec, ok := model(w, r); ok {
				writeJSON(w, http.StatusOK, scoring.Score(rec))
			}
		})

		r.Get("/compatibility", func(w http.ResponseWriter, r *http.Request) {
			if rec, ok := model(w, r); ok {
				writeJSON(w, http.StatusOK, compatibility.Analyze(rec))
			}
		})

		r.Get("/tco", func(w http.ResponseWriter, r *http.Request) {
			var usage hardware.Usage
			var err error
			if usage.TokensPerMonth, err = int64Param(r, "tokens"); err != nil {
				writeJSONError(w, http.StatusBadRequest, err.Error())
				return
			}
			if usage.MonthlyActiveUsers, err = int64Param(r, "mau"); err != nil {
				writeJSONError(w, http.StatusBadRequest, err.Error())
				return
			}
			hours, err := intParam(r, "hoursPerDay", 0)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, err.Error())
				return
			}
			usage.HoursPerDay = float64(hours)

			rec, ok := model(w, r)
			if !ok {
				return
			}
			if !rec.VRAM.Known() {
				writeJSONError(w, http.StatusUnprocessableEntity, rec.ModelID+" has no memory estimate")
				return
			}
			writeJSON(w, http.StatusOK, hardware.CalculateTCO(rec.VRAM.FP16, usage))
		})

		r.Get("/alternatives", func(w http.ResponseWriter, r *http.Request) {
			rec, ok := model(w, r)
			if !ok {
				return
			}
			pool, err := svc.Pool(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			res := alternatives.Find(rec, pool)
			writeJSON(w, http.StatusOK, AlternativesResponse{
				ModelID:      rec.ModelID,
				Alternatives: res,
				Summary:      alternatives.Summarise(res),
			})
		})
	})

	r.Post("/recommend", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req core.RequirementSpec
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := recommender.Validate(req); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		topN, err := intParam(r, "top", opts.DefaultTopN)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		pool, err := svc.Pool(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		recs := recommender.Recommend(pool, req, topN)
		out := RecommendResponse{Recommendations: make([]RecommendedModel, 0, len(recs))}
		for _, rec := range recs {
			out.Recommendations = append(out.Recommendations, RecommendedModel{
				Recommendation: rec,
				Explanation:    recommender.Explanation(rec),
			})
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			writeJSONError(w, http.StatusBadRequest, "q is required")
			return
		}
		limit, err := intParam(r, "limit", 0)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		results, err := search.Search(r.Context(), q, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"models": results})
	})

	r.Get("/trending", func(w http.ResponseWriter, r *http.Request) {
		limit, err := intParam(r, "limit", 0)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		results, err := search.Trending(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"models": results})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return n, nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return n, nil
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down gracefully
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if zlog != nil {
			zlog.Info().Str("addr", addr).Msg("hfscout listening")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
