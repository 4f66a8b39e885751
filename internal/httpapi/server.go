package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"napd/internal/backend"
	"napd/internal/power"
	"napd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Status() types.StatusResponse
	Assertions() []types.AssertionInfo
	CreateAssertion(reason string) (types.AssertionInfo, error)
	ReleaseAssertion(id string) (info types.AssertionInfo, found bool, err error)
	SubscribeEvents(fn func(power.SleepEvent)) (cancel func(), err error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/assertions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := types.AssertionsResponse{Assertions: svc.Assertions()}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Post("/assertions", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.CreateAssertionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		req.Reason = strings.TrimSpace(req.Reason)
		if req.Reason == "" {
			writeJSONError(w, http.StatusBadRequest, "reason is required")
			return
		}

		start := time.Now()
		info, err := svc.CreateAssertion(req.Reason)
		if err != nil {
			status := assertionErrorStatus(err)
			writeJSONError(w, status, err.Error())
			logAssertionOp(r, "assertion create", status, start, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.AssertionResponse{Assertion: info})
		logAssertionOp(r, "assertion create", http.StatusCreated, start, nil)
	})

	r.Delete("/assertions/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		start := time.Now()
		info, found, err := svc.ReleaseAssertion(id)
		if !found {
			// Unknown ids are a defensive no-op per the handle contract.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		resp := types.AssertionResponse{Assertion: info}
		if err != nil {
			if power.IsAssertionReleaseFailed(err) {
				// Warning-class: local state is released, report and move on.
				resp.Warning = err.Error()
			} else {
				writeJSONError(w, http.StatusInternalServerError, err.Error())
				logAssertionOp(r, "assertion release", http.StatusInternalServerError, start, err)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
		logAssertionOp(r, "assertion release", http.StatusOK, start, err)
	})

	r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
		streamEventsNDJSON(svc, w, r)
	})

	r.Get("/events/ws", func(w http.ResponseWriter, r *http.Request) {
		streamEventsWS(svc, w, r)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("closed"))
	})

	r.Handle("/metrics", promhttp.Handler())
	MountSwagger(r)

	return r
}

// assertionErrorStatus maps create-path errors to HTTP status codes.
func assertionErrorStatus(err error) int {
	if backend.IsUnsupported(errors.Unwrap(err)) || backend.IsUnsupported(err) {
		return http.StatusNotImplemented
	}
	if power.IsAssertionCreationFailed(err) || power.IsClosed(err) {
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

func logAssertionOp(r *http.Request, op string, status int, start time.Time, err error) {
	if zlog == nil {
		return
	}
	z := zlog.Info().Str("op", op).Int("status", status).Dur("dur", time.Since(start))
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("assertion op")
}
