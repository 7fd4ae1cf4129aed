// Package server is the HTTP front end of wavsynthd.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cwbudde/wavsynth"
	"github.com/cwbudde/wavsynth/internal/metrics"
	"github.com/cwbudde/wavsynth/internal/scenario"
)

// Options bounds what a single request may ask for.
type Options struct {
	MaxDurationSeconds float64
	// MaxSamples caps frames × channels of one render; zero means 1<<25.
	MaxSamples int
	// MaxBodyBytes limits the JSON request body; zero means 1 MiB.
	MaxBodyBytes int64
}

type Server struct {
	logger *zap.Logger
	opts   Options
	router chi.Router
}

// New wires the routes.
func New(logger *zap.Logger, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	if opts.MaxSamples <= 0 {
		opts.MaxSamples = 1 << 25
	}

	s := &Server{
		logger: logger,
		opts:   opts,
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, clippedHeader, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/scenarios", s.listScenarios)
		r.Post("/render", s.render)
	})

	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type scenarioInfo struct {
	Name    string `json:"name"`
	Renders int    `json:"renders"`
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	names := scenario.Names()

	out := make([]scenarioInfo, 0, len(names))
	for _, name := range names {
		m, err := scenario.Lookup(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		out = append(out, scenarioInfo{Name: m.Name, Renders: m.Count()})
	}

	writeJSON(w, http.StatusOK, out)
}

// renderRequest accepts either explicit voices or a tone shorthand that is
// expanded over the format's channels.
type renderRequest struct {
	wavsynth.Request
	Tone *toneRequest `json:"tone,omitempty"`
}

type toneRequest struct {
	wavsynth.WaveformSpec
	ChannelVolumes []float64             `json:"channelVolumes,omitempty"`
	Noise          wavsynth.WaveformType `json:"noise,omitempty"`
	NoiseVolume    float64               `json:"noiseVolume,omitempty"`
}

func (rr renderRequest) build() (wavsynth.Request, error) {
	if rr.Tone == nil {
		return rr.Request, nil
	}

	if len(rr.Voices) > 0 {
		return wavsynth.Request{}, fmt.Errorf("%w: set either voices or tone", wavsynth.ErrInvalidSpec)
	}

	tone := wavsynth.Tone{
		Spec:           rr.Tone.WaveformSpec,
		ChannelVolumes: rr.Tone.ChannelVolumes,
		Noise:          rr.Tone.Noise,
		NoiseVolume:    rr.Tone.NoiseVolume,
	}

	req, err := tone.Request(rr.Format, rr.Container)
	if err != nil {
		return wavsynth.Request{}, err
	}

	req.Metadata = rr.Metadata

	return req, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("request_id", RequestIDFrom(r)))

	var body renderRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}

		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))

		return
	}

	req, err := body.build()
	if err != nil {
		metrics.RendersTotal.WithLabelValues(metrics.Outcome(nil, err)).Inc()
		writeError(w, statusFor(err), err)

		return
	}

	if d := req.DurationSeconds(); d > s.opts.MaxDurationSeconds {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Errorf("duration %gs exceeds the limit of %gs", d, s.opts.MaxDurationSeconds))

		return
	}

	if len(req.Voices) > 0 && req.Format.Channels > 0 {
		frames := req.Voices[0].Spec.Frames()
		if frames > s.opts.MaxSamples/req.Format.Channels {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Errorf("%d frames of %d channels exceed the limit of %d samples", frames, req.Format.Channels, s.opts.MaxSamples))

			return
		}
	}

	start := time.Now()
	f, err := wavsynth.Render(req)
	metrics.ObserveRender(req.Container, f, err, time.Since(start))

	if err != nil {
		logger.Warn("render failed", zap.Error(err))
		writeError(w, statusFor(err), err)

		return
	}

	if f.Clipped > 0 {
		logger.Warn("clipping detected", zap.Int("samples", f.Clipped))
	}

	w.Header().Set("Content-Type", f.Container.MediaType())
	w.Header().Set("Content-Length", strconv.Itoa(f.Len()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.FileName()))
	w.Header().Set(clippedHeader, strconv.Itoa(f.Clipped))
	w.WriteHeader(http.StatusOK)

	if _, err := f.WriteTo(w); err != nil {
		logger.Warn("failed to send audio", zap.Error(err))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, wavsynth.ErrInvalidSpec),
		errors.Is(err, wavsynth.ErrMismatchedFormat),
		errors.Is(err, wavsynth.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
