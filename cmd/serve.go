package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/debtrisk-cli/internal/classify"
	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/export"
	"github.com/sells-group/debtrisk-cli/internal/ingest"
	"github.com/sells-group/debtrisk-cli/internal/report"
)

var (
	servePort       int
	serveThresholds string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload server for classification requests",
	Long: `Serves POST /v1/classify: upload a CSV or XLSX file as the multipart
field "file" and receive the report as JSON (default) or an XLSX workbook
(format=xlsx). layout and lang form fields override the export config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		sc, err := scoringConfig(cfg.Scoring, serveThresholds)
		if err != nil {
			return err
		}
		resolver, err := newColumnResolver(cfg.Ingest, nil)
		if err != nil {
			return err
		}

		s := newServer(sc, resolver, cfg.Server, cfg.Export)
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           s.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// server handles classification uploads. It holds no per-request state;
// every upload builds its own report.
type server struct {
	scoring   config.ScoringConfig
	resolver  *columnResolver
	export    config.ExportConfig
	origins   []string
	maxUpload int64
	limiter   *rate.Limiter
}

func newServer(sc config.ScoringConfig, resolver *columnResolver, sv config.ServerConfig, ec config.ExportConfig) *server {
	return &server{
		scoring:   sc,
		resolver:  resolver,
		export:    ec,
		origins:   sv.AllowedOrigins,
		maxUpload: int64(sv.MaxUploadMB) << 20,
		limiter:   rate.NewLimiter(rate.Limit(sv.RatePerSecond), sv.RateBurst),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.With(s.rateLimit).Post("/v1/classify", s.handleClassify)
	return r
}

func (s *server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close() //nolint:errcheck

	format := formValue(r, "format", export.FormatJSON)
	layout := formValue(r, "layout", s.export.Layout)
	if format != export.FormatJSON && format != export.FormatXLSX {
		writeError(w, http.StatusBadRequest, "format must be json or xlsx")
		return
	}
	tr, err := export.NewTranslator(formValue(r, "lang", s.export.Language))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sheet, err := ingest.Read(file, hdr.Filename, ingest.Options{SheetName: s.resolver.sheet})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ds, err := s.resolver.load(sheet)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := report.Build(ds, s.scoring, hdr.Filename)
	if err != nil {
		if eris.Is(err, classify.ErrMissingColumn) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		zap.L().Error("serve: build report", zap.String("file", hdr.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "classification failed")
		return
	}

	tables, err := export.Tables(rep, layout)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("X-Run-ID", rep.RunID)
	switch format {
	case export.FormatXLSX:
		name := trimExt(hdr.Filename) + "_results.xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		err = export.WriteXLSX(w, tables, tr)
	default:
		w.Header().Set("Content-Type", "application/json")
		err = export.WriteJSON(w, rep, tables, tr)
	}
	if err != nil {
		zap.L().Error("serve: write response", zap.String("run_id", rep.RunID), zap.Error(err))
	}
}

func formValue(r *http.Request, key, def string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return def
}

func trimExt(name string) string {
	base := filepath.Base(name)
	return base[:len(base)-len(filepath.Ext(base))]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveThresholds, "thresholds", "", "YAML file overriding the scoring thresholds")
	rootCmd.AddCommand(serveCmd)
}
