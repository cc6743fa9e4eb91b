package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dealscope/dealscope/internal/catalog"
	"github.com/dealscope/dealscope/internal/model"
	"github.com/dealscope/dealscope/internal/report"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for interactive report generation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		cat, diag, err := loadCatalog(ctx)
		if err != nil {
			return err
		}
		if diag != nil {
			// Not fatal: the API serves an empty catalog and accepts a
			// manual upload at POST /api/catalog.
			zap.L().Warn("serving with empty catalog", zap.String("detail", diag.Summary()))
		}

		inv, err := initAgent()
		if err != nil {
			return err
		}

		srv := &apiServer{
			cat:  cat,
			diag: diag,
			gen:  report.NewGenerator(inv),
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.router(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			httpSrv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// apiServer holds the session catalog and the report generator. The catalog
// is read-only except for the manual-upload fallback, hence the RWMutex.
type apiServer struct {
	mu   sync.RWMutex
	cat  *model.Catalog
	diag *catalog.Diagnostics
	gen  *report.Generator
}

func (s *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/report-types", s.handleReportTypes)
		r.Get("/portfolios", s.handlePortfolios)
		r.Get("/portfolios/{investor}", s.handlePortfolio)
		r.Post("/catalog", s.handleUploadCatalog)
		r.Post("/reports", s.handleGenerate)
	})
	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleReportTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"report_types": reportTypeRows(),
		"models":       model.ReasoningModels,
		"depths":       []model.ResearchDepth{model.DepthBasic, model.DepthStandard, model.DepthComprehensive},
	})
}

func (s *apiServer) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := map[string]any{"investors": s.cat.Investors()}
	if s.diag != nil && len(s.cat.Portfolios) == 0 {
		resp["warning"] = s.diag.Summary()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	investor := chi.URLParam(r, "investor")
	portfolio := s.cat.FindPortfolio(investor)
	if portfolio == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("investor %q not found", investor))
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}

// handleUploadCatalog is the manual-supply fallback when no candidate data
// source parsed. A bad upload leaves the current catalog unchanged.
func (s *apiServer) handleUploadCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := catalog.LoadReader(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "error parsing uploaded file: "+err.Error())
		return
	}

	s.mu.Lock()
	s.cat = cat
	s.diag = nil
	s.mu.Unlock()

	zap.L().Info("catalog replaced via upload", zap.Int("portfolios", len(cat.Portfolios)))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "loaded",
		"portfolios": len(cat.Portfolios),
	})
}

type generateRequest struct {
	Investor   string   `json:"investor"`
	Company    string   `json:"company"`
	ReportType string   `json:"report_type"`
	Sections   []string `json:"sections"`
	Citations  string   `json:"citations"`
	Model      string   `json:"model"`
	Depth      string   `json:"depth"`
}

type generateResponse struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Filename string `json:"filename"`
	Markdown string `json:"markdown"`
}

// handleGenerate blocks for the full agent invocation; the interactive
// surface shows a busy indicator for the duration. No cancellation beyond
// the request context is exposed.
func (s *apiServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.RLock()
	portfolio := s.cat.FindPortfolio(req.Investor)
	s.mu.RUnlock()
	if portfolio == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("investor %q not found", req.Investor))
		return
	}
	deal := portfolio.FindDeal(req.Company)
	if deal == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("deal %q not found", req.Company))
		return
	}

	rr := model.ReportRequest{
		Type:      model.ReportType(req.ReportType),
		Sections:  req.Sections,
		Citations: model.CitationMode(strings.ToLower(req.Citations)),
		Model:     req.Model,
		Depth:     model.ResearchDepth(req.Depth),
	}
	if rr.Citations == "" {
		rr.Citations = model.CitationsSummary
	}
	if rr.Model == "" {
		rr.Model = cfg.Report.DefaultModel
	}
	if rr.Depth == "" {
		rr.Depth = model.ResearchDepth(cfg.Report.DefaultDepth)
	}

	if err := report.Validate(rr); err != nil {
		if errors.Is(err, report.ErrNoSections) {
			writeError(w, http.StatusBadRequest, "please select at least one section to include in the report")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.gen.Generate(r.Context(), rr, portfolio, deal)
	if err != nil {
		zap.L().Error("report generation failed",
			zap.String("investor", req.Investor),
			zap.String("company", req.Company),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "failed to generate the report, please try again")
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Title:    result.Title,
		Body:     result.Body,
		Filename: report.Filename(deal.TargetCompanyName, rr.Type),
		Markdown: report.Artifact(result),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
