package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/domain"
	logpkg "github.com/kailas-cloud/discovery/internal/logger"
	discoveryuc "github.com/kailas-cloud/discovery/internal/usecase/discovery"
	healthuc "github.com/kailas-cloud/discovery/internal/usecase/health"
	"github.com/kailas-cloud/discovery/internal/version"
)

// ErrorCode is a machine-readable error category.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeUnsupportedCategory ErrorCode = "unsupported_category"
	ErrorCodeInternal            ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  healthuc.Status                 `json:"status"`
	Checks  map[string]healthuc.CheckResult `json:"checks"`
	Version string                          `json:"version"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, r *http.Request, err error) bool

// Server implements ServerInterface.
type Server struct {
	discovery     *discoveryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(discovery *discoveryuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{discovery: discovery, health: health, logger: logger}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrUnsupportedCategory, http.StatusNotFound, ErrorCodeUnsupportedCategory),
	}
	return s
}

// ListOpportunities handles GET /api/v1/opportunities/{category}.
func (s *Server) ListOpportunities(
	w http.ResponseWriter,
	r *http.Request,
	category string,
	params ListOpportunitiesParams,
) {
	p := discoveryuc.ListParams{
		Query:         deref(params.Q),
		Page:          deref(params.Page),
		PageSize:      deref(params.PageSize),
		Sort:          deref(params.Sort),
		IncludeFacets: params.IncludeFacets != nil && *params.IncludeFacets,
	}
	// absent must stay a nil interface: an empty string is parsed as JSON
	if params.Filters != nil {
		p.Filters = *params.Filters
	}
	if params.Viewport != nil {
		p.Viewport = *params.Viewport
	}

	env, err := s.discovery.ListOpportunities(r.Context(), category, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

// GlobalSearch handles GET /api/v1/search.
func (s *Server) GlobalSearch(w http.ResponseWriter, r *http.Request, params GlobalSearchParams) {
	agg, err := s.discovery.GlobalSearch(r.Context(), deref(params.Q), deref(params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// DiscoverySnapshot handles GET /api/v1/discovery/snapshot.
func (s *Server) DiscoverySnapshot(w http.ResponseWriter, r *http.Request, params DiscoverySnapshotParams) {
	agg, err := s.discovery.GlobalSearch(r.Context(), "", deref(params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// HealthCheck handles GET /health. A degraded service still answers 200 because
// every query can be served without the index.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:  report.Status,
		Checks:  report.Checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BadRequestHandler answers parameter binding failures.
func BadRequestHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:    ErrorCodeBadRequest,
			Message: "invalid request",
			Field:   pe.ParamName,
		})
		return
	}
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// validationHandler exposes the rejected field and reason; both describe client input.
func validationHandler(w http.ResponseWriter, _ *http.Request, err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    ErrorCodeValidationFailed,
		Message: ve.Message,
		Field:   ve.Field,
	})
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, _ *http.Request, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, r, err) {
			logpkg.FromContext(r.Context()).Info("request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error",
		zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternal, "internal error")
}
