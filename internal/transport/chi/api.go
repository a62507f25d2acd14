package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ListOpportunitiesParams are the query parameters of GET /api/v1/opportunities/{category}.
type ListOpportunitiesParams struct {
	Q             *string `form:"q,omitempty" json:"q,omitempty"`
	Page          *string `form:"page,omitempty" json:"page,omitempty"`
	PageSize      *string `form:"pageSize,omitempty" json:"pageSize,omitempty"`
	Filters       *string `form:"filters,omitempty" json:"filters,omitempty"`
	Viewport      *string `form:"viewport,omitempty" json:"viewport,omitempty"`
	Sort          *string `form:"sort,omitempty" json:"sort,omitempty"`
	IncludeFacets *bool   `form:"includeFacets,omitempty" json:"includeFacets,omitempty"`
}

// GlobalSearchParams are the query parameters of GET /api/v1/search.
type GlobalSearchParams struct {
	Q     *string `form:"q,omitempty" json:"q,omitempty"`
	Limit *string `form:"limit,omitempty" json:"limit,omitempty"`
}

// DiscoverySnapshotParams are the query parameters of GET /api/v1/discovery/snapshot.
type DiscoverySnapshotParams struct {
	Limit *string `form:"limit,omitempty" json:"limit,omitempty"`
}

// ServerInterface is the set of HTTP operations served by the discovery API.
type ServerInterface interface {
	ListOpportunities(w http.ResponseWriter, r *http.Request, category string, params ListOpportunitiesParams)
	GlobalSearch(w http.ResponseWriter, r *http.Request, params GlobalSearchParams)
	DiscoverySnapshot(w http.ResponseWriter, r *http.Request, params DiscoverySnapshotParams)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ChiServerOptions configures route registration.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions registers every operation of si on the base router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := serverInterfaceWrapper{handler: si, errorHandlerFunc: options.ErrorHandlerFunc}

	r.Get(options.BaseURL+"/api/v1/opportunities/{category}", wrapper.ListOpportunities)
	r.Get(options.BaseURL+"/api/v1/search", wrapper.GlobalSearch)
	r.Get(options.BaseURL+"/api/v1/discovery/snapshot", wrapper.DiscoverySnapshot)
	r.Get(options.BaseURL+"/health", wrapper.HealthCheck)
	r.Get(options.BaseURL+"/metrics", wrapper.Metrics)
	return r
}

type serverInterfaceWrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) bindQuery(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return &InvalidParamFormatError{ParamName: name, Err: err}
	}
	return nil
}

func (siw *serverInterfaceWrapper) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	var category string
	err := runtime.BindStyledParameterWithOptions("simple", "category", chi.URLParam(r, "category"), &category,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "category", Err: err})
		return
	}

	var params ListOpportunitiesParams
	for name, dest := range map[string]any{
		"q":             &params.Q,
		"page":          &params.Page,
		"pageSize":      &params.PageSize,
		"filters":       &params.Filters,
		"viewport":      &params.Viewport,
		"sort":          &params.Sort,
		"includeFacets": &params.IncludeFacets,
	} {
		if err := siw.bindQuery(r, name, dest); err != nil {
			siw.errorHandlerFunc(w, r, err)
			return
		}
	}

	siw.handler.ListOpportunities(w, r, category, params)
}

func (siw *serverInterfaceWrapper) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	var params GlobalSearchParams
	if err := siw.bindQuery(r, "q", &params.Q); err != nil {
		siw.errorHandlerFunc(w, r, err)
		return
	}
	if err := siw.bindQuery(r, "limit", &params.Limit); err != nil {
		siw.errorHandlerFunc(w, r, err)
		return
	}
	siw.handler.GlobalSearch(w, r, params)
}

func (siw *serverInterfaceWrapper) DiscoverySnapshot(w http.ResponseWriter, r *http.Request) {
	var params DiscoverySnapshotParams
	if err := siw.bindQuery(r, "limit", &params.Limit); err != nil {
		siw.errorHandlerFunc(w, r, err)
		return
	}
	siw.handler.DiscoverySnapshot(w, r, params)
}

func (siw *serverInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.handler.HealthCheck(w, r)
}

func (siw *serverInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.handler.Metrics(w, r)
}
