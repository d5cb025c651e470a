// Package srv exposes the toolkit over HTTP: schema snapshots, ad hoc
// inference, query validation and validated query execution.
package srv

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni"

	"github.com/semwaqas/MongoDB-toolkit/toolkit"
)

type Server struct {
	tk            *toolkit.Toolkit
	log           *slog.Logger
	defaultSample int

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	sampled  prometheus.Counter

	router *mux.Router
}

// New builds a Server around a Toolkit. defaultSample is the per-collection
// sample size used when a request does not carry its own; <= 0 falls back to
// toolkit.DefaultSampleSize.
func New(tk *toolkit.Toolkit, log *slog.Logger, defaultSample int) *Server {
	if log == nil {
		log = slog.Default()
	}
	if defaultSample <= 0 {
		defaultSample = toolkit.DefaultSampleSize
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	s := &Server{
		tk:            tk,
		log:           log,
		defaultSample: defaultSample,
		registry:      reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "toolkit_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		sampled: factory.NewCounter(prometheus.CounterOpts{
			Name: "toolkit_documents_sampled_total",
			Help: "Documents pulled through schema inference endpoints.",
		}),
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/v1/schema", s.handleSchema).Methods("GET")
	router.HandleFunc("/api/v1/schema/openapi", s.handleSchemaOpenAPI).Methods("GET")
	router.HandleFunc("/api/v1/infer", s.handleInfer).Methods("POST")
	router.HandleFunc("/api/v1/validate/syntax", s.handleValidateSyntax).Methods("POST")
	router.HandleFunc("/api/v1/validate/schema", s.handleValidateSchema).Methods("POST")
	router.HandleFunc("/api/v1/query", s.handleQuery).Methods("POST")
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.Use(s.logMiddleware)

	s.router = router
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := negroni.NewResponseWriter(w)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.requests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		s.log.Info("request",
			"method", r.Method,
			"uri", r.RequestURI,
			"proto", r.Proto,
			"status", ww.Status())
	})
}
