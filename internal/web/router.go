package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jusunglee/josa"
	"github.com/jusunglee/josa/internal/web/handlers"
	"github.com/jusunglee/josa/internal/web/middleware"
)

type Router struct {
	selector *josa.Selector
	log      *slog.Logger
	limiter  *middleware.IPRateLimiter
	origins  []string
}

func NewRouter(selector *josa.Selector, log *slog.Logger, limiter *middleware.IPRateLimiter, origins []string) *Router {
	return &Router{
		selector: selector,
		log:      log,
		limiter:  limiter,
		origins:  origins,
	}
}

// answerMaxAge is how long clients and proxies may keep a GET answer.
const answerMaxAge = 24 * time.Hour

func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	josaHandler := handlers.NewJosaHandler(r.selector, r.log)

	mux.Handle("GET /api/v1/josa",
		r.endpoint("select", josaHandler.Select, middleware.CacheAnswers(answerMaxAge)))
	mux.Handle("GET /api/v1/josa/all",
		r.endpoint("all", josaHandler.All, middleware.CacheAnswers(answerMaxAge)))
	mux.Handle("POST /api/v1/josa/batch",
		r.endpoint("batch", josaHandler.Batch))

	return middleware.CORS(r.origins)(mux)
}

// endpoint wraps h in the chain every josa route shares, followed by extra.
func (r *Router) endpoint(name string, h http.HandlerFunc, extra ...middleware.Middleware) http.Handler {
	chain := append([]middleware.Middleware{
		middleware.Observe(name, r.log),
		middleware.Throttle(r.limiter),
	}, extra...)
	return middleware.Chain(h, chain...)
}
