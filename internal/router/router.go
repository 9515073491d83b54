package routes

import (
	"net/http"

	_ "github.com/oggyb/pagecache/internal/docs" // swagger docs
	"github.com/oggyb/pagecache/internal/response"
	swaggerHandler "github.com/swaggo/http-swagger"
)

type AppDeps struct {
	Home      HomeHandler
	Page      PageHandler
	Scheduler SchedulerHandler
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type PageHandler interface {
	GetPage(w http.ResponseWriter, r *http.Request)
	GetCount(w http.ResponseWriter, r *http.Request)
}

type SchedulerHandler interface {
	StartStopScheduler(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /health", d.Home.Health)

	mux.HandleFunc("GET /pages", d.Page.GetPage)
	mux.HandleFunc("GET /pages/count", d.Page.GetCount)

	mux.HandleFunc("POST /scheduler", d.Scheduler.StartStopScheduler)

	// Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}
