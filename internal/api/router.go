package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/openfedcloud/fedmgr/internal/api/handlers"
	mw "github.com/openfedcloud/fedmgr/internal/api/middleware"
	"github.com/openfedcloud/fedmgr/pkg/metrics"
)

type Dependencies struct {
	HMACSecret       []byte
	TrustedIssuer    string
	UserResolver     mw.UserResolver
	DB               handlers.Pinger
	UsersHandler     *handlers.UsersHandler
	IdpsHandler      *handlers.IdpsHandler
	ProvidersHandler *handlers.ProvidersHandler
	RegionsHandler   *handlers.RegionsHandler
	ProjectsHandler  *handlers.ProjectsHandler
	LocationsHandler *handlers.LocationsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.Metrics)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler(dep.DB)
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Handle("/metrics", metrics.Handler())

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/docs/doc.json"),
	))

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(mw.Auth(dep.HMACSecret, dep.TrustedIssuer, dep.UserResolver))

		api.Route("/users", func(ur chi.Router) {
			ur.Get("/", dep.UsersHandler.List)
			ur.Post("/", dep.UsersHandler.Create)
			ur.Get("/me", dep.UsersHandler.Me)
			ur.Get("/{userID}", dep.UsersHandler.Get)
			ur.Put("/{userID}", dep.UsersHandler.Update)
			ur.Delete("/{userID}", dep.UsersHandler.Delete)
		})

		api.Route("/idps", func(ir chi.Router) {
			ir.Get("/", dep.IdpsHandler.List)
			ir.Post("/", dep.IdpsHandler.Create)
			ir.Get("/{idpID}", dep.IdpsHandler.Get)
			ir.Put("/{idpID}", dep.IdpsHandler.Update)
			ir.Delete("/{idpID}", dep.IdpsHandler.Delete)

			ir.Route("/{idpID}/user-groups", func(gr chi.Router) {
				gr.Get("/", dep.IdpsHandler.ListGroups)
				gr.Post("/", dep.IdpsHandler.CreateGroup)
				gr.Get("/{groupID}", dep.IdpsHandler.GetGroup)
				gr.Put("/{groupID}", dep.IdpsHandler.UpdateGroup)
				gr.Delete("/{groupID}", dep.IdpsHandler.DeleteGroup)
				gr.Post("/{groupID}/slas", dep.IdpsHandler.CreateSLA)
			})
		})

		api.Route("/slas", func(sr chi.Router) {
			sr.Get("/", dep.IdpsHandler.ListSLAs)
			sr.Get("/{slaID}", dep.IdpsHandler.GetSLA)
			sr.Put("/{slaID}", dep.IdpsHandler.UpdateSLA)
			sr.Delete("/{slaID}", dep.IdpsHandler.DeleteSLA)
		})

		api.Route("/locations", func(lr chi.Router) {
			lr.Get("/", dep.LocationsHandler.List)
			lr.Post("/", dep.LocationsHandler.Create)
			lr.Get("/{locationID}", dep.LocationsHandler.Get)
			lr.Put("/{locationID}", dep.LocationsHandler.Update)
			lr.Delete("/{locationID}", dep.LocationsHandler.Delete)
		})

		api.Route("/providers", func(pr chi.Router) {
			pr.Get("/", dep.ProvidersHandler.List)
			pr.Post("/", dep.ProvidersHandler.Create)
			pr.Get("/{providerID}", dep.ProvidersHandler.Get)
			pr.Put("/{providerID}", dep.ProvidersHandler.Update)
			pr.Delete("/{providerID}", dep.ProvidersHandler.Delete)
			pr.Put("/{providerID}/status", dep.ProvidersHandler.SetStatus)
			pr.Post("/{providerID}/submit", dep.ProvidersHandler.Submit)
			pr.Post("/{providerID}/unsubmit", dep.ProvidersHandler.Unsubmit)

			pr.Route("/{providerID}/admins", func(ar chi.Router) {
				ar.Get("/", dep.ProvidersHandler.ListAdmins)
				ar.Post("/", dep.ProvidersHandler.AddAdmin)
				ar.Delete("/{userID}", dep.ProvidersHandler.RemoveAdmin)
			})
			pr.Route("/{providerID}/testers", func(tr chi.Router) {
				tr.Get("/", dep.ProvidersHandler.ListTesters)
				tr.Post("/", dep.ProvidersHandler.AddTester)
				tr.Delete("/{userID}", dep.ProvidersHandler.RemoveTester)
			})

			pr.Route("/{providerID}/idps", func(ir chi.Router) {
				ir.Get("/", dep.ProvidersHandler.ListIdPs)
				ir.Post("/{idpID}", dep.ProvidersHandler.ConnectIdP)
				ir.Get("/{idpID}", dep.ProvidersHandler.GetIdPLink)
				ir.Put("/{idpID}", dep.ProvidersHandler.UpdateIdPLink)
				ir.Delete("/{idpID}", dep.ProvidersHandler.DisconnectIdP)
			})

			pr.Route("/{providerID}/regions", func(rr chi.Router) {
				rr.Get("/", dep.RegionsHandler.List)
				rr.Post("/", dep.RegionsHandler.Create)
				rr.Get("/{regionID}", dep.RegionsHandler.Get)
				rr.Put("/{regionID}", dep.RegionsHandler.Update)
				rr.Delete("/{regionID}", dep.RegionsHandler.Delete)
			})

			pr.Route("/{providerID}/projects", func(jr chi.Router) {
				jr.Get("/", dep.ProjectsHandler.List)
				jr.Post("/", dep.ProjectsHandler.Create)
				jr.Get("/{projectID}", dep.ProjectsHandler.Get)
				jr.Put("/{projectID}", dep.ProjectsHandler.Update)
				jr.Delete("/{projectID}", dep.ProjectsHandler.Delete)

				jr.Post("/{projectID}/sla", dep.ProjectsHandler.ConnectSLA)
				jr.Delete("/{projectID}/sla", dep.ProjectsHandler.DisconnectSLA)

				jr.Route("/{projectID}/regions", func(rr chi.Router) {
					rr.Get("/", dep.ProjectsHandler.ListRegions)
					rr.Post("/{regionID}", dep.ProjectsHandler.ConnectRegion)
					rr.Get("/{regionID}", dep.ProjectsHandler.GetRegionConfig)
					rr.Put("/{regionID}", dep.ProjectsHandler.UpdateRegionLink)
					rr.Delete("/{regionID}", dep.ProjectsHandler.DisconnectRegion)
				})
			})
		})
	})

	return r
}
