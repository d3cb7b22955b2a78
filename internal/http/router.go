package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"lexmanager/internal/auth"
	"lexmanager/internal/config"
	"lexmanager/internal/http/handler"
	"lexmanager/internal/http/middleware"
	"lexmanager/internal/metrics"
)

// Deps carries everything the router wires together.
type Deps struct {
	Cfg *config.Config
	JWT *auth.JWT

	Auth       *handler.AuthHandler
	Users      *handler.UsersHandler
	Clientes   *handler.ClientesHandler
	Processos  *handler.ProcessosHandler
	Prazos     *handler.PrazosHandler
	Financeiro *handler.FinanceiroHandler
	Documentos *handler.DocumentosHandler
	Dashboard  *handler.DashboardHandler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware(func(req *http.Request) string {
		if rc := chi.RouteContext(req.Context()); rc != nil {
			return rc.RoutePattern()
		}
		return req.URL.Path
	}))
	r.Use(middleware.CORS(d.Cfg.CORSAllowedOrigins, d.Cfg.CORSAllowCredentials))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", d.Auth.Register)
		r.Post("/login", d.Auth.Login)
		r.Post("/refresh", d.Auth.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(d.JWT))
			r.Post("/logout", d.Auth.Logout)
			r.Get("/me", d.Auth.Me)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", d.Users.List)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleSocio))
				r.Post("/", d.Users.Create)
				r.Patch("/{id}", d.Users.Update)
				r.Delete("/{id}", d.Users.Deactivate)
			})
		})

		r.Route("/clientes", func(r chi.Router) {
			r.Get("/", d.Clientes.List)
			r.Post("/", d.Clientes.Create)
			r.Get("/{id}", d.Clientes.Get)
			r.Patch("/{id}", d.Clientes.Update)
			r.Delete("/{id}", d.Clientes.Delete)
		})

		r.Route("/processos", func(r chi.Router) {
			r.Get("/", d.Processos.List)
			r.Post("/", d.Processos.Create)
			r.Get("/{id}", d.Processos.Get)
			r.Patch("/{id}", d.Processos.Update)
			r.Delete("/{id}", d.Processos.Delete)
			r.Post("/{id}/movimentacoes", d.Processos.AddMovimentacao)
			r.Post("/{id}/clientes", d.Processos.AddCliente)
			r.Delete("/{id}/clientes/{clienteId}", d.Processos.RemoveCliente)
		})

		r.Route("/prazos", func(r chi.Router) {
			r.Get("/", d.Prazos.List)
			r.Post("/", d.Prazos.Create)
			r.Get("/{id}", d.Prazos.Get)
			r.Patch("/{id}", d.Prazos.Update)
			r.Delete("/{id}", d.Prazos.Delete)
		})

		r.Route("/financeiro/lancamentos", func(r chi.Router) {
			r.Get("/", d.Financeiro.List)
			r.Post("/", d.Financeiro.Create)
			r.Patch("/{id}", d.Financeiro.Update)
			r.Post("/{id}/pagar", d.Financeiro.Pagar)
		})

		r.Route("/documentos", func(r chi.Router) {
			r.Get("/", d.Documentos.List)
			r.Post("/", d.Documentos.Upload)
			r.Get("/{id}/download", d.Documentos.Download)
			r.Delete("/{id}", d.Documentos.Delete)
		})

		r.Get("/dashboard/kpis", d.Dashboard.Kpis)
	})

	return r
}
