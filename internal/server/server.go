// Package server builds the HTTP surface: the drift app with every /api/v1
// route, wrapped in request metrics, next to /metrics.
package server

import (
	"net/http"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/config"
	"github.com/dimitrije/rosterdesk-api/internal/handlers"
	"github.com/dimitrije/rosterdesk-api/internal/metadata"
	"github.com/dimitrije/rosterdesk-api/internal/metrics"
	authmw "github.com/dimitrije/rosterdesk-api/internal/middleware"
	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/internal/spotify"
	"github.com/dimitrije/rosterdesk-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

// Deps is everything the routes need. Metrics may be nil.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	JWT         *services.JWTService
	Users       *services.UserService
	Tokens      *services.TokenService
	Teams       *services.TeamService
	Email       *services.EmailService
	Artists     *services.ArtistService
	Tasks       *services.TaskService
	Prospects   *services.ProspectService
	Budgets     *services.BudgetService
	Performance *services.PerformanceService
	Overview    *services.OverviewService
	Preferences *services.PreferenceService

	Fetcher *metadata.Fetcher
	Spotify *spotify.Client
	Syncer  *perfsync.Syncer
	Hub     *sse.Hub
}

type Server struct {
	// Auth is exposed so the caller can run its state cleanup loop.
	Auth *handlers.AuthHandler

	handler http.Handler
}

func New(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := d.Config

	auth := handlers.NewAuthHandler(cfg, d.Users, d.Tokens, d.JWT, log)
	user := handlers.NewUserHandler(d.Users)
	team := handlers.NewTeamHandler(d.Teams, d.Users, d.Email, cfg.FrontendURL, log)
	artist := handlers.NewArtistHandler(d.Artists, d.Teams)
	task := handlers.NewTaskHandler(d.Tasks, d.Artists, d.Teams)
	prospect := handlers.NewProspectHandler(d.Prospects, d.Teams)
	budget := handlers.NewBudgetHandler(d.Budgets, d.Artists, d.Teams)
	performance := handlers.NewPerformanceHandler(d.Performance, d.Syncer, d.Artists, d.Teams)
	overview := handlers.NewOverviewHandler(d.Overview, d.Teams)
	preference := handlers.NewPreferenceHandler(d.Preferences)
	functions := handlers.NewFunctionsHandler(d.Fetcher, d.Spotify, log)
	admin := handlers.NewAdminHandler(d.Performance, d.Syncer, d.Users, log)
	events := handlers.NewEventsHandler(d.Hub, d.Teams)

	app := drift.New()
	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "apikey"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	authGroup := api.Group("/auth")
	authGroup.Get("/:provider/consent", auth.GetConsentURL)
	authGroup.Get("/:provider/callback", auth.Callback)
	authGroup.Post("/exchange", auth.ExchangeCode)
	authGroup.Post("/refresh", auth.RefreshToken)
	authGroup.Post("/logout", auth.Logout)

	fn := api.Group("/functions")
	fn.Use(authmw.FunctionKey(cfg.FunctionsKey))
	fn.Post("/fetch-metadata", functions.FetchMetadata)
	fn.Get("/spotify-search", functions.SpotifySearch)
	fn.Post("/spotify-search", functions.SpotifySearch)
	fn.Get("/spotify-artist/:id", functions.SpotifyArtist)

	protected := api.Group("")
	protected.Use(authmw.Auth(d.JWT))

	protected.Post("/auth/logout-all", auth.LogoutAll)

	protected.Get("/users/me", user.GetMe)
	protected.Patch("/users/me", user.UpdateMe)
	protected.Get("/users/me/sections", preference.Get)
	protected.Patch("/users/me/sections", preference.Replace)
	protected.Delete("/users/me/sections", preference.Reset)
	protected.Post("/users/me/sections/:section/move", preference.Move)
	protected.Post("/users/me/sections/:section/hide", preference.ToggleHidden)
	protected.Post("/users/me/sections/:section/collapse", preference.ToggleCollapsed)

	protected.Get("/teams", team.List)
	protected.Post("/teams", team.Create)
	protected.Get("/teams/:id", team.Get)
	protected.Patch("/teams/:id", team.Update)
	protected.Delete("/teams/:id", team.Delete)
	protected.Get("/teams/:id/members", team.GetMembers)
	protected.Post("/teams/:id/members", team.AddMember)
	protected.Patch("/teams/:id/members/:memberId", team.UpdateMemberRole)
	protected.Delete("/teams/:id/members/:memberId", team.RemoveMember)
	protected.Post("/teams/:id/leave", team.LeaveTeam)
	protected.Get("/teams/:id/events", events.Stream)

	protected.Get("/teams/:id/artists", artist.List)
	protected.Post("/teams/:id/artists", artist.Create)
	protected.Get("/teams/:id/tasks", task.ListByTeam)
	protected.Get("/teams/:id/prospects", prospect.List)
	protected.Post("/teams/:id/prospects", prospect.Create)
	protected.Get("/teams/:id/prospects/counts", prospect.StageCounts)
	protected.Get("/teams/:id/budgets", budget.ListByTeam)
	protected.Get("/teams/:id/overview", overview.Get)

	protected.Get("/artists/:id", artist.Get)
	protected.Patch("/artists/:id", artist.Update)
	protected.Delete("/artists/:id", artist.Delete)
	protected.Get("/artists/:id/tasks", task.ListByArtist)
	protected.Post("/artists/:id/tasks", task.Create)
	protected.Get("/artists/:id/budgets", budget.ListByArtist)
	protected.Post("/artists/:id/budgets", budget.Create)
	protected.Get("/artists/:id/performance", performance.Get)
	protected.Get("/artists/:id/performance/status", performance.SyncStatus)
	protected.Post("/artists/:id/performance/sync", performance.Sync)

	protected.Patch("/tasks/:id", task.Update)
	protected.Post("/tasks/:id/complete", task.SetCompleted)
	protected.Delete("/tasks/:id", task.Delete)

	protected.Get("/prospects/:id", prospect.Get)
	protected.Patch("/prospects/:id", prospect.Update)
	protected.Delete("/prospects/:id", prospect.Delete)

	protected.Patch("/budgets/:id", budget.Update)
	protected.Delete("/budgets/:id", budget.Delete)

	adminGroup := protected.Group("/admin")
	adminGroup.Use(authmw.RequireSuperAdmin())
	adminGroup.Post("/performance/sync-stale", admin.SyncStale)
	adminGroup.Post("/users/role", admin.SetGlobalRole)

	mux := http.NewServeMux()
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}
	mux.Handle("/", d.Metrics.Instrument(app))

	return &Server{Auth: auth, handler: mux}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
