package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"

	"github.com/taskhubhq/taskhub/internal/taskhub/service"
	"github.com/taskhubhq/taskhub/internal/taskhub/store"
	"github.com/taskhubhq/taskhub/pkg/httpx"
	"github.com/taskhubhq/taskhub/pkg/jwtx"
	"github.com/taskhubhq/taskhub/pkg/slogx"

	_ "github.com/taskhubhq/taskhub/api/taskhub" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	WorkspaceService *service.WorkspaceService
	StatsService     *service.StatsService
	InviteService    *service.InviteService
	ProjectService   *service.ProjectService
	TaskService      *service.TaskService
	ActivityService  *service.ActivityService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerWorkspaces()
	r.registerInvites()
	r.registerProjects()
	r.registerTasks()
	r.registerActivities()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TaskHub API
//	@version		0.1.0
//	@description	Multi-tenant project and task management service. Workspaces contain projects,
//	@description	projects contain tasks, and each workspace exposes a dashboard statistics bundle.
//	@description
//	@description				Authentication uses HS256-signed JWT bearer tokens minted by the external auth service.
//
//	@contact.name				TaskHub Team
//	@contact.url				https://github.com/taskhubhq/taskhub
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps a handler with authentication and a per-user rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier), // verify JWT (iss/exp)
		r.ensureUser(),
		httpx.RateLimitByUser(limit),
	)
}

// ensureUser lazily provisions a local user row from verified access-token
// claims. Identity lives in the external auth service; the first request a
// user makes here is when this service learns about them.
func (r *Router) ensureUser() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			if claims, ok := httpx.ClaimsFromContext(ctx); ok && claims.Subject != "" && claims.Email != "" {
				_, err := r.store.Users().GetUserByID(ctx, claims.Subject)
				if errors.Is(err, store.ErrNotFound) {
					now := time.Now().UTC()
					err = r.store.Users().CreateUser(ctx, domain.User{
						ID:        claims.Subject,
						Email:     claims.Email,
						Name:      claims.Name,
						CreatedAt: now,
						UpdatedAt: now,
					})
					// Concurrent first requests can race; either row wins.
					if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
						r.logger.Error("user provisioning failed", "error", err, "user", claims.Subject)
					}
				}
			}
			next.ServeHTTP(w, req)
		})
	}
}

func (r *Router) registerWorkspaces() {
	h := &WorkspacesHandler{WorkspaceService: r.WorkspaceService}

	r.Mux.Handle("POST /v1/workspaces",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/workspaces",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/workspaces/{workspaceId}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/workspaces/{workspaceId}",
		r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/workspaces/{workspaceId}",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/workspaces/{workspaceId}/transfer",
		r.secured(http.HandlerFunc(h.HandleTransfer), httpx.StrictLimit))
	r.Mux.Handle("GET /v1/workspaces/{workspaceId}/members",
		r.secured(http.HandlerFunc(h.HandleMembers), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/workspaces/{workspaceId}/projects",
		r.secured(http.HandlerFunc(h.HandleProjects), httpx.LenientLimit))

	// The dashboard load runs two queries and a pile of folds; keep it
	// behind the moderate profile.
	stats := &StatsHandler{StatsService: r.StatsService}
	r.Mux.Handle("GET /v1/workspaces/{workspaceId}/stats",
		r.secured(stats, httpx.ModerateLimit))
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{InviteService: r.InviteService}

	// Minting sends email, so it gets the strict profile.
	r.Mux.Handle("POST /v1/workspaces/{workspaceId}/invite-member",
		r.secured(http.HandlerFunc(h.HandleInvite), httpx.StrictLimit))
	r.Mux.Handle("POST /v1/workspaces/accept-invite-token",
		r.secured(http.HandlerFunc(h.HandleAcceptToken), httpx.StrictLimit))
	r.Mux.Handle("POST /v1/workspaces/{workspaceId}/accept-open-invite",
		r.secured(http.HandlerFunc(h.HandleAcceptOpen), httpx.ModerateLimit))
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{ProjectService: r.ProjectService, TaskService: r.TaskService}

	r.Mux.Handle("POST /v1/projects",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/projects/{projectId}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/projects/{projectId}/tasks",
		r.secured(http.HandlerFunc(h.HandleCreateTask), httpx.ModerateLimit))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	r.Mux.Handle("GET /v1/tasks/my",
		r.secured(http.HandlerFunc(h.HandleMy), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/tasks/{taskId}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/tasks/{taskId}/status",
		r.secured(http.HandlerFunc(h.HandleStatus), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/tasks/{taskId}/priority",
		r.secured(http.HandlerFunc(h.HandlePriority), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/tasks/{taskId}/subtasks",
		r.secured(http.HandlerFunc(h.HandleSubtaskCreate), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/tasks/{taskId}/subtasks/{subtaskId}",
		r.secured(http.HandlerFunc(h.HandleSubtaskToggle), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/tasks/{taskId}/comments",
		r.secured(http.HandlerFunc(h.HandleCommentCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/tasks/{taskId}/comments",
		r.secured(http.HandlerFunc(h.HandleCommentList), httpx.LenientLimit))
}

func (r *Router) registerActivities() {
	h := &ActivitiesHandler{ActivityService: r.ActivityService}

	r.Mux.Handle("GET /v1/activities/{resourceType}/{resourceId}",
		r.secured(h, httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	// Health probes are unauthenticated but rate limited by IP.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
