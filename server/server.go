package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/stepupauth/go-mfa-server/credential"
	"github.com/stepupauth/go-mfa-server/internal/config"
	"github.com/stepupauth/go-mfa-server/mfa"
	"github.com/stepupauth/go-mfa-server/token"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config

	configService *mfa.ConfigService
	adminService  *mfa.AdminService
	sessions      token.SessionManager
	signer        token.Signer
	consumed      token.ConsumedAssertionCache
}

func New(cfg config.Config, repos credential.Repos, sessions token.SessionManager, consumed token.ConsumedAssertionCache, adminOptions ...mfa.AdminOption) (*Server, error) {
	secret := cfg.GetAdminAuthSecret()
	if secret == "" {
		return nil, fmt.Errorf("[Server New] ADMIN_AUTH_SECRET is not configured")
	}

	s := &Server{
		mux:           http.NewServeMux(),
		config:        cfg,
		configService: mfa.NewConfigService(repos.Config),
		adminService:  mfa.NewAdminService(repos.Credentials, repos.Pending, adminOptions...),
		sessions:      sessions,
		signer:        token.NewHMACSigner(secret),
		consumed:      consumed,
	}
	s.env = cfg.GetEnv()

	// Bootstrap: materialize the default global configuration on first boot
	if err := s.configService.EnsureDefault(context.Background()); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise configuration: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
