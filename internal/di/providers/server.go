package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/notevault/notevault-server/internal/api"
	"github.com/notevault/notevault-server/internal/auth"
	"github.com/notevault/notevault-server/internal/config"
	"github.com/notevault/notevault-server/internal/logger"
	"github.com/notevault/notevault-server/internal/service"
)

const shutdownTimeout = 10 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	tokenService := do.MustInvoke[*auth.TokenService](i)
	authService := do.MustInvoke[*service.AuthService](i)
	subjectService := do.MustInvoke[*service.SubjectService](i)
	chapterService := do.MustInvoke[*service.ChapterService](i)
	noteService := do.MustInvoke[*service.NoteService](i)
	dashboardService := do.MustInvoke[*service.DashboardService](i)
	searchService := do.MustInvoke[*service.SearchService](i)

	handler := api.NewServer(api.ServerOptions{
		Store:            storeHandle.Store,
		TokenService:     tokenService,
		AuthService:      authService,
		SubjectService:   subjectService,
		ChapterService:   chapterService,
		NoteService:      noteService,
		DashboardService: dashboardService,
		SearchService:    searchService,
		Logger:           log.Logger,
		CORSOrigins:      cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
