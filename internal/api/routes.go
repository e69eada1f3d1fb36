package api

import (
	"net/http"

	"github.com/whitfield-io/batesd/internal/config"
	"github.com/whitfield-io/batesd/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	storage := newStorageHandler(
		runtime.Storage,
		runtime.Infrastructure.Logger,
		cfg.Storage.MaxListSize,
	)

	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Productions.Handler().Routes(),
		storage.routes(),
	)
}
