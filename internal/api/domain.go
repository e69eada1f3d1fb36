package api

import (
	"github.com/whitfield-io/batesd/internal/config"
	"github.com/whitfield-io/batesd/internal/documents"
	"github.com/whitfield-io/batesd/internal/productions"
	"github.com/whitfield-io/batesd/pkg/preflight"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents   documents.System
	Productions productions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	checker := preflight.New(
		cfg.Engine.MaxFileSizeBytes(),
		cfg.Engine.MaxPages,
		runtime.Logger,
	)

	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		checker,
		runtime.Logger,
		runtime.Pagination,
	)

	productionsSystem := productions.New(
		runtime.Database.Connection(),
		runtime.Storage,
		docsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Documents:   docsSystem,
		Productions: productionsSystem,
	}
}
