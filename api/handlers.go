package api

import (
	"time"

	"github.com/rpupo63/reelbyte-backend/database"
	"github.com/rpupo63/reelbyte-backend/services"
	"github.com/rpupo63/reelbyte-backend/storage"
)

// Dependencies are the stores and optional integrations the router serves from.
type Dependencies struct {
	Database database.Database
	// Views de-duplicates view counting; nil counts every view.
	Views services.ViewDeduper
	// Uploader presigns media uploads; nil disables /media/uploads.
	Uploader *storage.Uploader
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, startupTime time.Time) *routeHandlers {
	handlers := &routeHandlers{
		gigHandler:     newGigHandler(services.NewGigService(deps.Database, deps.Views)),
		projectHandler: newProjectHandler(services.NewProjectService(deps.Database, deps.Views)),
		clientHandler:  newClientHandler(services.NewClientService(deps.Database)),
		healthHandler:  newHealthHandler(deps.Database, startupTime),
	}
	if deps.Uploader != nil {
		handlers.mediaHandler = newMediaHandler(deps.Uploader)
	}
	return handlers
}
