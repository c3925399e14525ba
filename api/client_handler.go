package api

import (
	"net/http"

	"github.com/rpupo63/reelbyte-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type clientHandler struct {
	responder Responder
	logger    zerolog.Logger
	clients   *services.ClientService
}

func newClientHandler(clients *services.ClientService) clientHandler {
	logger := log.With().Str("handlerName", "clientHandler").Logger()

	return clientHandler{
		responder: NewResponder(logger),
		logger:    logger,
		clients:   clients,
	}
}

// getClient retrieves a client profile
// @Summary Get client profile
// @Tags Clients
// @Produce json
// @Param clientID path string true "Client profile ID" format(uuid)
// @Success 200 {object} models.ClientProfile
// @Failure 404 {object} ErrorResponse "Not Found - Client profile not found"
// @Router /clients/{clientID} [get]
func (h clientHandler) getClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := urlID(r, "clientID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		client, err := h.clients.Get(r.Context(), clientID)
		if err != nil {
			h.responder.WriteServiceError(w, "find", "client profile", err)
			return
		}
		h.responder.WriteJSON(w, client)
	}
}
