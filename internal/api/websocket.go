package api

import (
	"net/http"
	"sync"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/OPGLOL/opgl-profile-service/internal/models"
	"github.com/OPGLOL/opgl-profile-service/internal/search"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Socket message and event types
const (
	MessageTypeSearch = "search"
	MessageTypeCancel = "cancel"

	EventTypeSearching = "searching"
	EventTypeProfile   = "profile"
	EventTypeError     = "error"
)

// SocketMessage is sent by the client over the search socket
type SocketMessage struct {
	Type   string `json:"type"`
	RiotID string `json:"riotId"`
}

// SocketEvent is sent by the server over the search socket
type SocketEvent struct {
	Type     string                `json:"type"`
	SearchID string                `json:"searchId,omitempty"`
	RiotID   string                `json:"riotId,omitempty"`
	Profile  *models.PlayerProfile `json:"profile,omitempty"`
	Code     apierrors.ErrorCode   `json:"code,omitempty"`
	Message  string                `json:"message,omitempty"`
}

// SearchSocket upgrades to a WebSocket on which the client can issue searches.
// A new search supersedes the previous one; only the newest result is sent.
type SearchSocket struct {
	profileService search.ProfileFetcher
	handler        *Handler
	upgrader       websocket.Upgrader
}

// NewSearchSocket creates a new SearchSocket instance
func NewSearchSocket(handler *Handler, allowedOrigins []string) *SearchSocket {
	return &SearchSocket{
		profileService: handler.profileService,
		handler:        handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowedOrigins []string) func(request *http.Request) bool {
	return func(request *http.Request) bool {
		origin := request.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}
}

// socketSession serialises writes; gorilla/websocket allows one concurrent writer
type socketSession struct {
	conn       *websocket.Conn
	writeMutex sync.Mutex
	logger     zerolog.Logger
}

func (session *socketSession) send(event SocketEvent) {
	session.writeMutex.Lock()
	defer session.writeMutex.Unlock()

	if err := session.conn.WriteJSON(event); err != nil {
		session.logger.Debug().Err(err).Str("type", event.Type).Msg("Failed to write socket event")
	}
}

// ServeHTTP handles GET /api/v1/search/ws
func (searchSocket *SearchSocket) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	logger := *zerolog.Ctx(request.Context())

	conn, err := searchSocket.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	session := &socketSession{conn: conn, logger: logger}
	coordinator := search.NewCoordinator(searchSocket.profileService, searchSocket.handler.searchTimeout, logger)
	defer coordinator.Wait()
	defer coordinator.Cancel()

	for {
		var message SocketMessage
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug().Err(err).Msg("Search socket closed")
			}
			return
		}

		switch message.Type {
		case MessageTypeCancel:
			coordinator.Cancel()
		case MessageTypeSearch, "":
			searchSocket.startSearch(request, session, coordinator, message)
		default:
			session.send(SocketEvent{
				Type:    EventTypeError,
				Code:    apierrors.ErrCodeInvalidRequestBody,
				Message: "Unknown message type: " + message.Type,
			})
		}
	}
}

func (searchSocket *SearchSocket) startSearch(request *http.Request, session *socketSession, coordinator *search.Coordinator, message SocketMessage) {
	profileRequest := ProfileRequest{RiotID: message.RiotID}
	if err := searchSocket.handler.validate.Struct(profileRequest); err != nil {
		session.send(SocketEvent{
			Type:    EventTypeError,
			RiotID:  message.RiotID,
			Code:    apierrors.ErrCodeValidationFailed,
			Message: "riotId is required and must be at most 80 characters",
		})
		return
	}

	searchID, err := coordinator.Search(request.Context(), message.RiotID, func(result search.Result) {
		event := SocketEvent{SearchID: result.SearchID, RiotID: result.RiotID}
		if result.Profile != nil {
			event.Type = EventTypeProfile
			event.Profile = result.Profile
		} else {
			event.Type = EventTypeError
			event.Code = result.Code
			event.Message = result.Message
		}
		session.send(event)
	})
	if err != nil {
		session.send(SocketEvent{
			Type:    EventTypeError,
			RiotID:  message.RiotID,
			Code:    apierrors.ErrCodeInternalError,
			Message: "Failed to start search",
		})
		return
	}

	session.send(SocketEvent{Type: EventTypeSearching, SearchID: searchID, RiotID: message.RiotID})
}
