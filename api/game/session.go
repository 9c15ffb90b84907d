package gameapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/api/identity"
	"github.com/rssebastian/maze-game/game"
	"github.com/rssebastian/maze-game/service"
	"github.com/rssebastian/maze-game/service/i"
)

const reportTimeout = 500 * time.Millisecond

var ErrMissingManager = errors.New("game session manager is required")

// Subscriber registers websocket connections for session events.
type Subscriber interface {
	Add(sessionID uuid.UUID, conn *websocket.Conn)
	Remove(sessionID uuid.UUID, conn *websocket.Conn)
}

// SessionController manages maze session endpoints.
type SessionController struct {
	gameSessionManager i.GameSessionManager
	subscriber         Subscriber
}

// NewSessionController initializes a SessionController. A nil subscriber
// disables the websocket route.
func NewSessionController(gsm i.GameSessionManager, s Subscriber) (*SessionController, error) {
	if gsm == nil {
		return nil, ErrMissingManager
	}
	return &SessionController{
		gameSessionManager: gsm,
		subscriber:         s,
	}, nil
}

// RegisterPublic registers public routes.
func (sc *SessionController) RegisterPublic(route *gin.RouterGroup) {
	sessions := route.Group("/sessions")
	{
		sessions.POST("", sc.create)
		sessions.GET("/:ID", sc.session)
		sessions.GET("/:ID/maze", sc.maze)
		if sc.subscriber != nil {
			sessions.GET("/:ID/ws", sc.subscribe)
		}
	}
}

// RegisterProtected registers routes that require the session's token.
func (sc *SessionController) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/sessions")
	{
		sessions.POST("/:ID/collisions", sc.collisions)
		sessions.POST("/:ID/commands", sc.command)
	}
}

// create handles session creation requests.
func (sc *SessionController) create(ctx *gin.Context) {
	var request NewSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := sc.gameSessionManager.NewSession(ctx.Request.Context(), i.SessionRequest{
		Rows: request.Rows,
		Cols: request.Cols,
		Seed: request.Seed,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, &NewSessionResponse{
		ID:       res.Snapshot.ID,
		Token:    res.Token,
		Snapshot: res.Snapshot,
	})
}

// session returns the latest snapshot of a session.
func (sc *SessionController) session(ctx *gin.Context) {
	id, ok := sessionParam(ctx)
	if !ok {
		return
	}

	snapshot, err := sc.gameSessionManager.Session(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

// maze renders the session's maze as text.
func (sc *SessionController) maze(ctx *gin.Context) {
	id, ok := sessionParam(ctx)
	if !ok {
		return
	}

	text, err := sc.gameSessionManager.Maze(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, text)
}

// collisions forwards one tick's collision pairs to the session.
func (sc *SessionController) collisions(ctx *gin.Context) {
	id, ok := authorizedSession(ctx)
	if !ok {
		return
	}

	var request CollisionsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, p := range request.Pairs {
		if p.A == uuid.Nil || p.B == uuid.Nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "collision pair needs two body ids"})
			return
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx.Request.Context(), reportTimeout)
	defer cancel()
	state, err := sc.gameSessionManager.ReportCollisions(timeoutCtx, id, request.Pairs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &CollisionsResponse{State: state})
}

// command applies a key press to the session's player.
func (sc *SessionController) command(ctx *gin.Context) {
	id, ok := authorizedSession(ctx)
	if !ok {
		return
	}

	var request CommandRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx.Request.Context(), reportTimeout)
	defer cancel()
	velocity, err := sc.gameSessionManager.ApplyCommand(timeoutCtx, id, request.Key)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &CommandResponse{Velocity: velocity})
}

// subscribe upgrades the request and keeps the connection registered until
// the client goes away.
func (sc *SessionController) subscribe(ctx *gin.Context) {
	id, ok := sessionParam(ctx)
	if !ok {
		return
	}
	if _, err := sc.gameSessionManager.Maze(id); err != nil {
		respondError(ctx, err)
		return
	}

	conn, err := websocket.Accept(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	sc.subscriber.Add(id, conn)
	defer sc.subscriber.Remove(id, conn)

	<-conn.CloseRead(ctx.Request.Context()).Done()
}

func sessionParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

// authorizedSession parses the path ID and checks the token was issued for it.
func authorizedSession(ctx *gin.Context) (uuid.UUID, bool) {
	id, ok := sessionParam(ctx)
	if !ok {
		return uuid.Nil, false
	}

	claimed, ok := identity.SessionID(ctx)
	if !ok || claimed != id.String() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "token not valid for this session"})
		return uuid.Nil, false
	}
	return id, true
}

func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSessionSize),
		errors.Is(err, service.ErrMazeTooLarge),
		errors.Is(err, game.ErrUnknownKey):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrGameStopped):
		ctx.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "session busy"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
