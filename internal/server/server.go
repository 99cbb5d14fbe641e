package server

import (
	"log/slog"
	"net/http"
	"time"

	"ctchen222/hotseat/internal/api/controller"
	"ctchen222/hotseat/internal/hub"
	"ctchen222/hotseat/internal/hub/types"
	"ctchen222/hotseat/web"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// wsQuery names the two players sharing the browser.
type wsQuery struct {
	PlayerOne string `form:"player_one" binding:"required,max=32"`
	PlayerTwo string `form:"player_two" binding:"required,max=32"`
}

type Server struct {
	hub      *hub.Hub
	games    *controller.GameController
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

func NewServer(h *hub.Hub, games *controller.GameController) *Server {
	s := &Server{
		hub:   h,
		games: games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine = s.routes()
	return s
}

// Engine returns the HTTP handler serving the browser client, the websocket and the REST API.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.handleHealth)
	r.GET("/ws", s.handleWebSocket)
	s.games.RegisterRoutes(r.Group("/api"))

	// Everything else is the embedded browser client.
	r.NoRoute(gin.WrapH(http.FileServer(web.StaticFS())))
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.hub.Count()})
}

// handleWebSocket's only responsibility is to upgrade the connection and
// pass a registration request to the hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	var q wsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid player names")
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("player.one", q.PlayerOne), attribute.String("player.two", q.PlayerTwo))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	req := &types.RegistrationRequest{
		PlayerOne: q.PlayerOne,
		PlayerTwo: q.PlayerTwo,
		Conn:      conn,
		Ctx:       ctx,
	}
	select {
	case s.hub.Register() <- req:
	case <-ctx.Done():
		conn.Close()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.DebugContext(c.Request.Context(), "http request",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status", c.Writer.Status(),
			"http.duration", time.Since(start),
		)
	}
}
