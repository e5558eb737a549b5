package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noteboard/internal/realtime"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Server is the standalone event relay. It accepts mutation envelopes from
// the API layer on /emit and fans them out to websocket subscribers grouped
// into board rooms.
//
// The shared-secret header is the only authentication on the ingestion path:
// the relay trusts the internal API layer to have validated board access
// before the mutation was persisted. The subscribe side is unauthenticated;
// push payloads are hints that clients confirm through the REST API.
type Server struct {
	Engine *gin.Engine
	Hub    *Hub

	secret   string
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewServer(secret string) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	// Browser clients connect from the app origin; allow all like the
	// upstream socket server.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST"},
		AllowHeaders:    []string{"Content-Type", "x-relay-secret"},
	}))

	s := &Server{
		Engine: r,
		Hub:    NewHub(),
		secret: secret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logrus.WithField("component", "relay"),
	}

	r.GET("/health", s.health)
	r.POST("/emit", s.emit)
	r.GET("/ws", s.serveWS)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return s
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) emit(c *gin.Context) {
	if provided := c.GetHeader("x-relay-secret"); provided == "" || provided != s.secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	var env realtime.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if env.BoardID == "" || env.Event == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing boardId or event"})
		return
	}

	message, err := json.Marshal(gin.H{"event": env.Event, "payload": env.Payload})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	// Fire-and-forget: success regardless of how many connections receive it.
	s.Hub.Broadcast(env.BoardID, message)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) serveWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	NewClient(s.Hub, conn).Run()
}

func (s *Server) Run(port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.Engine,
	}

	go func() {
		s.log.Infof("Relay listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Fatal("Relay failed to listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.log.Info("Shutting down relay...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.log.WithError(err).Fatal("Relay forced to shutdown")
	}
	s.log.Info("Relay exited")
}
