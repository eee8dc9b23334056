package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BlackBills-Engineering/ung-kiosk/common/logger"
	"github.com/BlackBills-Engineering/ung-kiosk/config"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/cart"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/checkout"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/preset"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumps"
	"github.com/gin-gonic/gin"
)

var log = logger.GetLogger()

const SHUTDOWN_TIMEOUT = 5 * time.Second

// Server exposes the kiosk core (pump views, cart, checkout session) over a
// JSON API for the presentation layer.
type Server struct {
	config     *config.Config
	pumpStore  pumps.Store
	cartStore  cart.Store
	session    *checkout.Session
	presets    preset.Service
	httpServer *http.Server
}

func NewServer(
	conf *config.Config,
	pumpStore pumps.Store,
	cartStore cart.Store,
	session *checkout.Session,
	presets preset.Service,
) *Server {
	s := &Server{
		config:    conf,
		pumpStore: pumpStore,
		cartStore: cartStore,
		session:   session,
		presets:   presets,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	s.registerRoutes(engine)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", conf.ServerPort),
		Handler: engine,
	}
	return s
}

// Run serves the API until SIGINT/SIGTERM, then drains in-flight requests.
func (s *Server) Run() error {
	s.setupGracefulShutdown()

	log.Infof("action: server_start | result: listening | addr: %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("action: server_start | result: failed | error: %v", err)
		return err
	}
	return nil
}

func (s *Server) setupGracefulShutdown() {
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChannel
		log.Infof("action: shutdown_signal | result: received")
		s.Shutdown()
	}()
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Errorf("action: shutdown | result: failed | error: %v", err)
		return
	}
	log.Infof("action: shutdown | result: success")
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	api := engine.Group("/api")

	api.GET("/pumps", s.getPumps)

	api.GET("/cart", s.getCart)
	api.POST("/cart/toggle", s.toggleCart)
	api.POST("/cart/products", s.addProduct)
	api.PATCH("/cart/products/:id", s.updateProductQty)
	api.DELETE("/cart/products/:id", s.removeProduct)
	api.POST("/cart/pumps", s.addPump)
	api.DELETE("/cart/pumps/:uuid", s.removePump)

	api.GET("/checkout", s.getCheckout)
	api.POST("/checkout/selection", s.toggleSelection)
	api.POST("/checkout/enter", s.enterCheckout)
	api.POST("/checkout/back", s.backToCart)
	api.POST("/checkout/methods", s.togglePaymentMethod)
	api.POST("/checkout/amounts", s.setPaymentAmount)
	api.POST("/checkout/submit", s.submit)
}
