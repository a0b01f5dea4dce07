// Package server は HTTP サーバーのライフサイクルを管理します。
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ogurasousui/prospector/internal/adapters/http/handler"
)

const shutdownTimeout = 10 * time.Second

// Server は Echo をラップした HTTP サーバーです。
type Server struct {
	echo *echo.Echo
	addr string
}

// New はルートとミドルウェアを登録済みの Server を生成します。
func New(addr string, h *handler.Handler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	return &Server{echo: e, addr: addr}
}

// Run はサーバーを起動し、ctx のキャンセルで graceful shutdown します。
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ServeHTTP はテストからルーティングを直接実行するために公開します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
