package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/axiomhq/webcompress/logger"
)

const shutdownTimeout = 5 * time.Second

// Run serves h on addr until ctx is done or a stop request arrives.
func Run(ctx context.Context, addr string, h *Handler, l logger.Logger) error {
	r := gin.New()
	r.Use(gin.Recovery())
	Register(r, h)

	srv := &http.Server{Addr: addr, Handler: r}
	errc := make(chan error, 1)
	go func() {
		l.Infof("starting server at %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	case <-h.Stopped():
		l.Infof("stop requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
