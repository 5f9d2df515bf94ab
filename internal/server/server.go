package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/rcastellanos/InvoiceRAG/internal/adapter/utils"
	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/handlers"
	"github.com/rcastellanos/InvoiceRAG/internal/middleware"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type Handlers struct {
	Files *handlers.FileHandler
	Chat  *handlers.ChatSocketHandler
}

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string, h Handlers) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/", middleware.Wrap(h.Files.Root))
	r.Router.Post("/upload", middleware.Wrap(h.Files.Upload))
	r.Router.Post("/analyze-file", middleware.Wrap(h.Files.AnalyzeFile))
	r.Router.Post("/process-mapped-file", middleware.Wrap(h.Files.ProcessMappedFile))
	r.Router.Get("/templates", middleware.Wrap(h.Files.Templates))
	r.Router.Get("/datasets/latest", middleware.Wrap(h.Files.LatestDataset))
	//websocket upgrade needs the raw writer, so no status recorder here
	r.Router.Get("/ws/chat", middleware.WrapSocket(h.Chat.Chat))
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
