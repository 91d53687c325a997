package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
	"archfolio/internal/server"
	"archfolio/internal/watch"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser preview and the editing API",
	Long: `Starts an HTTP server with the rendered portfolio at /preview and a JSON API
under /api/portfolio for field edits, projects, resources and AI updates.

Edits are kept in memory; the document file is reloaded when it changes on disk
(document.watch).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config, or $PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	doc, err := loadDocument()
	if err != nil {
		return err
	}
	store := portfolio.NewStore(doc)

	asst, err := newAssistant(ctx)
	if err != nil {
		return err
	}
	if !asst.Configured() {
		logging.BootWarn("no API key configured: AI routes will report a configuration error")
	}

	if cfg.Document.Watch {
		w, err := watch.New(documentPath(), store)
		if err == nil {
			if err = w.Start(ctx); err != nil {
				w.Stop()
			}
		}
		if err != nil {
			logging.BootWarn("document watch disabled: %v", err)
		} else {
			defer w.Stop()
		}
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := server.New(store, asst, server.Options{AllowedOrigins: cfg.Server.AllowedOrigins})
	return srv.Run(ctx, addr)
}
