package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viant/mcp-protocol/schema"
	mcpsrv "github.com/viant/mcp/server"

	emcp "github.com/elemstage/elemstage/mcp"
	"github.com/elemstage/elemstage/service"
)

func serveCmd(args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := flags.String("config", "", "config yaml (optional, defaults to ~/elemstage/config.yaml if present)")
	mcpAddr := flags.String("mcp-addr", "", "MCP server address (default from config or 127.0.0.1:6061)")
	debugSleep := flags.Int("debug-sleep", 0, "debug: sleep N seconds before execution (for gops)")
	flags.Parse(args)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	maybeDebugSleep("serve", *debugSleep)

	svc, cfg := newService(*configPath)
	defer func() { _ = svc.Close() }()

	addr := resolveMCPAddr(*mcpAddr, cfg)

	server, err := mcpsrv.New(
		mcpsrv.WithImplementation(schema.Implementation{Name: "elemstage-mcp", Version: "0.1.0"}),
		mcpsrv.WithNewHandler(emcp.NewHandler(svc)),
		mcpsrv.WithEndpointAddress(addr),
		mcpsrv.WithRootRedirect(true),
		mcpsrv.WithStreamableURI("/mcp"),
	)
	if err != nil {
		log.Fatal(err)
	}

	server.UseStreamableHTTP(true)
	httpServer := server.HTTP(ctx, addr)
	httpServer.ReadHeaderTimeout = 10 * time.Second
	httpServer.ReadTimeout = 60 * time.Second
	httpServer.WriteTimeout = 60 * time.Second
	httpServer.IdleTimeout = 120 * time.Second

	log.Printf("elemstage-mcp listening on %s", httpServer.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	cancel()
	log.Printf("shutdown signal received: %v", sig)

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Printf("elemstage-mcp stopped")
}

func resolveMCPAddr(flagAddr string, cfg *service.Config) string {
	if flagAddr != "" {
		return flagAddr
	}
	if cfg != nil {
		if cfg.MCPServer.Addr != "" {
			return cfg.MCPServer.Addr
		}
		if cfg.MCPServer.Port > 0 {
			return fmt.Sprintf("127.0.0.1:%d", cfg.MCPServer.Port)
		}
	}
	return "127.0.0.1:6061"
}
