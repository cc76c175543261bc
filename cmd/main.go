package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/bootstrap"
)

func main() {
	c := bootstrap.NewContainer()
	c.MustInit()
	defer c.Cancel()

	c.Start()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		c.Log.Infow("Shutting down...", "signal", sig.String())
	case <-c.Context.Done():
		c.Log.Warn("Shutting down after component failure...")
	}

	c.Shutdown()
}
