// supervise keeps a bundle's companion daemons alive. It takes one
// argument, the daemon spec file, and runs until every daemon stops or
// the process is told to shut down.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/coolshou/mission-center/pkg/bundle"
	"github.com/coolshou/mission-center/pkg/supervisor"
)

func init() {
	if os.Getenv("SUPERVISE_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}
}

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("Usage: %s <daemon spec file>", os.Args[0])
	}

	spec, err := supervisor.Load(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to load daemon spec: %v", err)
	}

	b, err := bundle.FromEnv()
	if err != nil {
		log.Fatalf("Failed to locate bundle: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	term := make(chan os.Signal, 1)
	signal.Notify(term, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-term
		log.Infof("Shutting down on %v", sig)
		cancel()
	}()

	m := supervisor.NewManager(b, spec)
	if err := m.Run(ctx); err != nil {
		log.Fatalf("Supervision ended: %v", err)
	}
	for name, status := range m.Statuses() {
		log.Infof("Daemon %s: %v", name, status)
	}
}
