package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csk7msd/student-college-allocation-system-dashboard/allocation"
	"github.com/csk7msd/student-college-allocation-system-dashboard/config"
	"github.com/csk7msd/student-college-allocation-system-dashboard/handlers"
)

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	table, err := allocation.LoadFile(cfg.AllocationCSVPath)
	if err != nil {
		log.Fatalf("load %s: %v", cfg.AllocationCSVPath, err)
	}
	log.Printf("Loaded %d allocations from %s", table.Len(), cfg.AllocationCSVPath)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AllocationPort),
		Handler:           handlers.NewAllocationRouter(cfg, table),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Allocation dashboard listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
