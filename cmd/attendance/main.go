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

	"github.com/csk7msd/student-college-allocation-system-dashboard/config"
	"github.com/csk7msd/student-college-allocation-system-dashboard/database"
	"github.com/csk7msd/student-college-allocation-system-dashboard/geofence"
	"github.com/csk7msd/student-college-allocation-system-dashboard/handlers"
	"github.com/csk7msd/student-college-allocation-system-dashboard/sessions"
)

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// database
	store, err := database.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	fence := geofence.Fence{
		Target:   geofence.Point{Latitude: cfg.TargetLatitude, Longitude: cfg.TargetLongitude},
		RadiusKM: cfg.AllowedRadiusKM,
	}
	svc := sessions.NewService(store, fence, sessions.NewBroker())

	// router
	router := handlers.NewAttendanceRouter(cfg, svc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Attendance server listening on %s (public URL %s)", srv.Addr, cfg.PublicURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
