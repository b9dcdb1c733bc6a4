// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"campusvote/cliparse"
	"campusvote/db"
	"campusvote/election"
	"campusvote/fingerprint"
	"campusvote/router"
)

// openDatabase picks the driver from the configured type. SQLite gets
// the foreign-keys pragma appended so ON DELETE CASCADE works.
func openDatabase(cfg cliparse.Config) (*sql.DB, error) {
	if cfg.DatabaseType == "postgres" {
		return sql.Open("postgres", cfg.DatabaseURL)
	}
	dsn := cfg.DatabaseURL
	if !strings.Contains(dsn, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}
	return sql.Open("sqlite", dsn)
}

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := openDatabase(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Open the fingerprint sensor when a device path is configured
	var sensor fingerprint.Sensor
	if cfg.SensorPort != "" {
		device, err := os.OpenFile(cfg.SensorPort, os.O_RDWR, 0)
		if err != nil {
			slog.Error("fingerprint sensor open failed", "path", cfg.SensorPort, "error", err)
			os.Exit(1)
		}
		lineSensor := fingerprint.NewLineSensor(device)
		defer lineSensor.Close()
		sensor = lineSensor
		slog.Info("Fingerprint sensor ready", "path", cfg.SensorPort)
	} else {
		slog.Warn("No fingerprint sensor configured; enrollment and verification disabled")
	}

	// Background sweep closes elections whose end time has passed
	svc := election.NewService(dbConn, nil)
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.SweepSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				closed, err := svc.CloseExpired(time.Now())
				if err != nil {
					slog.Error("expired-election sweep failed", "error", err)
					continue
				}
				if closed > 0 {
					slog.Info("closed expired elections", "count", closed)
				}
			case <-sweepDone:
				return
			}
		}
	}()

	// Create router
	mux := router.NewRouter(dbConn, cfg, sensor)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		close(sweepDone)
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
