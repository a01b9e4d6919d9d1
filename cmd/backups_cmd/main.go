package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/repslog/server/internal/backups"
	"github.com/repslog/server/internal/db"
	"github.com/repslog/server/internal/workouts"
)

// workout sessions google drive backup cmd

func main() {
	credentialsFile := flag.String(
		"gd-creds",
		"./repslog-drive-credentials.json",
		"google drive service account credentials json",
	)
	readerEmail := flag.String(
		"reader-email",
		"",
		"google account email to grant read access on backup files",
	)
	dbHost := flag.String("db-host", "localhost", "postgres host")
	dbPort := flag.String("db-port", "5432", "postgres port")
	dbName := flag.String("db-name", "repslog", "postgres database name")
	socketAddrDir := flag.String("socket-dir", "/tmp", "unix socket directory of the main server")
	socketFileName := flag.String("socket-file", "repslog-backups.sock", "unix socket file name of the main server")
	logsPath := flag.String("logs-path", "", "backup logs file path (empty for stdout)")
	reinit := flag.Bool("reinit", false, "reinitialize all again")

	flag.Parse()

	loggingSetup(*logsPath)

	log.Println("starting workout sessions backup ...")

	if *credentialsFile == "" {
		log.Fatalln("google drive credentials json not specified")
	}
	if *reinit {
		log.Println("!! attention: will reinitialize all again...")
	}

	credentialsFileBytes, err := os.ReadFile(*credentialsFile)
	if err != nil {
		log.Fatalf("unable to read credentials file: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: *dbHost,
		DBPort: *dbPort,
		DBName: *dbName,
	})
	if err != nil {
		log.Fatalf("failed to create db pool: %s", err)
	}
	defer dbPool.Close()

	sessionsRepo := workouts.NewRepo(dbPool)

	s, err := backups.NewGoogleDriveBackupService(ctx, credentialsFileBytes, sessionsRepo, *readerEmail)
	if err != nil {
		log.Fatalf("failed to create google drive backup service: %s", err)
	}

	baseTime := time.Now()

	var backedUp int
	if *reinit {
		backedUp, err = s.Reinit(ctx, baseTime)
		if err != nil {
			log.Fatalf("reinit failed: %s", err)
		}
		log.Println("reinit done")
	} else {
		backedUp, err = s.DoBackup(ctx, baseTime)
		if err != nil {
			log.Fatalf("%+v", err)
		}
	}

	log.Printf("backup done, %d sessions backed up", backedUp)

	backups.TrySendMetrics(baseTime, backedUp, *socketAddrDir, *socketFileName)
}

func loggingSetup(logFileName string) {
	if logFileName == "" {
		log.SetOutput(os.Stdout)
		return
	}

	if !strings.HasSuffix(logFileName, ".log") {
		logFileName += ".log"
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:  logFileName,
		MaxSize:   50,    // megabytes
		LocalTime: false, // false -> use UTC
		Compress:  true,  // disabled by default
	})
}
