// Command backup creates, lists, restores, and prunes snapshots of a
// NoteVault database. Run it while the server is stopped; Badger allows
// only one process to hold the database at a time.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/notevault/notevault-server/internal/backup"
	"github.com/notevault/notevault-server/internal/store"
)

func main() {
	var (
		dataDir = flag.String("data", "", "data directory (default $DB_PATH parent or ~/NoteVault/data)")
		create  = flag.Bool("create", false, "create a new backup")
		list    = flag.Bool("list", false, "list existing backups")
		restore = flag.String("restore", "", "restore from the given backup file")
		prune   = flag.Int("prune", -1, "remove old backups, keeping the newest N")
	)
	flag.Parse()

	base := *dataDir
	if base == "" {
		base = defaultDataDir()
	}
	dbPath := filepath.Join(base, "db")
	backupDir := filepath.Join(base, "backups")

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s, err := store.New(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	svc := backup.NewService(s, backupDir, logger)
	ctx := context.Background()

	switch {
	case *create:
		result, err := svc.Create(ctx, "")
		if err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
		fmt.Printf("Backup written to %s (%s)\n", result.Path, humanize.Bytes(uint64(result.Size)))

	case *list:
		backups, err := svc.List()
		if err != nil {
			log.Fatalf("Failed to list backups: %v", err)
		}
		if len(backups) == 0 {
			fmt.Println("No backups found.")
			return
		}
		for _, b := range backups {
			fmt.Printf("%s  %8s  %s\n",
				b.CreatedAt.Format("2006-01-02 15:04:05"),
				humanize.Bytes(uint64(b.Size)),
				b.Name)
		}

	case *restore != "":
		if err := svc.Restore(ctx, *restore); err != nil {
			log.Fatalf("Restore failed: %v", err)
		}
		fmt.Println("Restore complete.")

	case *prune >= 0:
		removed, err := svc.Prune(*prune)
		if err != nil {
			log.Fatalf("Prune failed: %v", err)
		}
		fmt.Printf("Removed %d backup(s).\n", removed)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func defaultDataDir() string {
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		return filepath.Dir(dbPath)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to resolve home directory: %v", err)
	}
	return filepath.Join(home, "NoteVault", "data")
}
