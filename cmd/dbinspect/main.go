// Command dbinspect dumps record counts and a sample of each record type
// from a NoteVault database. Read-only; safe to run against a live data dir.
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/notevault/notevault-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "NoteVault", "data", "db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	userCount := countRecords(db, "user:")
	subjectCount := countRecords(db, "subject:")
	chapterCount := countRecords(db, "chapter:")
	noteCount := countRecords(db, "note:")
	activityCount := countRecords(db, "activityday:")

	orphanNotes := 0
	emptyNotes := 0
	shown := 0

	err = db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte("note:")
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek([]byte("note:")); it.ValidForPrefix([]byte("note:")); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if strings.HasPrefix(key, "note:idx:") {
				continue
			}

			err := item.Value(func(val []byte) error {
				var note domain.Note
				if err := json.Unmarshal(val, &note); err != nil {
					return err
				}

				if note.ChapterID == "" || note.SubjectID == "" {
					orphanNotes++
				}
				if note.Content == "" {
					emptyNotes++
				}

				if shown < 3 {
					shown++
					fmt.Printf("Note: %s\n", note.Title)
					fmt.Printf("  ID: %s\n", note.ID)
					fmt.Printf("  Chapter: %s\n", note.ChapterID)
					fmt.Printf("  Tags: %s\n", note.Tags)
					fmt.Printf("  Updated: %s\n", note.UpdatedAt)
					fmt.Println()
				}
				return nil
			})
			if err != nil {
				log.Printf("Error reading note %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Users: %d\n", userCount)
	fmt.Printf("Subjects: %d\n", subjectCount)
	fmt.Printf("Chapters: %d\n", chapterCount)
	fmt.Printf("Notes: %d\n", noteCount)
	fmt.Printf("Activity days: %d\n", activityCount)
	fmt.Printf("Notes missing parents: %d\n", orphanNotes)
	fmt.Printf("Notes with empty content: %d\n", emptyNotes)
}

// countRecords counts primary records under a prefix, skipping index keys.
func countRecords(db *badger.DB, prefix string) int {
	count := 0
	_ = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			if strings.HasPrefix(key, prefix+"idx:") {
				continue
			}
			count++
		}
		return nil
	})
	return count
}
