// Package main provides a tool to seed the database with demo study data.
//
// It creates a demo user with a few subjects, chapters and notes, plus a
// backdated activity history so the dashboard heatmap and streak have
// something to show.
//
// Usage:
//
//	DB_PATH=~/NoteVault/data/db go run ./cmd/seed
//	DB_PATH=~/NoteVault/data/db go run ./cmd/seed --notes-per-chapter 10
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/notevault/notevault-server/internal/auth"
	"github.com/notevault/notevault-server/internal/domain"
	"github.com/notevault/notevault-server/internal/id"
	"github.com/notevault/notevault-server/internal/store"
)

var notesPerChapter = flag.Int("notes-per-chapter", 4, "Notes to create in each chapter")

var subjects = map[string][]string{
	"Physics":          {"Mechanics", "Thermodynamics", "Quantum"},
	"Computer Science": {"Algorithms", "Databases", "Networking"},
	"History":          {"Ancient Rome", "The Renaissance"},
}

var sampleTags = []string{"exam-prep", "revision", "important", "todo", "summary"}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "NoteVault", "data", "db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	user, err := ensureDemoUser(ctx, s)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	fmt.Printf("Demo user: %s (password: demo-password)\n", user.Email)

	noteCount := 0
	for subjectName, chapterNames := range subjects {
		subject, err := ensureSubject(ctx, s, user.ID, subjectName)
		if err != nil {
			log.Fatalf("Failed to create subject %q: %v", subjectName, err)
		}

		for _, chapterName := range chapterNames {
			chapter, err := ensureChapter(ctx, s, user.ID, subject.ID, chapterName)
			if err != nil {
				log.Fatalf("Failed to create chapter %q: %v", chapterName, err)
			}

			for n := range *notesPerChapter {
				if err := createNote(ctx, s, rng, user.ID, subject.ID, chapter.ID, chapterName, n); err != nil {
					log.Fatalf("Failed to create note: %v", err)
				}
				noteCount++
			}
		}
	}

	// Backdated activity so the heatmap and streak are populated.
	activityDays := 0
	for offset := 20; offset >= 0; offset-- {
		if rng.Intn(3) == 0 && offset > 1 {
			continue // quiet day
		}
		day := domain.FormatDay(time.Now().UTC().AddDate(0, 0, -offset))
		for range 1 + rng.Intn(5) {
			if err := s.IncrementActivity(ctx, user.ID, day); err != nil {
				log.Fatalf("Failed to record activity for %s: %v", day, err)
			}
		}
		activityDays++
	}

	fmt.Printf("\nSeeded %d notes across %d subjects, %d active days\n",
		noteCount, len(subjects), activityDays)
	fmt.Println("Restart the server to repopulate the search index.")
}

func ensureDemoUser(ctx context.Context, s *store.Store) (*domain.User, error) {
	if user, err := s.GetUserByEmail(ctx, "demo@notevault.local"); err == nil {
		return user, nil
	}

	hash, err := auth.HashPassword("demo-password")
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Entity:       domain.Entity{ID: id.MustGenerate(id.PrefixUser)},
		Username:     "demo",
		Email:        "demo@notevault.local",
		PasswordHash: hash,
		Avatar:       domain.DefaultAvatar,
	}
	user.InitTimestamps()

	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func ensureSubject(ctx context.Context, s *store.Store, userID, name string) (*domain.Subject, error) {
	if subject, err := s.GetSubjectByName(ctx, userID, name); err == nil {
		return subject, nil
	}

	subject := &domain.Subject{
		Entity: domain.Entity{ID: id.MustGenerate(id.PrefixSubject)},
		UserID: userID,
		Name:   name,
		Color:  domain.DefaultSubjectColor,
		Icon:   domain.DefaultSubjectIcon,
	}
	subject.InitTimestamps()

	if err := s.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func ensureChapter(ctx context.Context, s *store.Store, userID, subjectID, name string) (*domain.Chapter, error) {
	if chapter, err := s.GetChapterByName(ctx, subjectID, name); err == nil {
		return chapter, nil
	}

	chapter := &domain.Chapter{
		Entity:    domain.Entity{ID: id.MustGenerate(id.PrefixChapter)},
		UserID:    userID,
		SubjectID: subjectID,
		Name:      name,
		Icon:      domain.DefaultChapterIcon,
	}
	chapter.InitTimestamps()

	if err := s.CreateChapter(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func createNote(ctx context.Context, s *store.Store, rng *rand.Rand, userID, subjectID, chapterID, chapterName string, n int) error {
	tags := sampleTags[rng.Intn(len(sampleTags))]
	if rng.Intn(2) == 0 {
		tags += "," + sampleTags[rng.Intn(len(sampleTags))]
	}

	note := &domain.Note{
		Entity:    domain.Entity{ID: id.MustGenerate(id.PrefixNote)},
		UserID:    userID,
		SubjectID: subjectID,
		ChapterID: chapterID,
		Title:     fmt.Sprintf("%s study note %d", chapterName, n+1),
		Content: fmt.Sprintf("<h2>%s</h2><p>Key points from session %d. %s</p>",
			chapterName, n+1, loremSentence(rng)),
		Tags: tags,
	}
	note.InitNoteTimestamps()

	// Spread updates over the last three weeks for realistic recency ordering.
	age := time.Duration(rng.Intn(21*24)) * time.Hour
	note.CreatedAt = note.CreatedAt.Add(-age)
	note.UpdatedAt = note.CreatedAt

	return s.CreateNote(ctx, note)
}

var sentences = []string{
	"Remember to review the worked examples before the exam.",
	"The derivation follows directly from the previous chapter.",
	"Cross-reference this with the lecture slides from week four.",
	"This topic comes up every year, worth memorizing the definitions.",
	"Still unclear on the edge cases, ask in the next tutorial.",
}

func loremSentence(rng *rand.Rand) string {
	return sentences[rng.Intn(len(sentences))]
}
