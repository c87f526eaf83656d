package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notevault/notevault-server/internal/auth"
	"github.com/notevault/notevault-server/internal/domain"
	"github.com/notevault/notevault-server/internal/search"
	"github.com/notevault/notevault-server/internal/store"
)

// testEnv bundles everything a service test needs.
type testEnv struct {
	store     *store.Store
	index     *search.NoteIndex
	auth      *AuthService
	subjects  *SubjectService
	chapters  *ChapterService
	notes     *NoteService
	dashboard *DashboardService
	search    *SearchService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "notevault-service-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	s, err := store.New(filepath.Join(tmpDir, "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	idx, err := search.NewNoteIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	s.SetSearchIndexer(NewSearchSync(idx, nil))

	keyHex, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(keyHex, 15*time.Minute)
	require.NoError(t, err)

	return &testEnv{
		store:     s,
		index:     idx,
		auth:      NewAuthService(s, tokenService, nil),
		subjects:  NewSubjectService(s, nil),
		chapters:  NewChapterService(s, nil),
		notes:     NewNoteService(s, nil),
		dashboard: NewDashboardService(s, nil),
		search:    NewSearchService(s, idx, nil),
	}
}

// signupTestUser registers a user and returns its ID.
func signupTestUser(t *testing.T, env *testEnv, username, email string) string {
	t.Helper()

	resp, err := env.auth.Signup(context.Background(), SignupRequest{
		Username: username,
		Email:    email,
		Password: "correcthorse",
	})
	require.NoError(t, err)
	return resp.User.ID
}

// seedNote creates a subject, chapter and note in one call.
func seedNote(t *testing.T, env *testEnv, userID, subjectName, chapterName, title, content, tags string) (*domain.Subject, *domain.Chapter, *domain.Note) {
	t.Helper()
	ctx := context.Background()

	subject, err := env.subjects.Create(ctx, userID, CreateSubjectRequest{Name: subjectName})
	require.NoError(t, err)

	chapter, err := env.chapters.Create(ctx, userID, CreateChapterRequest{
		SubjectID: subject.ID,
		Name:      chapterName,
	})
	require.NoError(t, err)

	note, err := env.notes.Create(ctx, userID, CreateNoteRequest{
		ChapterID: chapter.ID,
		Title:     title,
		Content:   content,
		Tags:      tags,
	})
	require.NoError(t, err)

	return subject, chapter, note
}
