package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/notevault/notevault-server/internal/errors"
)

func TestSubjectService_Create_Defaults(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	subject, err := env.subjects.Create(ctx, userID, CreateSubjectRequest{Name: "  Physics  "})
	require.NoError(t, err)

	assert.Equal(t, "Physics", subject.Name)
	assert.Equal(t, "#6C63FF", subject.Color)
	assert.Equal(t, "📚", subject.Icon)
}

func TestSubjectService_Create_DuplicateName(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	_, err := env.subjects.Create(ctx, userID, CreateSubjectRequest{Name: "Physics"})
	require.NoError(t, err)

	_, err = env.subjects.Create(ctx, userID, CreateSubjectRequest{Name: "physics"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeAlreadyExists, domainErr.Code)

	// A different user can reuse the name.
	otherID := signupTestUser(t, env, "grace", "grace@example.com")
	_, err = env.subjects.Create(ctx, otherID, CreateSubjectRequest{Name: "Physics"})
	require.NoError(t, err)
}

func TestSubjectService_List_SortedWithCounts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	seedNote(t, env, userID, "Zoology", "Mammals", "Bats", "<p>echolocation</p>", "")
	_, err := env.subjects.Create(ctx, userID, CreateSubjectRequest{Name: "Algebra"})
	require.NoError(t, err)

	subjects, err := env.subjects.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	assert.Equal(t, "Algebra", subjects[0].Name)
	assert.Equal(t, "Zoology", subjects[1].Name)
	assert.Equal(t, 1, subjects[1].ChapterCount)
	assert.Equal(t, 1, subjects[1].NoteCount)
	assert.Equal(t, 0, subjects[0].ChapterCount)
}

func TestSubjectService_Get_Detail(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	subject, chapter, _ := seedNote(t, env, userID, "Physics", "Mechanics", "Laws", "<p>three laws</p>", "")

	detail, err := env.subjects.Get(ctx, userID, subject.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, detail.ChapterCount)
	assert.Equal(t, 1, detail.NoteCount)
	require.Len(t, detail.Chapters, 1)
	assert.Equal(t, chapter.ID, detail.Chapters[0].ID)
	assert.Equal(t, 1, detail.Chapters[0].NoteCount)
}

func TestSubjectService_OwnershipEnforced(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	ownerID := signupTestUser(t, env, "ada", "ada@example.com")
	strangerID := signupTestUser(t, env, "grace", "grace@example.com")

	subject, chapter, note := seedNote(t, env, ownerID, "Physics", "Mechanics", "Laws", "", "")

	// Someone else's subject is indistinguishable from a missing one:
	// same code, same message, no existence leakage.
	_, err := env.subjects.Get(ctx, strangerID, subject.ID)
	require.Error(t, err)

	var strangerErr *domainerrors.Error
	require.ErrorAs(t, err, &strangerErr)
	assert.Equal(t, domainerrors.CodeNotFound, strangerErr.Code)

	var ghostErr *domainerrors.Error
	_, err = env.subjects.Get(ctx, ownerID, "subj_ghost")
	require.ErrorAs(t, err, &ghostErr)
	assert.Equal(t, domainerrors.CodeNotFound, ghostErr.Code)
	assert.Equal(t, ghostErr.Message, strangerErr.Message)

	_, err = env.chapters.Get(ctx, strangerID, chapter.ID)
	require.ErrorAs(t, err, &strangerErr)
	assert.Equal(t, domainerrors.CodeNotFound, strangerErr.Code)

	_, err = env.notes.Get(ctx, strangerID, note.ID)
	require.ErrorAs(t, err, &strangerErr)
	assert.Equal(t, domainerrors.CodeNotFound, strangerErr.Code)
}

func TestSubjectService_Delete_Cascades(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	subject, chapter, note := seedNote(t, env, userID, "Physics", "Mechanics", "Laws", "<p>gone soon</p>", "")

	require.NoError(t, env.subjects.Delete(ctx, userID, subject.ID))

	var domainErr *domainerrors.Error
	_, err := env.chapters.Get(ctx, userID, chapter.ID)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)

	_, err = env.notes.Get(ctx, userID, note.ID)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

func TestChapterService_Create_DuplicatePerSubject(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	subject, _, _ := seedNote(t, env, userID, "Physics", "Mechanics", "Laws", "", "")

	_, err := env.chapters.Create(ctx, userID, CreateChapterRequest{
		SubjectID: subject.ID,
		Name:      "MECHANICS",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeAlreadyExists, domainErr.Code)
}

func TestChapterService_Rename(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	_, chapter, _ := seedNote(t, env, userID, "Physics", "Mechanics", "Laws", "", "")

	newName := "Classical Mechanics"
	updated, err := env.chapters.Update(ctx, userID, chapter.ID, UpdateChapterRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Classical Mechanics", updated.Name)

	// Renaming to its own name (case change only) is allowed.
	sameName := "classical mechanics"
	_, err = env.chapters.Update(ctx, userID, chapter.ID, UpdateChapterRequest{Name: &sameName})
	require.NoError(t, err)
}

func TestNoteService_Create_DefaultTitle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	_, chapter, _ := seedNote(t, env, userID, "Physics", "Mechanics", "Laws", "", "")

	note, err := env.notes.Create(ctx, userID, CreateNoteRequest{
		ChapterID: chapter.ID,
		Title:     "   ",
		Content:   "<p>untitled content</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", note.Title)
	assert.NotEmpty(t, note.Modified)
	// The note inherits its chapter's subject.
	assert.Equal(t, chapter.SubjectID, note.SubjectID)
}

func TestNoteService_ListByChapter_Snippets(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	_, chapter, _ := seedNote(t, env, userID, "Physics", "Mechanics", "Laws",
		"<h1>Newton</h1><p>"+longWords(200)+"</p>", "physics,exam-prep")

	summaries, err := env.notes.ListByChapter(ctx, userID, chapter.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.NotContains(t, s.Snippet, "<")
	assert.LessOrEqual(t, len([]rune(s.Snippet)), 121) // 120 + ellipsis
	assert.Equal(t, "physics,exam-prep", s.Tags)
}

func TestNoteService_Update_TouchesModified(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	_, _, note := seedNote(t, env, userID, "Physics", "Mechanics", "Laws", "<p>v1</p>", "")

	newContent := "<p>v2</p>"
	updated, err := env.notes.Update(ctx, userID, note.ID, UpdateNoteRequest{Content: &newContent})
	require.NoError(t, err)

	assert.Equal(t, "<p>v2</p>", updated.Content)
	assert.False(t, updated.UpdatedAt.Before(note.UpdatedAt))
}

func TestNoteService_RecordsActivity(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	_, _, note := seedNote(t, env, userID, "Physics", "Mechanics", "Laws", "<p>v1</p>", "")

	content := "<p>v2</p>"
	_, err := env.notes.Update(ctx, userID, note.ID, UpdateNoteRequest{Content: &content})
	require.NoError(t, err)

	log, err := env.dashboard.GetActivityLog(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, log.TotalDays)
	// Create + update on the same day.
	assert.Equal(t, 2, log.Activity[0].Count)
}

func TestNoteService_DeleteDoesNotCountAsActivity(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	userID := signupTestUser(t, env, "ada", "ada@example.com")

	_, _, note := seedNote(t, env, userID, "Physics", "Mechanics", "Laws", "<p>v1</p>", "")
	require.NoError(t, env.notes.Delete(ctx, userID, note.ID))

	// Only the create counts; deleting must not inflate the heatmap.
	log, err := env.dashboard.GetActivityLog(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, log.TotalDays)
	assert.Equal(t, 1, log.Activity[0].Count)
}

// longWords builds filler text with n words.
func longWords(n int) string {
	out := make([]byte, 0, n*5)
	for range n {
		out = append(out, "word "...)
	}
	return string(out)
}
