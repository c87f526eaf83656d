package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notevault/notevault-server/internal/auth"
	"github.com/notevault/notevault-server/internal/search"
	"github.com/notevault/notevault-server/internal/service"
	"github.com/notevault/notevault-server/internal/store"
)

// envelope mirrors the response wrapper for test decoding.
type envelope struct {
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
	Success bool              `json:"success"`
}

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "notevault-api-test-*")
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

	s.SetSearchIndexer(service.NewSearchSync(idx, nil))

	keyHex, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(keyHex, 15*time.Minute)
	require.NoError(t, err)

	return NewServer(ServerOptions{
		Store:            s,
		TokenService:     tokenService,
		AuthService:      service.NewAuthService(s, tokenService, nil),
		SubjectService:   service.NewSubjectService(s, nil),
		ChapterService:   service.NewChapterService(s, nil),
		NoteService:      service.NewNoteService(s, nil),
		DashboardService: service.NewDashboardService(s, nil),
		SearchService:    service.NewSearchService(s, idx, nil),
	})
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, srv *Server, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

// signupUser registers a user and returns the access token.
func signupUser(t *testing.T, srv *Server, username, email string) string {
	t.Helper()

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "correcthorse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthCheck(t *testing.T) {
	srv := setupTestServer(t)

	rec, env := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestAuthFlow(t *testing.T) {
	srv := setupTestServer(t)

	token := signupUser(t, srv, "ada", "ada@example.com")

	// Profile round-trip.
	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "ada", profile.Username)
	assert.Equal(t, "ada@example.com", profile.Email)

	// Login with the same credentials.
	rec, _ = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "correcthorse",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong password is a 401.
	rec, env = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestSignup_ValidationDetails(t *testing.T) {
	srv := setupTestServer(t)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "ab",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	// Per-field validation messages surface in details.
	assert.Contains(t, env.Details, "email")
	assert.Contains(t, env.Details, "password")
}

func TestHierarchyFlow(t *testing.T) {
	srv := setupTestServer(t)
	token := signupUser(t, srv, "ada", "ada@example.com")

	// Create subject.
	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/subjects", token, map[string]string{
		"name": "Physics",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var subject struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &subject))
	assert.Equal(t, "Physics", subject.Name)

	// Create chapter.
	rec, env = doJSON(t, srv, http.MethodPost, "/api/v1/chapters", token, map[string]string{
		"subject_id": subject.ID,
		"name":       "Mechanics",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var chapter struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chapter))

	// Create note.
	rec, env = doJSON(t, srv, http.MethodPost, "/api/v1/notes", token, map[string]string{
		"chapter_id": chapter.ID,
		"title":      "Newton's Laws",
		"content":    "<p>Three laws of motion</p>",
		"tags":       "physics,mechanics",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var note struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &note))
	assert.Equal(t, "Newton's Laws", note.Title)

	// List notes in the chapter: summaries carry snippets, not content.
	rec, env = doJSON(t, srv, http.MethodGet, "/api/v1/chapters/"+chapter.ID+"/notes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []struct {
		ID      string `json:"id"`
		Snippet string `json:"snippet"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "Three laws of motion", summaries[0].Snippet)

	// Subject detail includes the chapter.
	rec, env = doJSON(t, srv, http.MethodGet, "/api/v1/subjects/"+subject.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		NoteCount int `json:"note_count"`
		Chapters  []struct {
			ID string `json:"id"`
		} `json:"chapters"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, 1, detail.NoteCount)
	require.Len(t, detail.Chapters, 1)

	// Delete subject cascades; the note is gone.
	rec, _ = doJSON(t, srv, http.MethodDelete, "/api/v1/subjects/"+subject.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/v1/notes/"+note.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOwnership_CrossUserLooksMissing(t *testing.T) {
	srv := setupTestServer(t)
	adaToken := signupUser(t, srv, "ada", "ada@example.com")
	graceToken := signupUser(t, srv, "grace", "grace@example.com")

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/subjects", adaToken, map[string]string{
		"name": "Physics",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var subject struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &subject))

	// Another user's subject must not be distinguishable from one that
	// doesn't exist.
	rec, crossEnv := doJSON(t, srv, http.MethodGet, "/api/v1/subjects/"+subject.ID, graceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec2, ghostEnv := doJSON(t, srv, http.MethodGet, "/api/v1/subjects/subj-ghost", graceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec2.Code)
	assert.Equal(t, ghostEnv.Error, crossEnv.Error)
}

func TestSearchEndpoint(t *testing.T) {
	srv := setupTestServer(t)
	token := signupUser(t, srv, "ada", "ada@example.com")

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/subjects", token, map[string]string{"name": "Physics"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var subject struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &subject))

	rec, env = doJSON(t, srv, http.MethodPost, "/api/v1/chapters", token, map[string]string{
		"subject_id": subject.ID,
		"name":       "Quantum",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var chapter struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chapter))

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/v1/notes", token, map[string]string{
		"chapter_id": chapter.ID,
		"title":      "Entanglement",
		"content":    "<p>spooky action at a distance</p>",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = doJSON(t, srv, http.MethodGet, "/api/v1/search?q=entanglement", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Total   int `json:"total"`
		Results []struct {
			Title string `json:"title"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "Entanglement", result.Results[0].Title)

	// Missing query is a validation error.
	rec, _ = doJSON(t, srv, http.MethodGet, "/api/v1/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-numeric limit is rejected before hitting the service.
	rec, _ = doJSON(t, srv, http.MethodGet, "/api/v1/search?q=x&limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	srv := setupTestServer(t)
	token := signupUser(t, srv, "ada", "ada@example.com")

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Stats struct {
			TotalSubjects int `json:"total_subjects"`
		} `json:"stats"`
		Heatmap []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"heatmap"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Zero(t, stats.Stats.TotalSubjects)
	assert.Len(t, stats.Heatmap, 35)

	rec, env = doJSON(t, srv, http.MethodGet, "/api/v1/dashboard/activity", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var log struct {
		TotalDays int `json:"total_days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &log))
	assert.Zero(t, log.TotalDays)
}

func TestInvalidBody(t *testing.T) {
	srv := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
