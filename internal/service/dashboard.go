package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/notevault/notevault-server/internal/domain"
	"github.com/notevault/notevault-server/internal/store"
	"github.com/notevault/notevault-server/internal/textutil"
	"github.com/notevault/notevault-server/internal/util"
)

// DashboardService aggregates a user's data into the dashboard snapshot.
type DashboardService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(store *store.Store, logger *slog.Logger) *DashboardService {
	return &DashboardService{store: store, logger: logger}
}

const (
	recentNotesCount = 7
	topTagsCount     = 12
	heatmapDays      = 35
	activityLogLimit = 365
)

// GetStats computes the full dashboard snapshot for a user.
func (s *DashboardService) GetStats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	subjects, err := s.store.ListSubjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	// Notes come back most recently updated first.
	notes, err := s.store.ListNotesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	chapterCount, err := s.store.CountChaptersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count chapters: %w", err)
	}

	stats := &domain.DashboardStats{
		Stats: domain.Totals{
			TotalSubjects: len(subjects),
			TotalChapters: chapterCount,
			TotalNotes:    len(notes),
		},
		RecentNotes:      []domain.RecentNote{},
		SubjectBreakdown: []*domain.SubjectWithCounts{},
		TopTags:          []domain.TagCount{},
	}

	// Single pass over all notes: word totals and tag frequencies.
	tagCounts := make(map[string]int)
	for _, note := range notes {
		plain := textutil.StripMarkup(note.Content)
		stats.Stats.TotalWords += textutil.CountWords(plain)

		for _, tag := range note.TagList() {
			if normalized := util.NormalizeTag(tag); normalized != "" {
				tagCounts[normalized]++
			}
		}
	}

	subjectNames := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		subjectNames[subject.ID] = subject.Name
	}

	stats.RecentNotes, err = s.recentNotes(ctx, notes, subjectNames)
	if err != nil {
		return nil, err
	}

	stats.SubjectBreakdown, err = s.subjectBreakdown(ctx, subjects)
	if err != nil {
		return nil, err
	}

	stats.TopTags = topTags(tagCounts)
	stats.UniqueTags = len(tagCounts)

	now := time.Now().UTC()
	activity, err := s.store.GetActivityRange(ctx, userID,
		domain.FormatDay(now.AddDate(0, 0, -(heatmapDays-1))),
		domain.FormatDay(now),
	)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}

	stats.Heatmap = buildHeatmap(activity, now)
	stats.StreakDays, err = s.streak(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// GetActivityLog returns the raw per-day activity history, newest
// first, capped at one year.
func (s *DashboardService) GetActivityLog(ctx context.Context, userID string) (*domain.ActivityLog, error) {
	days, err := s.store.ListActivity(ctx, userID, activityLogLimit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	if days == nil {
		days = []*domain.ActivityDay{}
	}
	return &domain.ActivityLog{
		Activity:  days,
		TotalDays: len(days),
	}, nil
}

// recentNotes builds the dashboard feed from the newest notes, with
// parent names resolved. Orphaned references degrade to "Unknown"
// rather than failing the whole dashboard.
func (s *DashboardService) recentNotes(ctx context.Context, notes []*domain.Note, subjectNames map[string]string) ([]domain.RecentNote, error) {
	recent := make([]domain.RecentNote, 0, recentNotesCount)

	for _, note := range notes {
		if len(recent) == recentNotesCount {
			break
		}

		subjectName, ok := subjectNames[note.SubjectID]
		if !ok {
			subjectName = "Unknown"
		}

		chapterName := "Unknown"
		chapter, err := s.store.GetChapter(ctx, note.ChapterID)
		if err == nil {
			chapterName = chapter.Name
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("get chapter: %w", err)
		}

		plain := textutil.StripMarkup(note.Content)
		recent = append(recent, domain.RecentNote{
			ID:          note.ID,
			Title:       note.Title,
			Snippet:     textutil.Snippet(plain, noteSnippetLen),
			Tags:        note.Tags,
			Modified:    note.Modified,
			UpdatedAt:   note.UpdatedAt.Format(time.RFC3339),
			SubjectID:   note.SubjectID,
			SubjectName: subjectName,
			ChapterID:   note.ChapterID,
			ChapterName: chapterName,
		})
	}

	return recent, nil
}

// subjectBreakdown annotates every subject with live counts, sorted
// alphabetically.
func (s *DashboardService) subjectBreakdown(ctx context.Context, subjects []*domain.Subject) ([]*domain.SubjectWithCounts, error) {
	breakdown := make([]*domain.SubjectWithCounts, 0, len(subjects))
	for _, subject := range subjects {
		chapterCount, err := s.store.CountChaptersBySubject(ctx, subject.ID)
		if err != nil {
			return nil, fmt.Errorf("count chapters: %w", err)
		}
		noteCount, err := s.store.CountNotesBySubject(ctx, subject.ID)
		if err != nil {
			return nil, fmt.Errorf("count notes: %w", err)
		}
		breakdown = append(breakdown, &domain.SubjectWithCounts{
			Subject:      *subject,
			ChapterCount: chapterCount,
			NoteCount:    noteCount,
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return strings.ToLower(breakdown[i].Name) < strings.ToLower(breakdown[j].Name)
	})
	return breakdown, nil
}

// topTags returns the most used tags, count descending with
// alphabetical tie-break.
func topTags(tagCounts map[string]int) []domain.TagCount {
	tags := make([]domain.TagCount, 0, len(tagCounts))
	for tag, count := range tagCounts {
		tags = append(tags, domain.TagCount{Tag: tag, Count: count})
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})

	if len(tags) > topTagsCount {
		tags = tags[:topTagsCount]
	}
	return tags
}

// buildHeatmap fills the trailing window day by day, zeros included,
// oldest first.
func buildHeatmap(activity map[string]int, now time.Time) []domain.HeatmapEntry {
	heatmap := make([]domain.HeatmapEntry, 0, heatmapDays)
	for i := heatmapDays - 1; i >= 0; i-- {
		date := domain.FormatDay(now.AddDate(0, 0, -i))
		heatmap = append(heatmap, domain.HeatmapEntry{
			Date:  date,
			Count: activity[date],
		})
	}
	return heatmap
}

// streak counts consecutive active days ending today. A day with no
// activity so far today yields 0.
func (s *DashboardService) streak(ctx context.Context, userID string, now time.Time) (int, error) {
	days, err := s.store.ListActivity(ctx, userID, activityLogLimit)
	if err != nil {
		return 0, fmt.Errorf("list activity: %w", err)
	}

	active := make(map[string]bool, len(days))
	for _, day := range days {
		if day.Count > 0 {
			active[day.Date] = true
		}
	}

	streak := 0
	for cursor := now; active[domain.FormatDay(cursor)]; cursor = cursor.AddDate(0, 0, -1) {
		streak++
	}
	return streak, nil
}
