package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/notevault/notevault-server/internal/config"
	"github.com/notevault/notevault-server/internal/logger"
	"github.com/notevault/notevault-server/internal/search"
	"github.com/notevault/notevault-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.NoteIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewNoteIndex(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{NoteIndex: index}, nil
}

// ProvideSearchService provides the search service and wires the store
// to keep the index in sync with note writes.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	storeHandle.SetSearchIndexer(service.NewSearchSync(indexHandle.NoteIndex, log.Logger))

	return service.NewSearchService(storeHandle.Store, indexHandle.NoteIndex, log.Logger), nil
}

// TriggerSearchReindexIfNeeded repopulates an empty index from the store.
// An empty index with existing notes means it was just rebuilt (mapping
// change or corruption). Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	notes, err := storeHandle.ListAllNotes(ctx)
	if err != nil || len(notes) == 0 {
		return
	}

	log.Info("Search index is empty but notes exist, triggering initial reindex",
		"note_count", len(notes),
	)

	go func() {
		sync := service.NewSearchSync(indexHandle.NoteIndex, log.Logger)
		if err := sync.RebuildFromNotes(notes); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		} else {
			count, _ := indexHandle.DocumentCount()
			log.Info("Initial search reindex completed", "documents", count)
		}
	}()
}
