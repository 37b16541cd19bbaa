package engine

import (
	"os"

	"github.com/lofcz/infidex/internal/persist"
	"github.com/lofcz/infidex/internal/tokenizer"
	"github.com/lofcz/infidex/pkg/config"
)

// Save dumps the engine's document table and term postings to path,
// preceded by a word-matcher presence flag (spec.md §6 "Persisted
// state").
func (e *Engine) Save(path string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	data, err := persist.Dump(e.docs, e.index, e.wm != nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reconstructs an Engine from a dump written by Save. The caller
// supplies the configuration and normalizer the dump was built with.
// When the restored index is marked indexed, the word matcher is rebuilt
// from the restored document table; if the dump's word-matcher presence
// flag is false, a warning is logged through the engine's Logger.
func Load(path string, cfg config.Config, norm *tokenizer.Normalizer, logger Logger) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	e := New(cfg, norm, logger)
	loaded, err := persist.Load(data, e.index)
	if err != nil {
		return nil, err
	}
	e.docs = loaded.Docs

	if e.index.IsIndexed() {
		e.rebuildWordMatcherLocked()
		if !loaded.HasWordMatcher {
			e.logger.Warnf("dump built without a word matcher; rebuilt one from the restored document table")
		}
	}

	return e, nil
}
