// Package loader populates the persisted store from a Unimod feed stream.
package loader

import (
	"io"
	"strings"

	uerrors "unimoddb/internal/errors"
	"unimoddb/internal/feed"
	"unimoddb/internal/logging"
	"unimoddb/internal/storage"
)

// Loader performs the one-time transformation of the XML feed into the
// relational store. It runs at most once per store lifetime; the store's
// initialized-check, not the Loader, enforces that.
type Loader struct {
	db     *storage.DB
	repo   *storage.ModificationRepository
	logger *logging.Logger
}

// New creates a loader over db
func New(db *storage.DB, logger *logging.Logger) *Loader {
	return &Loader{
		db:     db,
		repo:   storage.NewModificationRepository(db),
		logger: logger,
	}
}

// Populate creates the schema and inserts one mods row plus zero or more
// mod_sites rows per feed record, committing once after the stream is
// exhausted.
//
// A malformed record aborts the load. Rows inserted up to that point are
// still flushed, matching the flush-on-teardown contract, so the store is
// left partially built; the caller must treat the error as fatal and discard
// the location before retrying.
func (l *Loader) Populate(r *feed.Reader) error {
	if err := l.db.CreateSchema(); err != nil {
		return uerrors.Wrap(uerrors.StorageError, "failed to create store schema", err)
	}

	tx, err := l.db.BeginTx()
	if err != nil {
		return uerrors.Wrap(uerrors.StorageError, "failed to begin load transaction", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Commit()
		}
	}()

	records := 0
	sites := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		mod := &storage.Modification{
			ModID:    rec.ID,
			Name:     rec.Name,
			FullName: strings.ToLower(rec.FullName),
			MonoMass: rec.MonoMass,
			AvgMass:  rec.AvgMass,
			// Stored raw; parsed on demand by the composition parser
			Composition: rec.Composition,
		}
		if err := l.repo.InsertTx(tx, mod); err != nil {
			return uerrors.Wrap(uerrors.StorageError, "failed to store modification", err)
		}

		for _, s := range rec.Sites {
			site := &storage.ModificationSite{
				ModID:          rec.ID,
				Site:           s.Site,
				Classification: s.Classification,
			}
			if err := l.repo.InsertSiteTx(tx, site); err != nil {
				return uerrors.Wrap(uerrors.StorageError, "failed to store modification site", err)
			}
			sites++
		}
		records++
	}

	if err := tx.Commit(); err != nil {
		return uerrors.Wrap(uerrors.StorageError, "failed to commit load", err)
	}
	committed = true

	l.logger.Info("Unimod feed loaded", logging.Fields{
		"records":  records,
		"sites":    sites,
		"location": l.db.Location(),
	})

	return nil
}
