// Package unimoddb provides read access to the Unimod database of protein
// modifications.
//
// On first construction against a fresh cache location the Unimod XML feed
// is parsed once into a relational SQLite cache; subsequent constructions
// against the same durable location reuse the cache and skip the feed
// entirely. All lookups run against the cache and memoize their results per
// instance.
package unimoddb

import (
	"strings"

	"unimoddb/internal/composition"
	"unimoddb/internal/config"
	uerrors "unimoddb/internal/errors"
	"unimoddb/internal/feed"
	"unimoddb/internal/loader"
	"unimoddb/internal/logging"
	"unimoddb/internal/storage"
)

// MassType selects between the monoisotopic and average mass deltas
type MassType = storage.MassType

const (
	// MassMono selects the monoisotopic mass delta
	MassMono = storage.MassMono
	// MassAvg selects the average mass delta
	MassAvg = storage.MassAvg
)

// DefaultTolerance is the default mass window half-width for GetName
const DefaultTolerance = 0.001

// PTMClassification is the site classification selected by GetPTMs
const PTMClassification = "Post-translational"

// ModKey identifies one (name, mass) entry in a bulk extraction
type ModKey struct {
	Name string
	Mass float64
}

// ModSiteMap maps each (name, mass) pair to its modifiable sites, in the
// order the sites were encountered
type ModSiteMap map[ModKey][]string

// Options configures a DB
type Options struct {
	// FeedPath is the Unimod XML feed, read only when CachePath holds no
	// populated cache. Empty means "unimod.xml" in the working directory.
	// A ".gz" suffix is decompressed transparently.
	FeedPath string

	// CachePath is the durable SQLite cache location. Empty means an
	// in-memory cache rebuilt from the feed on every construction.
	CachePath string

	// Logger receives structured progress and timing logs. Nil discards.
	Logger *logging.Logger
}

// DB is the Unimod lookup engine
type DB struct {
	store  *storage.DB
	repo   *storage.ModificationRepository
	logger *logging.Logger
	memo   *memoCache

	// set when this instance ran the feed loader itself
	loadedFromFeed bool
}

// New opens (or creates) the persisted cache and, when it is uninitialized,
// populates it from the feed exactly once. Callers own the returned DB and
// must Close it; Close flushes and releases the store handle.
func New(opts Options) (*DB, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NewDiscard()
	}

	store, err := storage.Open(opts.CachePath, log)
	if err != nil {
		return nil, uerrors.Wrap(uerrors.StorageError, "failed to open cache", err)
	}

	d := &DB{
		store:  store,
		repo:   storage.NewModificationRepository(store),
		logger: log,
		memo:   newMemoCache(),
	}

	initialized, err := store.Initialized()
	if err != nil {
		store.Close()
		return nil, uerrors.Wrap(uerrors.StorageError, "failed to probe cache", err)
	}

	if initialized {
		log.Debug("Reusing populated cache", logging.Fields{
			"location": store.Location(),
		})
		return d, nil
	}

	feedPath := opts.FeedPath
	if feedPath == "" {
		feedPath = config.DefaultFeedName
	}

	r, err := feed.Open(feedPath)
	if err != nil {
		store.Close()
		return nil, err
	}
	defer r.Close()

	if err := loader.New(store, log).Populate(r); err != nil {
		store.Close()
		return nil, err
	}
	d.loadedFromFeed = true

	return d, nil
}

// NewFromConfig constructs a DB from a loaded configuration
func NewFromConfig(cfg *config.Config, log *logging.Logger) (*DB, error) {
	return New(Options{
		FeedPath:  cfg.FeedPath,
		CachePath: cfg.CachePath,
		Logger:    log,
	})
}

// Close flushes outstanding writes and releases the store handle
func (d *DB) Close() error {
	return d.store.Close()
}

// LoadedFromFeed reports whether this instance ran the feed loader during
// construction, as opposed to reusing an already-populated cache
func (d *DB) LoadedFromFeed() bool {
	return d.loadedFromFeed
}

// resolveByName retrieves a modification by exact short name, falling back
// to an exact case-insensitive match on the full name. Ambiguity resolves to
// the first row in storage order.
func (d *DB) resolveByName(name string) (*storage.Modification, error) {
	mod, err := d.repo.GetByName(name)
	if err != nil {
		return nil, uerrors.Wrap(uerrors.StorageError, "name lookup failed", err)
	}
	if mod != nil {
		return mod, nil
	}

	mod, err = d.repo.GetByFullName(strings.ToLower(name))
	if err != nil {
		return nil, uerrors.Wrap(uerrors.StorageError, "full name lookup failed", err)
	}
	if mod != nil {
		return mod, nil
	}

	return nil, uerrors.Newf(uerrors.ModNotFound, "no modification %s found in Unimod", name)
}

// GetMass retrieves the mass delta of the named modification. massType is
// MassMono or MassAvg; anything else fails with an invalid-mass-type error
// regardless of whether the name exists.
func (d *DB) GetMass(name string, massType MassType) (float64, error) {
	if err := checkMassType(massType); err != nil {
		return 0, err
	}

	key := memoKey("mass", name, massType)
	if v, ok := d.memo.get(key); ok {
		return v.(float64), nil
	}

	mod, err := d.resolveByName(name)
	if err != nil {
		return 0, err
	}

	mass := mod.Mass(massType)
	d.memo.set(key, mass)
	return mass, nil
}

// GetByID retrieves the name and mass delta of the modification with the
// given Unimod identifier
func (d *DB) GetByID(ptmID int, massType MassType) (string, float64, error) {
	if err := checkMassType(massType); err != nil {
		return "", 0, err
	}

	key := memoKey("id", ptmID, massType)
	if v, ok := d.memo.get(key); ok {
		e := v.(idResult)
		return e.name, e.mass, nil
	}

	mod, err := d.repo.GetByID(ptmID)
	if err != nil {
		return "", 0, uerrors.Wrap(uerrors.StorageError, "id lookup failed", err)
	}
	if mod == nil {
		return "", 0, uerrors.Newf(uerrors.ModNotFound, "no modification with ID %d found in Unimod", ptmID)
	}

	res := idResult{name: mod.Name, mass: mod.Mass(massType)}
	d.memo.set(key, res)
	return res.name, res.mass, nil
}

type idResult struct {
	name string
	mass float64
}

// GetFormula retrieves the elemental composition of the named modification
// as a mapping from element symbol to signed count
func (d *DB) GetFormula(name string) (map[string]int, error) {
	key := memoKey("formula", name)
	if v, ok := d.memo.get(key); ok {
		return copyFormula(v.(map[string]int)), nil
	}

	mod, err := d.resolveByName(name)
	if err != nil {
		return nil, err
	}

	formula := composition.Parse(mod.Composition)
	d.memo.set(key, formula)
	return copyFormula(formula), nil
}

// GetName retrieves the name of the first modification, in storage order,
// whose mass delta lies within [mass-tol, mass+tol] inclusive. When several
// modifications fall inside the window the choice among them is not defined.
func (d *DB) GetName(mass float64, massType MassType, tol float64) (string, error) {
	if err := checkMassType(massType); err != nil {
		return "", err
	}

	key := memoKey("name", mass, massType, tol)
	if v, ok := d.memo.get(key); ok {
		return v.(string), nil
	}

	mod, err := d.repo.FirstInMassRange(massType, mass-tol, mass+tol)
	if err != nil {
		return "", uerrors.Wrap(uerrors.StorageError, "mass lookup failed", err)
	}
	if mod == nil {
		return "", uerrors.Newf(uerrors.ModNotFound, "no modification found with mass within %v of %v", tol, mass)
	}

	d.memo.set(key, mod.Name)
	return mod.Name, nil
}

// GetMods extracts all modification entries joined with their sites. When
// filterClass is non-empty only sites whose classification equals it exactly
// (case-sensitive) are included. Each call returns a fresh mapping; an empty
// result is not an error.
func (d *DB) GetMods(massType MassType, filterClass string) (ModSiteMap, error) {
	if err := checkMassType(massType); err != nil {
		return nil, err
	}

	rows, err := d.repo.ListSites(massType, filterClass)
	if err != nil {
		return nil, uerrors.Wrap(uerrors.StorageError, "site extraction failed", err)
	}

	mods := make(ModSiteMap)
	for _, row := range rows {
		k := ModKey{Name: row.Name, Mass: row.Mass}
		mods[k] = append(mods[k], row.Site)
	}
	return mods, nil
}

// GetPTMs extracts the modifications classified as post-translational
func (d *DB) GetPTMs(massType MassType) (ModSiteMap, error) {
	return d.GetMods(massType, PTMClassification)
}

// IsNotFound reports whether err is a zero-match lookup failure
func IsNotFound(err error) bool {
	return uerrors.IsCode(err, uerrors.ModNotFound)
}

// IsInvalidMassType reports whether err is an unrecognized mass type failure
func IsInvalidMassType(err error) bool {
	return uerrors.IsCode(err, uerrors.InvalidMassType)
}

// IsMalformedFeed reports whether err is a fatal feed-parse failure
func IsMalformedFeed(err error) bool {
	return uerrors.IsCode(err, uerrors.MalformedFeed)
}

func checkMassType(mt MassType) error {
	if _, ok := mt.Column(); !ok {
		return uerrors.Newf(uerrors.InvalidMassType,
			"%s is not a valid mass type; options are mono or avg", mt)
	}
	return nil
}

func copyFormula(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
