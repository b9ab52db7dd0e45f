package storage

import (
	"database/sql"
	"fmt"
)

// Modification represents one row of the mods table
type Modification struct {
	ModID       int
	Name        string
	FullName    string
	MonoMass    float64
	AvgMass     float64
	Composition string
}

// Mass returns the requested mass column of the record
func (m *Modification) Mass(mt MassType) float64 {
	if mt == MassAvg {
		return m.AvgMass
	}
	return m.MonoMass
}

// ModificationSite represents one (site, classification) association of a
// modification. mod_id is a soft reference; the feed is trusted not to emit
// orphans and no constraint checks it.
type ModificationSite struct {
	ModID          int
	Site           string
	Classification string
}

// SiteRow is one row of the mods/mod_sites join used for bulk extraction
type SiteRow struct {
	Name string
	Mass float64
	Site string
}

// MassType selects between the monoisotopic and average mass columns
type MassType string

const (
	// MassMono selects the monoisotopic mass delta
	MassMono MassType = "mono"
	// MassAvg selects the average mass delta
	MassAvg MassType = "avg"
)

// Column maps the mass type to its mods column. The bool is false for an
// unrecognized type; column names cannot be bound parameters, so this closed
// mapping is what keeps the queries below injection-free.
func (mt MassType) Column() (string, bool) {
	switch mt {
	case MassMono:
		return "mono_mass", true
	case MassAvg:
		return "avg_mass", true
	default:
		return "", false
	}
}

// ModificationRepository provides read and load access to the two
// modification tables
type ModificationRepository struct {
	db *DB
}

// NewModificationRepository creates a repository over db
func NewModificationRepository(db *DB) *ModificationRepository {
	return &ModificationRepository{db: db}
}

// InsertTx inserts one modification row within tx
func (r *ModificationRepository) InsertTx(tx *sql.Tx, m *Modification) error {
	_, err := tx.Exec(`
		INSERT INTO mods (mod_id, name, full_name, mono_mass, avg_mass, composition)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ModID, m.Name, m.FullName, m.MonoMass, m.AvgMass, m.Composition)

	if err != nil {
		return fmt.Errorf("failed to insert modification %d: %w", m.ModID, err)
	}
	return nil
}

// InsertSiteTx inserts one modification-site row within tx
func (r *ModificationRepository) InsertSiteTx(tx *sql.Tx, s *ModificationSite) error {
	_, err := tx.Exec(`
		INSERT INTO mod_sites (mod_id, site, classification)
		VALUES (?, ?, ?)
	`, s.ModID, s.Site, s.Classification)

	if err != nil {
		return fmt.Errorf("failed to insert site for modification %d: %w", s.ModID, err)
	}
	return nil
}

// GetByName retrieves the first modification whose name matches exactly.
// Returns nil without error when no row matches.
func (r *ModificationRepository) GetByName(name string) (*Modification, error) {
	return r.getOne("SELECT mod_id, name, full_name, mono_mass, avg_mass, composition FROM mods WHERE name = ?", name)
}

// GetByFullName retrieves the first modification whose stored (lower-cased)
// full name matches exactly. Returns nil without error when no row matches.
func (r *ModificationRepository) GetByFullName(fullName string) (*Modification, error) {
	return r.getOne("SELECT mod_id, name, full_name, mono_mass, avg_mass, composition FROM mods WHERE full_name = ?", fullName)
}

// GetByID retrieves the modification with the given identifier.
// Returns nil without error when no row matches.
func (r *ModificationRepository) GetByID(modID int) (*Modification, error) {
	return r.getOne("SELECT mod_id, name, full_name, mono_mass, avg_mass, composition FROM mods WHERE mod_id = ?", modID)
}

// FirstInMassRange retrieves the first modification, in storage order, whose
// chosen mass column lies within [lo, hi] inclusive. Returns nil without
// error when no row matches.
func (r *ModificationRepository) FirstInMassRange(mt MassType, lo, hi float64) (*Modification, error) {
	col, ok := mt.Column()
	if !ok {
		return nil, fmt.Errorf("unknown mass type %q", mt)
	}

	query := fmt.Sprintf(
		"SELECT mod_id, name, full_name, mono_mass, avg_mass, composition FROM mods WHERE %s BETWEEN ? AND ?",
		col)
	return r.getOne(query, lo, hi)
}

// ListSites retrieves the mods/mod_sites join in storage order, carrying the
// chosen mass column. filterClass, when non-empty, restricts rows to sites
// with exactly that classification.
func (r *ModificationRepository) ListSites(mt MassType, filterClass string) ([]SiteRow, error) {
	col, ok := mt.Column()
	if !ok {
		return nil, fmt.Errorf("unknown mass type %q", mt)
	}

	query := fmt.Sprintf(`
		SELECT name, mods.%s, site FROM mods
		INNER JOIN mod_sites ON mods.mod_id = mod_sites.mod_id
	`, col)

	var (
		rows *sql.Rows
		err  error
	)
	if filterClass != "" {
		rows, err = r.db.Query(query+" WHERE classification = ?", filterClass)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query modification sites: %w", err)
	}
	defer rows.Close()

	var result []SiteRow
	for rows.Next() {
		var row SiteRow
		if err := rows.Scan(&row.Name, &row.Mass, &row.Site); err != nil {
			return nil, fmt.Errorf("failed to scan site row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read site rows: %w", err)
	}

	return result, nil
}

// getOne runs a single-row query without imposing an ORDER BY, so ties
// resolve to the store's natural row order
func (r *ModificationRepository) getOne(query string, args ...interface{}) (*Modification, error) {
	var m Modification
	err := r.db.QueryRow(query+" LIMIT 1", args...).Scan(
		&m.ModID, &m.Name, &m.FullName, &m.MonoMass, &m.AvgMass, &m.Composition)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("modification lookup failed: %w", err)
	}
	return &m, nil
}
