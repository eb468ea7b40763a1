package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"predtrack/models"
)

// yearID matches ids of year-partitioned records, e.g. "2025-rates-cut".
var yearID = regexp.MustCompile(`^(\d{4})-(.+)$`)

// yearDir matches the one level of partition directories List descends into.
var yearDir = regexp.MustCompile(`^\d{4}$`)

// Store reads and writes prediction records under a root directory. Two
// physical layouts coexist: canonical year-partitioned files ("2025/slug.md",
// id "2025-slug") and legacy flat files ("slug.md", id "slug"). Migrate moves
// the latter into the former; Find keeps probing both so old links resolve.
type Store struct {
	root   string
	logger zerolog.Logger
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{
		root:   dir,
		logger: log.With().Str("component", "record_store").Logger(),
	}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Find resolves an id to a file path: flat layout first, then the
// year-partitioned path derived from the id's year prefix.
func (s *Store) Find(id string) (string, error) {
	flat := filepath.Join(s.root, id+".md")
	if fileExists(flat) {
		return flat, nil
	}
	if m := yearID.FindStringSubmatch(id); m != nil {
		partitioned := filepath.Join(s.root, m[1], m[2]+".md")
		if fileExists(partitioned) {
			return partitioned, nil
		}
	}
	// Compatibility shim: flat ids that were migrated into a year directory
	// keep resolving until old links die out.
	matches, _ := filepath.Glob(filepath.Join(s.root, "[0-9][0-9][0-9][0-9]", id+".md"))
	if len(matches) > 0 {
		sort.Strings(matches)
		return matches[0], nil
	}
	return "", fmt.Errorf("%s: %w", id, models.ErrNotFound)
}

// Load reads and parses the record with the given id.
func (s *Store) Load(id string) (*models.Record, error) {
	path, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rec, err := parseRecord(path, data)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	return rec, nil
}

// Save writes the record back to the path it was loaded from (or assigned by
// Create). Last write wins; concurrent editors are an accepted risk.
func (s *Store) Save(rec *models.Record) error {
	if rec.Path == "" {
		return fmt.Errorf("record %s has no path", rec.ID)
	}
	data, err := serializeRecord(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(rec.Path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", rec.Path, err)
	}
	return nil
}

// Create places a new record in the canonical layout: a directory named for
// its creation year, id "<year>-<slug>". The slug must not collide with an
// existing record in either layout.
func (s *Store) Create(rec *models.Record, slug string) error {
	if !models.ValidDate(rec.Created) {
		return fmt.Errorf("created date %q is not %s", rec.Created, models.DateFormat)
	}
	if err := models.ValidateConfidence(rec.Confidence); err != nil {
		return err
	}
	year := rec.Created[:4]
	id := year + "-" + slug
	if _, err := s.Find(id); err == nil {
		return fmt.Errorf("record %s already exists", id)
	}
	if _, err := s.Find(slug); err == nil {
		return fmt.Errorf("record %s already exists in the flat layout", slug)
	}

	dir := filepath.Join(s.root, year)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	rec.ID = id
	rec.Path = filepath.Join(dir, slug+".md")
	return s.Save(rec)
}

// List walks the root plus one level of year subdirectories and returns every
// parseable record, sorted by creation date then id. Non-record files are
// skipped silently; malformed records are logged and skipped so one bad file
// never poisons an aggregate view.
func (s *Store) List() ([]*models.Record, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.root, err)
	}

	var records []*models.Record
	for _, e := range entries {
		if e.IsDir() {
			if !yearDir.MatchString(e.Name()) {
				continue
			}
			subEntries, err := os.ReadDir(filepath.Join(s.root, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", filepath.Join(s.root, e.Name()), err)
			}
			for _, sub := range subEntries {
				if sub.IsDir() || !isRecordFile(sub.Name()) {
					continue
				}
				id := e.Name() + "-" + strings.TrimSuffix(sub.Name(), ".md")
				if rec := s.loadForList(id, filepath.Join(s.root, e.Name(), sub.Name())); rec != nil {
					records = append(records, rec)
				}
			}
			continue
		}
		if !isRecordFile(e.Name()) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".md")
		if rec := s.loadForList(id, filepath.Join(s.root, e.Name())); rec != nil {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Created != records[j].Created {
			return records[i].Created < records[j].Created
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Migrate moves flat-layout records into their creation-year directory and
// reports how many moved. Records whose created date is unusable, or whose
// target already exists, stay where they are.
func (s *Store) Migrate() (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", s.root, err)
	}

	moved := 0
	for _, e := range entries {
		if e.IsDir() || !isRecordFile(e.Name()) {
			continue
		}
		path := filepath.Join(s.root, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return moved, fmt.Errorf("reading %s: %w", path, err)
		}
		rec, err := parseRecord(path, data)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Skipping unparseable record")
			continue
		}
		if !models.ValidDate(rec.Created) {
			s.logger.Warn().Str("path", path).Str("created", rec.Created).Msg("Skipping record without usable created date")
			continue
		}

		year := rec.Created[:4]
		target := filepath.Join(s.root, year, e.Name())
		if fileExists(target) {
			s.logger.Warn().Str("path", path).Str("target", target).Msg("Target exists, leaving record in place")
			continue
		}
		if err := os.MkdirAll(filepath.Join(s.root, year), 0755); err != nil {
			return moved, fmt.Errorf("creating %s: %w", filepath.Join(s.root, year), err)
		}
		if err := os.Rename(path, target); err != nil {
			return moved, fmt.Errorf("moving %s: %w", path, err)
		}
		s.logger.Info().Str("id", strings.TrimSuffix(e.Name(), ".md")).Str("target", target).Msg("Migrated record")
		moved++
	}
	return moved, nil
}

func (s *Store) loadForList(id, path string) *models.Record {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable record")
		return nil
	}
	rec, err := parseRecord(path, data)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Skipping malformed record")
		return nil
	}
	rec.ID = id
	return rec
}

func isRecordFile(name string) bool {
	if filepath.Ext(name) != ".md" {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	return !strings.EqualFold(name, "README.md")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
