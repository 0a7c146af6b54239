package snapshot

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/temminks/fantastic-umbrella/internal/catalog"
	"github.com/temminks/fantastic-umbrella/internal/source"
	"github.com/temminks/fantastic-umbrella/pkg/errors"
)

// header is the snapshot column set. Keep the order stable; downstream
// spreadsheets rely on it.
var header = []string{
	"title",
	"link",
	"rating",
	"num_ratings",
	"language",
	"duration",
	"topic_0",
	"topic_1",
	"topic_2",
	"expiring",
	"instructor",
}

// instructorSeparator joins the instructor set into one CSV cell
const instructorSeparator = "; "

var snapshotNameRegex = regexp.MustCompile(`^courses-\d{4}-\d{2}-\d{2}\.csv$`)

// Store reads and writes dated snapshot files in one directory. A run reads
// the most recent file and writes a fresh one; nothing is mutated in place.
type Store struct {
	Dir string
}

// NewStore creates a snapshot store over the given directory
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Filename returns the snapshot file name for a day
func Filename(day time.Time) string {
	return "courses-" + day.Format("2006-01-02") + ".csv"
}

// Latest returns the path of the most recent snapshot, or "" when the
// directory holds none. The dated naming scheme makes lexicographic order
// chronological, so no file metadata is consulted.
func (s *Store) Latest() (string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.NewSnapshot("failed to list snapshot directory", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && snapshotNameRegex.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}

	sort.Strings(names)
	return filepath.Join(s.Dir, names[len(names)-1]), nil
}

// Links extracts the link column of a snapshot file as a set
func (s *Store) Links(path string) (source.CourseSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSnapshot("failed to open snapshot", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.NewSnapshot("failed to read snapshot", err)
	}

	links := source.NewCourseSet()
	if len(rows) == 0 {
		return links, nil
	}

	linkColumn := -1
	for i, name := range rows[0] {
		if name == "link" {
			linkColumn = i
			break
		}
	}
	if linkColumn < 0 {
		return nil, errors.NewSnapshot("snapshot has no link column: "+path, nil)
	}

	for _, row := range rows[1:] {
		if linkColumn < len(row) && row[linkColumn] != "" {
			links.Add(row[linkColumn])
		}
	}
	return links, nil
}

// LatestLinks returns the link set of the most recent snapshot, or an empty
// set on the first ever run
func (s *Store) LatestLinks() (source.CourseSet, error) {
	path, err := s.Latest()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return source.NewCourseSet(), nil
	}
	return s.Links(path)
}

// MergeWithLatest unions today's candidates with the links persisted by the
// previous run. Offers that are still valid get re-validated by the enricher
// instead of silently dropping out after one day.
func (s *Store) MergeWithLatest(candidates source.CourseSet) (source.CourseSet, error) {
	previous, err := s.LatestLinks()
	if err != nil {
		return nil, err
	}
	return source.Union(candidates, previous), nil
}

// Write persists the record list as the snapshot for the given day and
// returns its path. The file is a fresh artifact; earlier snapshots are
// never touched.
func (s *Store) Write(day time.Time, records []catalog.Record) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.NewSnapshot("failed to create snapshot directory", err)
	}

	path := filepath.Join(s.Dir, Filename(day))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.NewSnapshot("failed to create snapshot file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", errors.NewSnapshot("failed to write snapshot header", err)
	}
	for _, record := range records {
		if err := w.Write(toRow(record)); err != nil {
			return "", errors.NewSnapshot("failed to write snapshot row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.NewSnapshot("failed to flush snapshot", err)
	}
	return path, nil
}

// toRow serializes one record in header order
func toRow(record catalog.Record) []string {
	return []string{
		record.Title,
		record.Link,
		strconv.FormatFloat(record.Rating, 'f', -1, 64),
		strconv.Itoa(record.NumRatings),
		record.Language,
		record.Duration,
		record.Topic0,
		record.Topic1,
		record.Topic2,
		strconv.Itoa(record.Expiring),
		strings.Join(record.Instructors, instructorSeparator),
	}
}
