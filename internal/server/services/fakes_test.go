package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/dbx"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/passages"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/readings"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/settings"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/users"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/versions"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- versions ---

type memVersions struct {
	mu     sync.Mutex
	rows   []*models.Version
	nextID int64

	creates int
	findErr error

	// raceCode simulates another writer inserting the code between
	// FindByCode and Create.
	raceCode string
}

func (r *memVersions) FindByCode(_ context.Context, code string) (*models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, v := range r.rows {
		if v.Code == code {
			c := *v
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memVersions) FindByID(_ context.Context, id int64) (*models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.rows {
		if v.ID == id {
			c := *v
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memVersions) Create(_ context.Context, v *models.Version) (*models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if v.Code == r.raceCode {
		r.raceCode = ""
		r.insert(v.Code, "inserted elsewhere")
		return nil, common.ErrAlreadyExists
	}
	for _, row := range r.rows {
		if row.Code == v.Code {
			return nil, common.ErrAlreadyExists
		}
	}
	row := r.insert(v.Code, v.Title)
	c := *row
	return &c, nil
}

func (r *memVersions) insert(code, title string) *models.Version {
	r.nextID++
	row := &models.Version{ID: r.nextID, Code: code, Title: title}
	r.rows = append(r.rows, row)
	return row
}

func (r *memVersions) seed(id int64, code, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, &models.Version{ID: id, Code: code, Title: title})
	if id > r.nextID {
		r.nextID = id
	}
}

// --- settings ---

type memSettings struct {
	values map[string]string
	err    error
}

func (s *memSettings) Get(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	v, ok := s.values[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

// --- readings ---

type memReadings struct {
	rows []*models.Reading
}

func (r *memReadings) FindByID(_ context.Context, id int64) (*models.Reading, error) {
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memReadings) FindByDate(_ context.Context, date time.Time) (*models.Reading, error) {
	for _, row := range r.rows {
		if row.Date.Format(time.DateOnly) == date.Format(time.DateOnly) {
			return row, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- passages ---

type passageKey struct{ reading, version int64 }

type memPassages struct {
	mu        sync.Mutex
	rows      map[passageKey]string
	inserts   int
	dupes     int
	findErr   error
	createErr error
}

func newMemPassages() *memPassages {
	return &memPassages{rows: map[passageKey]string{}}
}

func (p *memPassages) Find(_ context.Context, readingID, versionID int64) (*models.Passage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.findErr != nil {
		return nil, p.findErr
	}
	content, ok := p.rows[passageKey{readingID, versionID}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Passage{ReadingID: readingID, VersionID: versionID, Content: content}, nil
}

func (p *memPassages) Create(_ context.Context, passage *models.Passage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return p.createErr
	}
	k := passageKey{passage.ReadingID, passage.VersionID}
	if _, ok := p.rows[k]; ok {
		p.dupes++
		return common.ErrAlreadyExists
	}
	p.rows[k] = passage.Content
	p.inserts++
	return nil
}

// --- users ---

type memUsers struct {
	mu        sync.Mutex
	preferred map[string]int64
	getErr    error
}

func (u *memUsers) GetPreferredVersionID(_ context.Context, userID string) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.getErr != nil {
		return 0, u.getErr
	}
	id, ok := u.preferred[userID]
	if !ok {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

func (u *memUsers) SetPreferredVersion(_ context.Context, userID string, versionID int64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.preferred[userID]; !ok {
		return common.ErrorNotFound
	}
	u.preferred[userID] = versionID
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	versions *memVersions
	settings *memSettings
	readings *memReadings
	passages *memPassages
	users    *memUsers
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		versions: &memVersions{},
		settings: &memSettings{values: map[string]string{}},
		readings: &memReadings{},
		passages: newMemPassages(),
		users:    &memUsers{preferred: map[string]int64{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Versions(dbx.DBTX) versions.Repository        { return m.versions }
func (m *fakeRepoManager) Settings(dbx.DBTX) settings.Repository        { return m.settings }
func (m *fakeRepoManager) Readings(dbx.DBTX) readings.Repository        { return m.readings }
func (m *fakeRepoManager) Passages(dbx.DBTX) passages.Repository        { return m.passages }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }

// --- notifier ---

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) Warn(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return n.err
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
