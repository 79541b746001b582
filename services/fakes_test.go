package services

import (
	"fmt"
	"sync"

	"club-management-system/models"
)

// In-memory store fakes. All are safe for concurrent use so the concurrency
// tests exercise the tracker's locking rather than the fakes'.

type memLedger struct {
	mu    sync.Mutex
	clubs map[string]*models.Club
}

func newMemLedger(clubs ...*models.Club) *memLedger {
	l := &memLedger{clubs: make(map[string]*models.Club)}
	for _, c := range clubs {
		cp := *c
		l.clubs[c.ID] = &cp
	}
	return l
}

func (l *memLedger) GetByID(id string) (*models.Club, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clubs[id]
	if !ok {
		return nil, &NotFoundError{Kind: "club", ID: id}
	}
	cp := *c
	return &cp, nil
}

func (l *memLedger) ListAll() ([]models.Club, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Club, 0, len(l.clubs))
	for _, c := range l.clubs {
		out = append(out, *c)
	}
	return out, nil
}

func (l *memLedger) AddPoints(id string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clubs[id]
	if !ok {
		return &NotFoundError{Kind: "club", ID: id}
	}
	c.Points += amount
	return nil
}

func (l *memLedger) points(id string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clubs[id].Points
}

type memCompetitionStore struct {
	mu    sync.Mutex
	items map[string]*models.Competition
	order []string
}

func newMemCompetitionStore() *memCompetitionStore {
	return &memCompetitionStore{items: make(map[string]*models.Competition)}
}

func (s *memCompetitionStore) GetByID(id string) (*models.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, &NotFoundError{Kind: "competition", ID: id}
	}
	cp := *c
	return &cp, nil
}

func (s *memCompetitionStore) ListAll() ([]models.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Competition, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out, nil
}

func (s *memCompetitionStore) ListBySeason(seasonID string) ([]models.Competition, error) {
	all, _ := s.ListAll()
	var out []models.Competition
	for _, c := range all {
		if c.SeasonID == seasonID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memCompetitionStore) ListByStatus(status models.CompetitionStatus) ([]models.Competition, error) {
	all, _ := s.ListAll()
	var out []models.Competition
	for _, c := range all {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memCompetitionStore) Create(c *models.Competition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[c.ID]; exists {
		return fmt.Errorf("competition %s already exists", c.ID)
	}
	cp := *c
	s.items[c.ID] = &cp
	s.order = append(s.order, c.ID)
	return nil
}

func (s *memCompetitionStore) Save(c *models.Competition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[c.ID]; !exists {
		return &NotFoundError{Kind: "competition", ID: c.ID}
	}
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *memCompetitionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		return &NotFoundError{Kind: "competition", ID: id}
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

type memProgressStore struct {
	mu    sync.Mutex
	items map[string]*models.MissionProgress

	// failFor injects a save/create failure for rows of the given club,
	// for the best-effort fan-out tests.
	failFor map[string]error
}

func newMemProgressStore() *memProgressStore {
	return &memProgressStore{
		items:   make(map[string]*models.MissionProgress),
		failFor: make(map[string]error),
	}
}

func (s *memProgressStore) GetByID(id string) (*models.MissionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.items[id]
	if !ok {
		return nil, &NotFoundError{Kind: "mission progress", ID: id}
	}
	cp := *row
	return &cp, nil
}

func (s *memProgressStore) FindByClubAndCompetition(clubID, competitionID string) (*models.MissionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.items {
		if row.ClubID == clubID && row.CompetitionID == competitionID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, &NotFoundError{Kind: "mission progress", ID: clubID + "/" + competitionID}
}

func (s *memProgressStore) ListByClub(clubID string) ([]models.MissionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MissionProgress
	for _, row := range s.items {
		if row.ClubID == clubID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *memProgressStore) ListByCompetition(competitionID string) ([]models.MissionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MissionProgress
	for _, row := range s.items {
		if row.CompetitionID == competitionID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *memProgressStore) Create(row *models.MissionProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[row.ClubID]; err != nil {
		return err
	}
	cp := *row
	s.items[row.ID] = &cp
	return nil
}

func (s *memProgressStore) Save(row *models.MissionProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[row.ClubID]; err != nil {
		return err
	}
	if _, exists := s.items[row.ID]; !exists {
		return &NotFoundError{Kind: "mission progress", ID: row.ID}
	}
	cp := *row
	s.items[row.ID] = &cp
	return nil
}

func (s *memProgressStore) DeleteByCompetition(competitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, row := range s.items {
		if row.CompetitionID == competitionID {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *memProgressStore) DeleteByClub(clubID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, row := range s.items {
		if row.ClubID == clubID {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *memProgressStore) row(clubID, competitionID string) *models.MissionProgress {
	row, err := s.FindByClubAndCompetition(clubID, competitionID)
	if err != nil {
		return nil
	}
	return row
}

func (s *memProgressStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type memSeasonStore struct {
	mu    sync.Mutex
	items map[string]*models.Season
}

func newMemSeasonStore(seasons ...*models.Season) *memSeasonStore {
	s := &memSeasonStore{items: make(map[string]*models.Season)}
	for _, season := range seasons {
		cp := *season
		s.items[season.ID] = &cp
	}
	return s
}

func (s *memSeasonStore) GetByID(id string) (*models.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	season, ok := s.items[id]
	if !ok {
		return nil, &NotFoundError{Kind: "season", ID: id}
	}
	cp := *season
	return &cp, nil
}

func (s *memSeasonStore) ListAll() ([]models.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Season, 0, len(s.items))
	for _, season := range s.items {
		out = append(out, *season)
	}
	return out, nil
}

func (s *memSeasonStore) Create(season *models.Season) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *season
	s.items[season.ID] = &cp
	return nil
}

// recordingListener collects delivered completion events.
type recordingListener struct {
	mu     sync.Mutex
	events []models.MissionProgress

	err      error
	panicMsg string
}

func (l *recordingListener) OnMissionCompleted(progress models.MissionProgress) error {
	if l.panicMsg != "" {
		panic(l.panicMsg)
	}
	l.mu.Lock()
	l.events = append(l.events, progress)
	l.mu.Unlock()
	return l.err
}

func (l *recordingListener) received() []models.MissionProgress {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.MissionProgress, len(l.events))
	copy(out, l.events)
	return out
}
