package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"club-management-system/models"
)

// StatisticsAggregator is the read side: leaderboards and per-club,
// per-season and per-competition summaries computed from the stores. It has
// no mutation paths.
type StatisticsAggregator struct {
	competitions CompetitionStore
	progress     MissionProgressStore
	ledger       ClubLedger
	seasons      SeasonStore

	// Optional leaderboard cache; nil means every read hits the ledger.
	Cache *LeaderboardCache
}

func NewStatisticsAggregator(competitions CompetitionStore, progress MissionProgressStore, ledger ClubLedger, seasons SeasonStore) *StatisticsAggregator {
	return &StatisticsAggregator{
		competitions: competitions,
		progress:     progress,
		ledger:       ledger,
		seasons:      seasons,
	}
}

// ClubStatistics summarizes one club: mission counts, completion rate,
// current rank, and points earned from completed missions in the current
// season (the season with the latest end date).
func (s *StatisticsAggregator) ClubStatistics(clubID string) (*models.ClubStatistics, error) {
	if _, err := s.ledger.GetByID(clubID); err != nil {
		return nil, err
	}

	rows, err := s.progress.ListByClub(clubID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, row := range rows {
		if row.IsCompleted {
			completed++
		}
	}

	rate := 0.0
	if len(rows) > 0 {
		rate = float64(completed) / float64(len(rows)) * 100
	}

	rank, err := s.ClubRank(clubID)
	if err != nil {
		return nil, err
	}

	stats := &models.ClubStatistics{
		ClubID:            clubID,
		CompletedMissions: completed,
		TotalMissions:     len(rows),
		CompletionRate:    rate,
		Rank:              rank,
	}

	season, err := s.currentSeason()
	if err != nil {
		return nil, err
	}
	if season != nil {
		earned, err := s.earnedInSeason(clubID, season.ID)
		if err != nil {
			return nil, err
		}
		stats.SeasonID = season.ID
		stats.SeasonEarnedPoints = earned
	}
	return stats, nil
}

// currentSeason returns the season with the latest end date, or nil when no
// seasons exist.
func (s *StatisticsAggregator) currentSeason() (*models.Season, error) {
	seasons, err := s.seasons.ListAll()
	if err != nil {
		return nil, err
	}
	var current *models.Season
	for i := range seasons {
		if current == nil || seasons[i].EndDate.After(current.EndDate) {
			current = &seasons[i]
		}
	}
	return current, nil
}

// earnedInSeason sums PointsReward over the club's completed missions within
// one season.
func (s *StatisticsAggregator) earnedInSeason(clubID, seasonID string) (int64, error) {
	competitions, err := s.competitions.ListBySeason(seasonID)
	if err != nil {
		return 0, err
	}

	var earned int64
	for _, c := range competitions {
		row, err := s.progress.FindByClubAndCompetition(clubID, c.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if row.IsCompleted {
			earned += c.PointsReward
		}
	}
	return earned, nil
}

// SeasonStatistics counts the season's competitions by derived status and
// reports the reward pool next to the clubs that actually earned from it.
// TotalPointsDistributed deliberately counts every competition's reward,
// completed or not; TopClubs only counts completed missions.
func (s *StatisticsAggregator) SeasonStatistics(seasonID string, topN int) (*models.SeasonStatistics, error) {
	if _, err := s.seasons.GetByID(seasonID); err != nil {
		return nil, err
	}

	competitions, err := s.competitions.ListBySeason(seasonID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &models.SeasonStatistics{SeasonID: seasonID}
	earnedByClub := make(map[string]int64)

	for i := range competitions {
		c := &competitions[i]
		switch effectiveStatus(c, now) {
		case models.CompetitionScheduled:
			stats.ScheduledCompetitions++
		case models.CompetitionActivated:
			stats.ActivatedCompetitions++
		case models.CompetitionDeactivated:
			stats.DeactivatedCompetitions++
		}
		stats.TotalPointsDistributed += c.PointsReward

		rows, err := s.progress.ListByCompetition(c.ID)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.IsCompleted {
				earnedByClub[row.ClubID] += c.PointsReward
			}
		}
	}

	stats.TopClubs, err = s.topClubs(earnedByClub, topN)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *StatisticsAggregator) topClubs(earnedByClub map[string]int64, topN int) ([]models.SeasonClubPoints, error) {
	if topN <= 0 {
		topN = 10
	}

	top := make([]models.SeasonClubPoints, 0, len(earnedByClub))
	for clubID, earned := range earnedByClub {
		entry := models.SeasonClubPoints{ClubID: clubID, EarnedPoints: earned}
		if club, err := s.ledger.GetByID(clubID); err == nil {
			entry.ClubName = club.Name
		}
		top = append(top, entry)
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].EarnedPoints != top[j].EarnedPoints {
			return top[i].EarnedPoints > top[j].EarnedPoints
		}
		return top[i].ClubID < top[j].ClubID
	})
	if len(top) > topN {
		top = top[:topN]
	}
	return top, nil
}

// CompetitionStatistics reports participation, completion and average
// progress percentage across a competition's clubs.
func (s *StatisticsAggregator) CompetitionStatistics(competitionID string) (*models.CompetitionStatistics, error) {
	competition, err := s.competitions.GetByID(competitionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.progress.ListByCompetition(competitionID)
	if err != nil {
		return nil, err
	}

	stats := &models.CompetitionStatistics{
		CompetitionID:      competitionID,
		ParticipatingClubs: len(rows),
		ClubProgress:       make([]models.ClubProgressEntry, 0, len(rows)),
	}

	var percentSum float64
	for _, row := range rows {
		percent := float64(row.Progress) / float64(competition.GoalValue) * 100
		percentSum += percent
		if row.IsCompleted {
			stats.CompletedBy++
		}

		entry := models.ClubProgressEntry{
			ClubID:      row.ClubID,
			Progress:    row.Progress,
			GoalValue:   competition.GoalValue,
			Percent:     percent,
			IsCompleted: row.IsCompleted,
		}
		if club, err := s.ledger.GetByID(row.ClubID); err == nil {
			entry.ClubName = club.Name
		}
		stats.ClubProgress = append(stats.ClubProgress, entry)
	}

	if len(rows) > 0 {
		stats.AverageProgress = percentSum / float64(len(rows))
		stats.CompletionRate = float64(stats.CompletedBy) / float64(len(rows)) * 100
	}
	return stats, nil
}

// Leaderboard returns the top n clubs by ledger points, descending. Tied
// clubs share a rank. Served from the cache when one is wired and warm.
func (s *StatisticsAggregator) Leaderboard(n int) ([]models.LeaderboardEntry, error) {
	if n <= 0 {
		n = 10
	}

	if s.Cache != nil {
		if entries, ok := s.Cache.Get(context.Background()); ok {
			if len(entries) > n {
				entries = entries[:n]
			}
			return entries, nil
		}
	}

	clubs, err := s.ledger.ListAll()
	if err != nil {
		return nil, err
	}

	sort.Slice(clubs, func(i, j int) bool {
		if clubs[i].Points != clubs[j].Points {
			return clubs[i].Points > clubs[j].Points
		}
		return clubs[i].Name < clubs[j].Name
	})

	entries := make([]models.LeaderboardEntry, 0, len(clubs))
	for i, club := range clubs {
		rank := i + 1
		// Shared rank on ties: same points as the previous club, same rank.
		if i > 0 && club.Points == clubs[i-1].Points {
			rank = entries[i-1].Rank
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:     rank,
			ClubID:   club.ID,
			ClubName: club.Name,
			Points:   club.Points,
		})
	}

	if s.Cache != nil {
		s.Cache.Set(context.Background(), entries)
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// ClubRank is 1 + the number of clubs with strictly more points, so ties
// share a rank.
func (s *StatisticsAggregator) ClubRank(clubID string) (int, error) {
	club, err := s.ledger.GetByID(clubID)
	if err != nil {
		return 0, err
	}

	clubs, err := s.ledger.ListAll()
	if err != nil {
		return 0, err
	}

	rank := 1
	for _, other := range clubs {
		if other.Points > club.Points {
			rank++
		}
	}
	return rank, nil
}
