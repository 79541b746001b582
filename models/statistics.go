package models

// Read-side aggregate shapes. Computed on demand by the statistics service,
// never stored.

type ClubStatistics struct {
	ClubID             string  `json:"club_id"`
	CompletedMissions  int     `json:"completed_missions"`
	TotalMissions      int     `json:"total_missions"`
	CompletionRate     float64 `json:"completion_rate"`
	Rank               int     `json:"rank"`
	SeasonID           string  `json:"season_id,omitempty"`
	SeasonEarnedPoints int64   `json:"season_earned_points"`
}

type SeasonStatistics struct {
	SeasonID string `json:"season_id"`

	ScheduledCompetitions   int `json:"scheduled_competitions"`
	ActivatedCompetitions   int `json:"activated_competitions"`
	DeactivatedCompetitions int `json:"deactivated_competitions"`

	// TotalPointsDistributed is the reward pool: the sum of PointsReward over
	// every competition in the season, completed or not. TopClubs ranks by
	// points actually earned from completed missions, so the two diverge
	// whenever a competition has no completions.
	TotalPointsDistributed int64              `json:"total_points_distributed"`
	TopClubs               []SeasonClubPoints `json:"top_clubs"`
}

type SeasonClubPoints struct {
	ClubID       string `json:"club_id"`
	ClubName     string `json:"club_name"`
	EarnedPoints int64  `json:"earned_points"`
}

type CompetitionStatistics struct {
	CompetitionID      string              `json:"competition_id"`
	ParticipatingClubs int                 `json:"participating_clubs"`
	CompletedBy        int                 `json:"completed_by"`
	AverageProgress    float64             `json:"average_progress"`
	CompletionRate     float64             `json:"completion_rate"`
	ClubProgress       []ClubProgressEntry `json:"club_progress"`
}

type ClubProgressEntry struct {
	ClubID      string  `json:"club_id"`
	ClubName    string  `json:"club_name"`
	Progress    int64   `json:"progress"`
	GoalValue   int64   `json:"goal_value"`
	Percent     float64 `json:"percent"`
	IsCompleted bool    `json:"is_completed"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	ClubID   string `json:"club_id"`
	ClubName string `json:"club_name"`
	Points   int64  `json:"points"`
}
