package models

import "time"

// Creation modes
const (
	CreationModeTransaction  = "transaction"
	CreationModeCompensating = "compensating"
)

// Versus limits
const (
	MaxPlayers         = 12
	MaxObjectives      = 12
	MaxPointsMagnitude = 999999
)

// Request types

type RegisterPlayerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type VersusConfig struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	ReverseRanking bool   `json:"reverse_ranking"`
}

// PlayerInput references a player by id or by email.
type PlayerInput struct {
	PlayerID       string  `json:"player_id,omitempty"`
	Email          string  `json:"email,omitempty"`
	IsCommissioner bool    `json:"is_commissioner"`
	Nickname       *string `json:"nickname,omitempty"`
}

// ObjectiveInput carries an optional ID; edits use it to update in place.
type ObjectiveInput struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Points      int     `json:"points"`
	Description *string `json:"description,omitempty"`
}

type CreateVersusRequest struct {
	VersusConfig
	Players    []PlayerInput    `json:"players"`
	Objectives []ObjectiveInput `json:"objectives"`
}

type UpdatePlayersRequest struct {
	Players []PlayerInput `json:"players"`
}

type UpdateObjectivesRequest struct {
	Objectives []ObjectiveInput `json:"objectives"`
}

type RecordCompletionRequest struct {
	ObjectiveID string `json:"objective_id"`
}

// Response types

type RegisterPlayerResponse struct {
	Player Player `json:"player"`
}

type CreateVersusResponse struct {
	VersusID string `json:"versus_id"`
	Slug     string `json:"slug"`
}

type RecordCompletionResponse struct {
	CompletionID string `json:"completion_id"`
}

type ListVersusResponse struct {
	Versus []VersusSummary `json:"versus"`
}

type HistoryResponse struct {
	VersusID string         `json:"versus_id"`
	PlayerID string         `json:"player_id"`
	History  []HistoryEntry `json:"history"`
}

// Domain types

type Player struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type Versus struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Slug           string    `json:"slug"`
	ReverseRanking bool      `json:"reverse_ranking"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type VersusPlayer struct {
	VersusID       string    `json:"versus_id"`
	PlayerID       string    `json:"player_id"`
	IsCommissioner bool      `json:"is_commissioner"`
	Nickname       *string   `json:"nickname,omitempty"`
	JoinedAt       time.Time `json:"joined_at"`
}

// Member is a membership joined with the player's profile.
type Member struct {
	VersusPlayer
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Name returns the nickname override when set, else the display name.
func (m Member) Name() string {
	if m.Nickname != nil && *m.Nickname != "" {
		return *m.Nickname
	}
	return m.DisplayName
}

type Objective struct {
	ID          string    `json:"id"`
	VersusID    string    `json:"versus_id"`
	Title       string    `json:"title"`
	Points      int       `json:"points"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Completion struct {
	ID          string    `json:"id"`
	VersusID    string    `json:"versus_id"`
	PlayerID    string    `json:"player_id"`
	ObjectiveID string    `json:"objective_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type VersusDetail struct {
	Versus     Versus      `json:"versus"`
	Members    []Member    `json:"members"`
	Objectives []Objective `json:"objectives"`
}

type VersusSummary struct {
	Versus         Versus `json:"versus"`
	IsCommissioner bool   `json:"is_commissioner"`
	PlayerCount    int    `json:"player_count"`
}

// Scoring types

type ScoreEntry struct {
	PlayerID       string `json:"player_id"`
	DisplayName    string `json:"display_name"`
	IsCommissioner bool   `json:"is_commissioner"`
	Score          int64  `json:"score"`
	Completions    int    `json:"completions"`
	Rank           int    `json:"rank"` // competition ranking, ties share a rank
}

type Scoreboard struct {
	VersusID       string       `json:"versus_id"`
	ReverseRanking bool         `json:"reverse_ranking"`
	Entries        []ScoreEntry `json:"entries"`
	TotalPlayers   int          `json:"total_players"`
}

type HistoryEntry struct {
	CompletionID   string    `json:"completion_id"`
	ObjectiveID    string    `json:"objective_id"`
	ObjectiveTitle string    `json:"objective_title"`
	Points         int       `json:"points"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
