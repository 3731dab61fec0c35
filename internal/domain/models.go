package domain

// Player is a read-only snapshot of a ranked account. Username is the
// identity key and is compared case-sensitively everywhere.
type Player struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Match is one finished or ongoing 1v1 duel. Winner is nil while the
// match is unfinished.
type Match struct {
	ID          int64   `json:"id"`
	Player1     Player  `json:"player1"`
	Player2     Player  `json:"player2"`
	Finished    bool    `json:"finished"`
	Winner      *Player `json:"winner"`
	Player1Wins int     `json:"player1Wins"`
	Player2Wins int     `json:"player2Wins"`
}

type Card struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Round is one sub-contest of a match. Card slices keep play order and may
// contain the same card several times across rounds.
type Round struct {
	ID          int64  `json:"id"`
	Game        *Match `json:"game,omitempty"`
	RoundNo     int    `json:"roundNo"`
	RoundWinner Player `json:"roundWinner"`
	P1Faction   string `json:"p1Faction"`
	P2Faction   string `json:"p2Faction"`
	P1Character string `json:"p1Character"`
	P2Character string `json:"p2Character"`
	P1Cards     []Card `json:"p1Cards"`
	P2Cards     []Card `json:"p2Cards"`
}

type OverallStats struct {
	Username         string  `json:"username"`
	TotalGames       int     `json:"totalGames"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	WinRate          float64 `json:"winRate"`
	TotalRounds      int     `json:"totalRounds"`
	AvgRoundsPerGame float64 `json:"avgRoundsPerGame"`
	CurrentScore     int     `json:"currentScore"`
}

// CategoryStat is the shared shape of the card/character/faction
// breakdowns. The provider sends these pre-sorted by win rate or usage;
// consumers take prefixes and never re-sort.
type CategoryStat struct {
	Name    string  `json:"name"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Uses    int     `json:"uses"`
	WinRate float64 `json:"winRate"`
}

type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "ongoing"
	}
}

// Perspective frames a match relative to a subject player.
type Perspective struct {
	Self          Player
	Opponent      Player
	IsSelfPlayer1 bool
	Outcome       Outcome

	// Round-win counters reordered so the subject's count comes first.
	SelfWins     int
	OpponentWins int
}

// MatchSummary is the per-side digest of a match's replay: selection from
// the first round, cards deduplicated across all rounds.
type MatchSummary struct {
	Faction   string   `json:"faction"`
	Character string   `json:"character"`
	Cards     []string `json:"cards"`
}

// Tier is the rank label derived from a player's aggregate win rate.
type Tier struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}
