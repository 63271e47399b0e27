package espn

type scoreboardEnvelope struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string                  `json:"id"`
	Date         string                  `json:"date"`
	Week         scoreboardWeek          `json:"week"`
	Season       scoreboardSeason        `json:"season"`
	Competitions []scoreboardCompetition `json:"competitions"`
}

type scoreboardWeek struct {
	Number int `json:"number"`
}

type scoreboardSeason struct {
	Year int `json:"year"`
	Type int `json:"type"`
}

type scoreboardCompetition struct {
	ID          string                 `json:"id"`
	Date        string                 `json:"date"`
	Competitors []scoreboardCompetitor `json:"competitors"`
	Status      scoreboardEventStatus  `json:"status"`
}

type scoreboardCompetitor struct {
	HomeAway string         `json:"homeAway"`
	Score    string         `json:"score"`
	Winner   bool           `json:"winner"`
	Team     scoreboardTeam `json:"team"`
}

type scoreboardTeam struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

type scoreboardEventStatus struct {
	Type scoreboardStatusType `json:"type"`
}

type scoreboardStatusType struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}
