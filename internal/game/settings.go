package game

import "sort"

type GameMode string

const ModeDefault GameMode = "Default"

// Settings are chosen by the host while the room is waiting for players.
// A nil time limit means the phase has no deadline.
type Settings struct {
	Mode                    GameMode        `json:"mode"`
	Rounds                  int             `json:"rounds"`
	DrawingTimeLimitSeconds *int            `json:"drawing_phase_time_limit_seconds"`
	VotingTimeLimitSeconds  *int            `json:"voting_phase_time_limit_seconds"`
	Decks                   map[string]bool `json:"drawing_decks_included"`
}

func DefaultSettings(deckNames []string, rounds int) Settings {
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	if rounds > MaxRounds {
		rounds = MaxRounds
	}
	decks := make(map[string]bool, len(deckNames))
	for _, name := range deckNames {
		decks[name] = true
	}
	return Settings{
		Mode:   ModeDefault,
		Rounds: rounds,
		Decks:  decks,
	}
}

// EnabledDecks returns the included deck names in alphabetical order.
func (s Settings) EnabledDecks() []string {
	var names []string
	for name, included := range s.Decks {
		if included {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s Settings) clone() Settings {
	out := s
	out.DrawingTimeLimitSeconds = cloneInt(s.DrawingTimeLimitSeconds)
	out.VotingTimeLimitSeconds = cloneInt(s.VotingTimeLimitSeconds)
	out.Decks = make(map[string]bool, len(s.Decks))
	for name, included := range s.Decks {
		out.Decks[name] = included
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func validTimeLimit(v *int) bool {
	return v == nil || (*v >= 1 && *v <= MaxPhaseSeconds)
}
