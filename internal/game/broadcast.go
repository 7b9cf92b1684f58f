package game

import "github.com/google/uuid"

func (g *Game) lobbyUpdate(viewer uuid.UUID) LobbyUpdate {
	update := LobbyUpdate{
		MessageName: MessageLobbyUpdate,
		RoomCode:    g.code,
		State:       g.state,
		NumRounds:   g.settings.Rounds,
	}
	if n := g.RoundNumber(); n > 0 {
		update.Round = &n
	}
	for _, player := range g.sortedPlayers() {
		update.Players = append(update.Players, PlayerView{
			Name:           player.Name,
			State:          player.State,
			Score:          player.Score,
			IsHost:         player.ID == g.host,
			IsYou:          player.ID == viewer,
			IsDisconnected: player.Disconnected,
		})
	}
	return update
}

func (g *Game) broadcastLobby() {
	for _, player := range g.sortedPlayers() {
		player.send(g.lobbyUpdate(player.ID))
	}
}

func (g *Game) settingsUpdate() SettingsUpdate {
	return SettingsUpdate{MessageName: MessageSettingsUpdate, Settings: g.settings.clone()}
}

func (g *Game) broadcastSettings() {
	for _, player := range g.sortedPlayers() {
		player.send(g.settingsUpdate())
	}
}

func (g *Game) sendDrawingParameters() {
	round := g.currentRound()
	for _, player := range g.sortedPlayers() {
		if !round.Has(player.ID) {
			continue
		}
		player.send(DrawingParameters{
			MessageName:       MessageDrawingParameters,
			Round:             round.Number(),
			DrawingSuggestion: round.Prompt(player.ID),
			Imprint:           round.Imprint(player.ID),
		})
	}
}

// sendBallots gives every player the submitted drawings of the round. A
// player's own entry is listed but not votable.
func (g *Game) sendBallots() {
	round := g.currentRound()
	submissions := round.submissions()
	for _, player := range g.sortedPlayers() {
		ballot := VotingBallot{
			MessageName: MessageVotingBallot,
			Round:       round.Number(),
			Ballot:      make([]BallotItem, 0, len(submissions)),
		}
		for _, s := range submissions {
			ballot.Ballot = append(ballot.Ballot, BallotItem{
				ID:              s.drawingID,
				Suggestion:      s.prompt,
				Drawing:         s.drawing,
				Imprint:         s.imprint,
				IsVotingEnabled: s.owner != player.ID,
			})
		}
		player.send(ballot)
	}
}
