package game

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"time"

	"sketch-imprint/internal/deck"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DeckLibrary supplies the prompt decks a game may enable.
type DeckLibrary interface {
	Names() []string
	Deck(name string) (*deck.Deck[string], bool)
}

type Options struct {
	Library DeckLibrary
	// Rand drives deck shuffles and imprint selection. Nil means a freshly
	// seeded generator.
	Rand           *rand.Rand
	DefaultRounds  int
	ImprintStrokes int
}

// Game is one room's session. See the package doc for concurrency rules.
type Game struct {
	code     string
	settings Settings
	state    GameState
	host     uuid.UUID
	players  map[uuid.UUID]*Player
	lastRank int
	rounds   []*Round
	prompts  *deck.Deck[string]

	library        DeckLibrary
	rng            *rand.Rand
	imprintStrokes int
	log            zerolog.Logger
}

// NewGame creates a room with the host as its only player and sends them the
// lobby and the default settings.
func NewGame(code string, hostID uuid.UUID, hostName string, sink Sink, opts Options) (*Game, error) {
	if opts.Library == nil {
		return nil, internalf("deck library is required")
	}
	name, err := ValidateName(hostName)
	if err != nil {
		return nil, reject(OpCreateGame, CodeInvalidName)
	}
	rng := opts.Rand
	if rng == nil {
		rng = NewRand()
	}
	strokes := opts.ImprintStrokes
	if strokes <= 0 {
		strokes = DefaultImprintStrokes
	}

	g := &Game{
		code:     code,
		settings: DefaultSettings(opts.Library.Names(), opts.DefaultRounds),
		state:    StateWaitingForPlayers,
		host:     hostID,
		players: map[uuid.UUID]*Player{
			hostID: {ID: hostID, Name: name, HostRank: 0, State: PlayerNotReady, sink: sink},
		},
		library:        opts.Library,
		rng:            rng,
		imprintStrokes: strokes,
		log:            log.With().Str("room_code", code).Logger(),
	}
	g.log.Info().Str("player_id", hostID.String()).Msg("game created")
	g.broadcastLobby()
	g.broadcastSettings()
	return g, nil
}

// Handle applies one command on behalf of a player. Rejections come back as
// *Error; anything else is an internal failure.
func (g *Game) Handle(playerID uuid.UUID, cmd Command) error {
	switch c := cmd.(type) {
	case JoinGame:
		return g.AddPlayer(playerID, c.Name, c.Sink)
	case PhaseTimeout:
		return g.PhaseTimeout(c.Round, c.State)
	}
	if _, ok := g.players[playerID]; !ok {
		return reject(cmd.Op(), CodeNotInAGame)
	}
	switch c := cmd.(type) {
	case UpdateSettings:
		return g.UpdateSettings(playerID, c.Settings)
	case StartGame:
		return g.StartGame(playerID)
	case SubmitDrawing:
		return g.SubmitDrawing(playerID, c.Drawing, c.Round)
	case SubmitVote:
		return g.SubmitVote(playerID, c.Votes)
	case SetPlayerReady:
		return g.SetPlayerReady(playerID, c.Ready)
	case PlayAgain:
		return g.PlayAgain(playerID)
	case Disconnect:
		return g.DisconnectPlayer(playerID)
	default:
		return internalf("unknown command %T", cmd)
	}
}

func (g *Game) AddPlayer(id uuid.UUID, proposedName string, sink Sink) error {
	if _, exists := g.players[id]; exists {
		return reject(OpJoinGame, CodeAlreadyInAGame)
	}
	if len(g.players) >= MaxPlayers {
		return reject(OpJoinGame, CodeGameFull)
	}
	if g.state != StateWaitingForPlayers {
		return reject(OpJoinGame, CodeGameAlreadyStarted)
	}
	name, err := ValidateName(proposedName)
	if err != nil {
		return reject(OpJoinGame, CodeInvalidName)
	}

	g.lastRank++
	player := &Player{
		ID:       id,
		Name:     g.resolveName(name),
		HostRank: g.lastRank,
		State:    PlayerNotReady,
		sink:     sink,
	}
	player.send(g.settingsUpdate())
	g.players[id] = player
	g.log.Info().Str("player_id", id.String()).Str("name", player.Name).Msg("player joined")
	g.broadcastLobby()
	return nil
}

// UpdateSettings replaces mode, rounds and time limits, and merges the deck
// switches into the current ones. Nothing changes unless every check passes.
func (g *Game) UpdateSettings(playerID uuid.UUID, update Settings) error {
	const op = OpUpdateSettings
	if g.state != StateWaitingForPlayers {
		return reject(op, CodeGameAlreadyStarted)
	}
	if !g.isHost(playerID) {
		return reject(op, CodeNotTheHost)
	}
	if update.Rounds < 1 || update.Rounds > MaxRounds {
		return reject(op, CodeInvalidNumRounds)
	}
	mode := update.Mode
	if mode == "" {
		mode = g.settings.Mode
	}
	if mode != ModeDefault {
		return reject(op, CodeInvalidGameMode)
	}
	if !validTimeLimit(update.DrawingTimeLimitSeconds) {
		return reject(op, CodeInvalidDrawingTimeLimit)
	}
	if !validTimeLimit(update.VotingTimeLimitSeconds) {
		return reject(op, CodeInvalidVotingTimeLimit)
	}

	next := g.settings.clone()
	for name, included := range update.Decks {
		next.Decks[name] = included
	}
	if len(next.EnabledDecks()) == 0 {
		return reject(op, CodeSettingRemovesAllDecks)
	}
	known := make(map[string]struct{})
	for _, name := range g.library.Names() {
		known[name] = struct{}{}
	}
	for name := range update.Decks {
		if _, ok := known[name]; !ok {
			return reject(op, CodeDeckDoesNotExist)
		}
	}

	next.Mode = mode
	next.Rounds = update.Rounds
	next.DrawingTimeLimitSeconds = cloneInt(update.DrawingTimeLimitSeconds)
	next.VotingTimeLimitSeconds = cloneInt(update.VotingTimeLimitSeconds)
	g.settings = next
	g.broadcastSettings()
	return nil
}

func (g *Game) StartGame(playerID uuid.UUID) error {
	const op = OpStartGame
	if !g.isHost(playerID) {
		return reject(op, CodeNotTheHost)
	}
	if g.state != StateWaitingForPlayers {
		return reject(op, CodeGameAlreadyStarted)
	}
	if len(g.players) < MinPlayers {
		return reject(op, CodeMinimumPlayersNotReached)
	}

	prompts, err := g.buildDeck()
	if err != nil {
		g.log.Error().Err(err).Msg("game deck could not be built")
		return err
	}
	g.prompts = prompts
	g.rounds = nil
	if err := g.startNextRound(); err != nil {
		g.prompts = nil
		g.log.Error().Err(err).Msg("first round could not start")
		return err
	}
	g.log.Info().Int("players", len(g.players)).Int("rounds", g.settings.Rounds).Msg("game started")
	return nil
}

// buildDeck concatenates the enabled decks in name order, adds the bonus card
// and shuffles. It fails when the pile cannot cover every round.
func (g *Game) buildDeck() (*deck.Deck[string], error) {
	var sources []*deck.Deck[string]
	for _, name := range g.settings.EnabledDecks() {
		d, ok := g.library.Deck(name)
		if !ok {
			return nil, internalf("enabled deck %q is not loaded", name)
		}
		sources = append(sources, d)
	}
	prompts := deck.FromDecks(sources...)
	prompts.Add(BonusCard)
	prompts.Shuffle(g.rng)

	need := g.settings.Rounds * len(g.players)
	if prompts.Len() < need {
		return nil, internalf("enabled decks hold %d prompts, game needs %d", prompts.Len(), need)
	}
	return prompts, nil
}

func (g *Game) SubmitDrawing(playerID uuid.UUID, drawing Drawing, round int) error {
	const op = OpSubmitDrawing
	current := g.currentRound()
	if current == nil || current.Number() != round {
		return reject(op, CodeWrongRound)
	}
	if g.state != StateDrawingPhase {
		return reject(op, CodeWrongPhase)
	}
	if err := current.SetDrawing(playerID, drawing); err != nil {
		return err
	}
	g.players[playerID].State = PlayerDrawingDone
	g.broadcastLobby()
	g.advanceIfDrawingDone()
	return nil
}

func (g *Game) SubmitVote(playerID uuid.UUID, votes map[uuid.UUID]int) error {
	const op = OpSubmitVote
	current := g.currentRound()
	if current == nil {
		return reject(op, CodeGameHasNotStarted)
	}
	if g.state != StateVotingPhase {
		return reject(op, CodeWrongPhase)
	}
	if err := current.SubmitVote(playerID, votes); err != nil {
		return err
	}
	g.players[playerID].State = PlayerVotingDone
	g.broadcastLobby()
	return g.finishRoundIfVotingDone()
}

func (g *Game) SetPlayerReady(playerID uuid.UUID, ready bool) error {
	if g.state != StateWaitingForPlayers && g.state != StateResults {
		return reject(OpSetPlayerReady, CodeGameAlreadyStarted)
	}
	if ready {
		g.players[playerID].State = PlayerReady
	} else {
		g.players[playerID].State = PlayerNotReady
	}
	g.broadcastLobby()
	return nil
}

// DisconnectPlayer removes the player outright between games, or marks them
// disconnected mid-game so their score survives. Either way the phase may
// complete and the host may move.
func (g *Game) DisconnectPlayer(playerID uuid.UUID) error {
	player, ok := g.players[playerID]
	if !ok {
		return reject(OpDisconnect, CodeNotInAGame)
	}
	switch g.state {
	case StateWaitingForPlayers, StateResults:
		delete(g.players, playerID)
	default:
		player.Disconnected = true
	}
	g.log.Info().Str("player_id", playerID.String()).Str("state", string(g.state)).Msg("player disconnected")

	if g.AllPlayersDisconnected() {
		return nil
	}
	g.electHost()

	var err error
	switch g.state {
	case StateDrawingPhase:
		g.advanceIfDrawingDone()
	case StateVotingPhase:
		err = g.finishRoundIfVotingDone()
	}
	g.broadcastLobby()
	return err
}

func (g *Game) PlayAgain(playerID uuid.UUID) error {
	if !g.isHost(playerID) {
		return reject(OpPlayAgain, CodeNotTheHost)
	}
	if g.state != StateResults {
		return reject(OpPlayAgain, CodeGameIsNotOver)
	}
	for id, player := range g.players {
		if player.Disconnected {
			delete(g.players, id)
		}
	}
	for _, player := range g.players {
		player.Score = 0
		player.State = PlayerNotReady
	}
	g.rounds = nil
	g.prompts = nil
	g.state = StateWaitingForPlayers
	g.log.Info().Int("players", len(g.players)).Msg("game reset")
	g.broadcastLobby()
	return nil
}

// PhaseTimeout forces the phase armed for (round, state) to end. Stale
// timeouts are ignored.
func (g *Game) PhaseTimeout(round int, state GameState) error {
	current := g.currentRound()
	if current == nil || current.Number() != round || g.state != state {
		return nil
	}
	g.log.Info().Int("round", round).Str("phase", string(state)).Msg("phase timed out")
	switch state {
	case StateDrawingPhase:
		g.startVoting()
	case StateVotingPhase:
		return g.completeRound()
	}
	return nil
}

func (g *Game) startNextRound() error {
	members := g.connectedIDs()
	imprints := make(map[uuid.UUID]Drawing, len(members))
	previous := g.currentRound()
	for _, id := range members {
		if previous == nil {
			imprints[id] = nil
			continue
		}
		drawing, ok := previous.Drawing(id)
		if !ok {
			imprints[id] = nil
			continue
		}
		imprints[id] = SelectImprint(drawing, previous.Imprint(id), g.imprintStrokes, g.rng)
	}

	round, err := NewRound(len(g.rounds)+1, members, g.prompts, imprints, g.rng)
	if err != nil {
		return err
	}
	g.rounds = append(g.rounds, round)
	g.state = StateDrawingPhase
	g.setAllPlayerStates(PlayerDrawing)
	g.log.Info().Int("round", round.Number()).Msg("round started")
	g.broadcastLobby()
	g.sendDrawingParameters()
	return nil
}

func (g *Game) advanceIfDrawingDone() {
	if g.state != StateDrawingPhase {
		return
	}
	if g.currentRound().IsDoneDrawing(g.isConnected) {
		g.startVoting()
	}
}

func (g *Game) startVoting() {
	g.sendBallots()
	g.state = StateVotingPhase
	g.setAllPlayerStates(PlayerVoting)
	g.log.Info().Int("round", g.RoundNumber()).Msg("voting started")
	g.broadcastLobby()
}

func (g *Game) finishRoundIfVotingDone() error {
	if g.state != StateVotingPhase {
		return nil
	}
	if !g.currentRound().IsDoneVoting(g.isConnected) {
		return nil
	}
	return g.completeRound()
}

func (g *Game) completeRound() error {
	current := g.currentRound()
	for id, score := range current.Scores() {
		if player, ok := g.players[id]; ok {
			player.Score += score
		}
	}
	if current.Number() >= g.settings.Rounds {
		g.finishGame()
		return nil
	}
	if err := g.startNextRound(); err != nil {
		g.log.Error().Err(err).Int("round", current.Number()).Msg("next round could not start")
		return err
	}
	return nil
}

func (g *Game) finishGame() {
	g.state = StateResults
	g.setAllPlayerStates(PlayerNotReady)
	results := g.results()
	g.log.Info().Int("num_votes", results.NumVotes).Msg("game finished")
	// Scores go out before the results.
	g.broadcastLobby()
	for _, player := range g.sortedPlayers() {
		player.send(results)
	}
}

// results picks the most voted drawing of the whole game. Ties go to the
// earliest round, then to the lowest drawing id.
func (g *Game) results() Results {
	out := Results{MessageName: MessageResults}
	found := false
	for _, round := range g.rounds {
		for _, s := range round.submissions() {
			if found && s.votes <= out.NumVotes {
				continue
			}
			found = true
			out.HighestRatedDrawing = s.drawing
			out.Imprint = s.imprint
			out.NumVotes = s.votes
			out.DrawingSuggestion = s.prompt
		}
	}
	return out
}

func (g *Game) electHost() {
	var next *Player
	for _, player := range g.players {
		if player.Disconnected {
			continue
		}
		if next == nil || player.HostRank < next.HostRank {
			next = player
		}
	}
	if next == nil || next.ID == g.host {
		return
	}
	g.host = next.ID
	g.log.Info().Str("player_id", next.ID.String()).Msg("host changed")
}

// resolveName suffixes "(n)" until the name is unique in the room.
func (g *Game) resolveName(name string) string {
	candidate := name
	for n := 1; g.nameTaken(candidate); n++ {
		candidate = name + "(" + strconv.Itoa(n) + ")"
	}
	return candidate
}

func (g *Game) nameTaken(name string) bool {
	for _, player := range g.players {
		if player.Name == name {
			return true
		}
	}
	return false
}

func (g *Game) setAllPlayerStates(state PlayerState) {
	for _, player := range g.players {
		player.State = state
	}
}

func (g *Game) isHost(playerID uuid.UUID) bool {
	return playerID == g.host
}

func (g *Game) isConnected(playerID uuid.UUID) bool {
	player, ok := g.players[playerID]
	return ok && !player.Disconnected
}

func (g *Game) connectedIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, player := range g.sortedPlayers() {
		if !player.Disconnected {
			ids = append(ids, player.ID)
		}
	}
	return ids
}

func (g *Game) sortedPlayers() []*Player {
	out := make([]*Player, 0, len(g.players))
	for _, player := range g.players {
		out = append(out, player)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HostRank < out[j].HostRank })
	return out
}

func (g *Game) currentRound() *Round {
	if len(g.rounds) == 0 {
		return nil
	}
	return g.rounds[len(g.rounds)-1]
}

func (g *Game) Code() string { return g.code }

func (g *Game) State() GameState { return g.state }

func (g *Game) Host() uuid.UUID { return g.host }

func (g *Game) Settings() Settings { return g.settings.clone() }

// RoundNumber is the 1-indexed current round, or 0 before the game starts.
func (g *Game) RoundNumber() int {
	return len(g.rounds)
}

// Player returns a copy of one roster entry.
func (g *Game) Player(id uuid.UUID) (Player, bool) {
	player, ok := g.players[id]
	if !ok {
		return Player{}, false
	}
	return *player, true
}

// Players returns copies of the roster in host-rank order.
func (g *Game) Players() []Player {
	sorted := g.sortedPlayers()
	out := make([]Player, len(sorted))
	for i, player := range sorted {
		out[i] = *player
	}
	return out
}

// AllPlayersDisconnected reports whether the room can be torn down. An empty
// roster counts as disconnected.
func (g *Game) AllPlayersDisconnected() bool {
	for _, player := range g.players {
		if !player.Disconnected {
			return false
		}
	}
	return true
}

// PhaseTimeLimit is the deadline configured for the current phase, if any.
func (g *Game) PhaseTimeLimit() (time.Duration, bool) {
	var limit *int
	switch g.state {
	case StateDrawingPhase:
		limit = g.settings.DrawingTimeLimitSeconds
	case StateVotingPhase:
		limit = g.settings.VotingTimeLimitSeconds
	}
	if limit == nil {
		return 0, false
	}
	return time.Duration(*limit) * time.Second, true
}
