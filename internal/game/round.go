package game

import (
	"errors"
	"math/rand/v2"
	"sort"

	"sketch-imprint/internal/deck"

	"github.com/google/uuid"
)

type roundEntry struct {
	drawingID  uuid.UUID
	prompt     string
	imprint    Drawing
	drawing    Drawing
	hasDrawing bool
	hasVoted   bool
	votes      int
}

// Round is one drawing-then-voting cycle. Its membership is fixed when it is
// created; afterwards only submissions and votes change.
type Round struct {
	number    int
	members   []uuid.UUID
	entries   map[uuid.UUID]*roundEntry
	byDrawing map[uuid.UUID]uuid.UUID
}

// NewRound draws one prompt per member and hands out the redistributed
// imprints. The deck is left untouched if it cannot cover every member.
func NewRound(number int, members []uuid.UUID, prompts *deck.Deck[string], imprints map[uuid.UUID]Drawing, rng *rand.Rand) (*Round, error) {
	cards, err := prompts.DrawN(len(members))
	if err != nil {
		if errors.Is(err, deck.ErrEmpty) {
			return nil, internalf("deck has %d prompts, round %d needs %d", prompts.Len(), number, len(members))
		}
		return nil, err
	}
	assigned := RedistributeImprints(imprints, rng)

	r := &Round{
		number:    number,
		members:   append([]uuid.UUID(nil), members...),
		entries:   make(map[uuid.UUID]*roundEntry, len(members)),
		byDrawing: make(map[uuid.UUID]uuid.UUID, len(members)),
	}
	for i, id := range members {
		drawingID := uuid.New()
		r.entries[id] = &roundEntry{
			drawingID: drawingID,
			prompt:    cards[i],
			imprint:   assigned[id],
		}
		r.byDrawing[drawingID] = id
	}
	return r, nil
}

func (r *Round) Number() int { return r.number }

func (r *Round) Has(playerID uuid.UUID) bool {
	_, ok := r.entries[playerID]
	return ok
}

func (r *Round) Prompt(playerID uuid.UUID) string {
	if e, ok := r.entries[playerID]; ok {
		return e.prompt
	}
	return ""
}

func (r *Round) Imprint(playerID uuid.UUID) Drawing {
	if e, ok := r.entries[playerID]; ok {
		return e.imprint
	}
	return nil
}

func (r *Round) DrawingID(playerID uuid.UUID) uuid.UUID {
	if e, ok := r.entries[playerID]; ok {
		return e.drawingID
	}
	return uuid.Nil
}

// Drawing returns the player's submission, if any.
func (r *Round) Drawing(playerID uuid.UUID) (Drawing, bool) {
	e, ok := r.entries[playerID]
	if !ok || !e.hasDrawing {
		return nil, false
	}
	return e.drawing, true
}

func (r *Round) SetDrawing(playerID uuid.UUID, drawing Drawing) error {
	e, ok := r.entries[playerID]
	if !ok {
		return internalf("player %s is not part of round %d", playerID, r.number)
	}
	if e.hasDrawing {
		return reject(OpSubmitDrawing, CodeDrawingAlreadySubmitted)
	}
	e.drawing = drawing.clone()
	e.hasDrawing = true
	return nil
}

// SubmitVote validates the whole ballot before touching any tally.
func (r *Round) SubmitVote(playerID uuid.UUID, votes map[uuid.UUID]int) error {
	voter, ok := r.entries[playerID]
	if !ok {
		return internalf("player %s is not part of round %d", playerID, r.number)
	}
	if voter.hasVoted {
		return reject(OpSubmitVote, CodeVoteAlreadySubmitted)
	}
	for _, amount := range votes {
		if amount < 0 {
			return reject(OpSubmitVote, CodeInvalidVoteAmount)
		}
	}
	// Each amount is capped before it is summed, so the total cannot wrap.
	total := 0
	for _, amount := range votes {
		if amount > MaxVotesPerRound {
			return reject(OpSubmitVote, CodeMaximumVotesExceeded)
		}
		total += amount
		if total > MaxVotesPerRound {
			return reject(OpSubmitVote, CodeMaximumVotesExceeded)
		}
	}
	if votes[voter.drawingID] > 0 {
		return reject(OpSubmitVote, CodeVotedForSelf)
	}
	// Only drawings that made it onto the ballot can be voted for.
	for drawingID := range votes {
		owner, ok := r.byDrawing[drawingID]
		if !ok || !r.entries[owner].hasDrawing {
			return reject(OpSubmitVote, CodeInvalidDrawingID)
		}
	}

	for drawingID, amount := range votes {
		r.entries[r.byDrawing[drawingID]].votes += amount
	}
	voter.hasVoted = true
	return nil
}

// IsDoneDrawing reports whether every connected member has submitted.
// Members for whom connected returns false are skipped.
func (r *Round) IsDoneDrawing(connected func(uuid.UUID) bool) bool {
	for id, e := range r.entries {
		if connected(id) && !e.hasDrawing {
			return false
		}
	}
	return true
}

func (r *Round) IsDoneVoting(connected func(uuid.UUID) bool) bool {
	for id, e := range r.entries {
		if connected(id) && !e.hasVoted {
			return false
		}
	}
	return true
}

// Scores is the vote tally of each member's drawing.
func (r *Round) Scores() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(r.entries))
	for id, e := range r.entries {
		out[id] = e.votes
	}
	return out
}

// Tally returns the votes received by one drawing id.
func (r *Round) Tally(drawingID uuid.UUID) int {
	owner, ok := r.byDrawing[drawingID]
	if !ok {
		return 0
	}
	return r.entries[owner].votes
}

// Members lists the players the round was created for, in creation order.
func (r *Round) Members() []uuid.UUID {
	return append([]uuid.UUID(nil), r.members...)
}

type submission struct {
	owner     uuid.UUID
	drawingID uuid.UUID
	prompt    string
	drawing   Drawing
	imprint   Drawing
	votes     int
}

// submissions lists every submitted drawing ordered by drawing id, so ballots
// reveal nothing about join order.
func (r *Round) submissions() []submission {
	out := make([]submission, 0, len(r.entries))
	for id, e := range r.entries {
		if !e.hasDrawing {
			continue
		}
		out = append(out, submission{
			owner:     id,
			drawingID: e.drawingID,
			prompt:    e.prompt,
			drawing:   e.drawing,
			imprint:   e.imprint,
			votes:     e.votes,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].drawingID.String() < out[j].drawingID.String()
	})
	return out
}
