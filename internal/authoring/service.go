package authoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hang10/internal/puzzle"
)

// Service is the portal's save path: normalization, validation, reveal
// order derivation and the approval stamp all happen here.
type Service struct {
	repo  *Repository
	rules puzzle.Rules
	gen   Generator
	now   func() time.Time
}

// NewService wires a Service. gen may be nil when generation is disabled.
func NewService(repo *Repository, rules puzzle.Rules, gen Generator) *Service {
	return &Service{repo: repo, rules: rules, gen: gen, now: time.Now}
}

// Get loads the document for date.
func (s *Service) Get(ctx context.Context, date string) (*Document, error) {
	return s.repo.Get(ctx, date)
}

// Range lists documents with from <= date < to.
func (s *Service) Range(ctx context.Context, from, to string) ([]Summary, error) {
	return s.repo.Range(ctx, from, to)
}

// Delete removes the document for date.
func (s *Service) Delete(ctx context.Context, date string) error {
	if err := s.repo.Delete(ctx, date); err != nil {
		return err
	}
	log.Info().Str("date", date).Msg("puzzle document deleted")
	return nil
}

// Check runs validation on answers folded to upper case, without saving.
func (s *Service) Check(puzzles []puzzle.Puzzle, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	folded := make([]puzzle.Puzzle, len(puzzles))
	for i, p := range puzzles {
		p.Answer = strings.ToUpper(p.Answer)
		folded[i] = p
	}
	return s.rules.Validate(folded, status == StatusDraft)
}

// Save validates and stores doc under status on behalf of actor.
//
//   - Answers are upper-cased and every reveal order is re-derived.
//   - Drafts skip the required-field checks; all other rules apply.
//   - Publishing stamps ApprovedBy with actor; other statuses keep the
//     previous approver.
func (s *Service) Save(ctx context.Context, doc Document, status Status, actor string) (*Document, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if _, err := time.Parse("2006-01-02", doc.Date); err != nil {
		return nil, ErrInvalidDate
	}
	if err := s.Check(doc.Puzzles, status); err != nil {
		return nil, err
	}

	prev, err := s.repo.Get(ctx, doc.Date)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load %s: %w", doc.Date, err)
	}

	now := s.now().UTC().Truncate(time.Second)
	out := Document{
		DailySet:   puzzle.PrepareSet(doc.DailySet),
		Status:     status,
		ApprovedBy: doc.ApprovedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	out.Author = strings.TrimSpace(out.Author)
	if out.Author == "" {
		out.Author = DefaultAuthor
	}
	if prev != nil {
		out.CreatedAt = prev.CreatedAt
		if out.ApprovedBy == "" {
			out.ApprovedBy = prev.ApprovedBy
		}
	}
	if status == StatusPublished {
		out.ApprovedBy = actor
		if out.ApprovedBy == "" {
			out.ApprovedBy = "Admin"
		}
	}

	if err := s.repo.Put(ctx, &out); err != nil {
		return nil, fmt.Errorf("save %s: %w", doc.Date, err)
	}
	log.Info().Str("date", out.Date).Str("status", string(status)).Str("actor", actor).Msg("puzzle document saved")
	return &out, nil
}

// Move swaps slot idx with its neighbour in direction dir (-1 or +1) and
// re-saves the document under its current status.
func (s *Service) Move(ctx context.Context, date string, idx, dir int, actor string) (*Document, error) {
	doc, err := s.repo.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	j := idx + dir
	if (dir != -1 && dir != 1) || idx < 0 || idx >= len(doc.Puzzles) || j < 0 || j >= len(doc.Puzzles) {
		return nil, fmt.Errorf("cannot move slot %d by %d", idx, dir)
	}
	doc.Puzzles[idx], doc.Puzzles[j] = doc.Puzzles[j], doc.Puzzles[idx]
	return s.Save(ctx, *doc, doc.Status, actor)
}

// Suggest asks the generator for a full set for theme. Every candidate must
// pass the slot rules before it is returned; the first rejection is an error.
func (s *Service) Suggest(ctx context.Context, theme string) ([]puzzle.Puzzle, error) {
	if s.gen == nil {
		return nil, ErrGeneratorDisabled
	}
	cands, err := s.gen.Generate(ctx, theme)
	if err != nil {
		return nil, err
	}
	if len(cands) != puzzle.SetSize {
		return nil, fmt.Errorf("generator returned %d puzzles, want %d", len(cands), puzzle.SetSize)
	}
	out := make([]puzzle.Puzzle, len(cands))
	for i, c := range cands {
		p, err := s.accept(i+1, c)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// SuggestOne asks for a single replacement puzzle avoiding existing answers.
func (s *Service) SuggestOne(ctx context.Context, theme string, slot int, existing []string) (puzzle.Puzzle, error) {
	if s.gen == nil {
		return puzzle.Puzzle{}, ErrGeneratorDisabled
	}
	c, err := s.gen.GenerateOne(ctx, theme, existing)
	if err != nil {
		return puzzle.Puzzle{}, err
	}
	return s.accept(slot, c)
}

func (s *Service) accept(slot int, c Candidate) (puzzle.Puzzle, error) {
	p := puzzle.Prepare(puzzle.Puzzle{Clue: strings.TrimSpace(c.Clue), Answer: strings.TrimSpace(c.Answer)})
	if err := s.rules.CheckSlot(slot, p, false); err != nil {
		log.Warn().Str("answer", p.Answer).Str("reason", err.Error()).Msg("generated puzzle rejected")
		return puzzle.Puzzle{}, err
	}
	return p, nil
}
