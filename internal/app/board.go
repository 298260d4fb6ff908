package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/tierlist/internal/adapters/ethos"
	"github.com/okian/tierlist/internal/domain/board"
	"github.com/okian/tierlist/internal/domain/category"
	"github.com/okian/tierlist/internal/domain/placement"
	"github.com/okian/tierlist/internal/domain/render"
	"github.com/okian/tierlist/internal/domain/types"
	"github.com/okian/tierlist/pkg/logger"
	"github.com/okian/tierlist/pkg/metrics"
)

func confirmation(ok bool) placement.ConfirmFunc {
	if ok {
		return placement.Confirmed
	}
	return placement.Declined
}

// Board returns the current board with its interaction state.
func (s *Service) Board(ctx context.Context) (types.BoardView, error) {
	var v types.BoardView
	err := s.do(ctx, "board", func(context.Context) error {
		v = s.view()
		return nil
	})
	return v, err
}

// Snapshot returns a read-only copy of the board.
func (s *Service) Snapshot(ctx context.Context) (board.Snapshot, error) {
	var snap board.Snapshot
	err := s.do(ctx, "snapshot", func(context.Context) error {
		snap = s.engine.Board().Snapshot()
		return nil
	})
	return snap, err
}

func (s *Service) view() types.BoardView {
	subject := ""
	if sess, ok := s.engine.Session(); ok {
		subject = sess.Subject
	}
	return types.NewBoardView(s.engine.Board().Snapshot(), s.engine.DeleteMode(), subject, s.engine.Highlighted())
}

// AddPerson adds a name-only entry to the pool.
func (s *Service) AddPerson(ctx context.Context, name string) (render.Spec, error) {
	var spec render.Spec
	err := s.do(ctx, "add_person", func(ctx context.Context) error {
		e := board.Entry{Identifier: strings.TrimSpace(name)}
		if err := s.engine.Add(e); err != nil {
			return err
		}
		spec = render.Build(e, s.engine.DeleteMode())
		metrics.RecordEntryAdded("manual")
		s.observe()
		s.logger.Debug(ctx, "person added", logger.String("identifier", e.Identifier))
		return nil
	})
	return spec, err
}

// AddEthosUser looks username up on Ethos and adds the profile to the pool.
// An empty or already present username fails before any request is made,
// and a second call while one lookup is pending fails with
// ErrLookupInFlight.
func (s *Service) AddEthosUser(ctx context.Context, username string) (render.Spec, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return render.Spec{}, ethos.ErrEmptyUsername
	}
	if !s.lookups.TryAcquire(1) {
		return render.Spec{}, ErrLookupInFlight
	}
	defer s.lookups.Release(1)

	err := s.do(ctx, "check_duplicate", func(context.Context) error {
		if s.engine.Board().Has(username) {
			return fmt.Errorf("%w: %q", board.ErrDuplicate, username)
		}
		return nil
	})
	if err != nil {
		metrics.RecordLookup("rejected")
		return render.Spec{}, err
	}

	start := time.Now()
	profile, err := s.looker.Lookup(ctx, username)
	metrics.RecordLookupLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordLookup(lookupOutcome(err))
		s.logger.Warn(ctx, "ethos lookup failed",
			logger.String("username", username),
			logger.Error(err),
		)
		return render.Spec{}, err
	}
	metrics.RecordLookup("ok")

	score := profile.Score
	e := board.Entry{
		Identifier:     username,
		IsExternalUser: true,
		DisplayName:    profile.DisplayName,
		AvatarURL:      profile.AvatarURL,
		Score:          &score,
	}
	var spec render.Spec
	err = s.do(ctx, "add_ethos_user", func(ctx context.Context) error {
		if err := s.engine.Add(e); err != nil {
			return err
		}
		spec = render.Build(e, s.engine.DeleteMode())
		metrics.RecordEntryAdded("ethos")
		s.observe()
		s.logger.Info(ctx, "ethos user added",
			logger.String("identifier", username),
			logger.Int("score", score),
			logger.String("category", category.Classify(score).String()),
		)
		return nil
	})
	return spec, err
}

func lookupOutcome(err error) string {
	var apiErr *ethos.APIError
	switch {
	case errors.Is(err, ethos.ErrNotFound):
		return "not_found"
	case errors.Is(err, ethos.ErrRateLimited):
		return "rate_limited"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.Is(err, ethos.ErrBadPayload):
		return "bad_payload"
	default:
		return "failed"
	}
}

// BeginDrag starts a drag session for identifier.
func (s *Service) BeginDrag(ctx context.Context, identifier string) (placement.Session, error) {
	var sess placement.Session
	err := s.do(ctx, "begin_drag", func(context.Context) error {
		var err error
		sess, err = s.engine.BeginDrag(identifier)
		if err == nil {
			metrics.RecordDrag()
		}
		return err
	})
	return sess, err
}

// EndDrag ends the gesture whether or not a drop happened.
func (s *Service) EndDrag(ctx context.Context) error {
	return s.do(ctx, "end_drag", func(context.Context) error {
		s.engine.EndDrag()
		return nil
	})
}

// DragEnter highlights containerID as a drop target.
func (s *Service) DragEnter(ctx context.Context, containerID string) (bool, error) {
	var ok bool
	err := s.do(ctx, "drag_enter", func(context.Context) error {
		ok = s.engine.DragEnter(containerID)
		return nil
	})
	return ok, err
}

// DragLeave drops the highlight from containerID unless related is inside it.
func (s *Service) DragLeave(ctx context.Context, containerID string, related placement.Target) (bool, error) {
	var ok bool
	err := s.do(ctx, "drag_leave", func(context.Context) error {
		ok = s.engine.DragLeave(containerID, related)
		return nil
	})
	return ok, err
}

// Drop moves the drag subject into the container target resolves to.
func (s *Service) Drop(ctx context.Context, target placement.Target) (placement.DropResult, error) {
	var res placement.DropResult
	err := s.do(ctx, "drop", func(ctx context.Context) error {
		res = s.engine.Drop(target)
		metrics.RecordDrop(string(res.Outcome))
		if res.Outcome == placement.OutcomeMoved {
			s.observe()
			s.logger.Debug(ctx, "entry moved",
				logger.String("identifier", res.Identifier),
				logger.String("from", res.From),
				logger.String("to", res.To),
			)
		}
		return nil
	})
	return res, err
}

// ToggleDeleteMode flips delete mode and returns the new state.
func (s *Service) ToggleDeleteMode(ctx context.Context) (bool, error) {
	var on bool
	err := s.do(ctx, "toggle_delete_mode", func(context.Context) error {
		on = s.engine.ToggleDeleteMode()
		return nil
	})
	return on, err
}

// Delete removes identifier when delete mode is on and confirm is true.
func (s *Service) Delete(ctx context.Context, identifier string, confirm bool) (bool, error) {
	var deleted bool
	err := s.do(ctx, "delete", func(ctx context.Context) error {
		var err error
		deleted, err = s.engine.Delete(identifier, confirmation(confirm))
		if deleted {
			metrics.RecordEntryDeleted()
			s.observe()
			s.logger.Info(ctx, "entry deleted", logger.String("identifier", identifier))
		}
		return err
	})
	return deleted, err
}

// ClearTiers moves every ranked entry back to the pool when confirm is true.
func (s *Service) ClearTiers(ctx context.Context, confirm bool) (int, bool, error) {
	var (
		moved int
		done  bool
	)
	err := s.do(ctx, "clear_tiers", func(ctx context.Context) error {
		moved, done = s.engine.ClearTiers(confirmation(confirm))
		if done {
			metrics.RecordBoardReset("clear")
			s.observe()
			s.logger.Info(ctx, "tiers cleared", logger.Int("moved", moved))
		}
		return nil
	})
	return moved, done, err
}

// Reset removes every entry when confirm is true.
func (s *Service) Reset(ctx context.Context, confirm bool) (bool, error) {
	var done bool
	err := s.do(ctx, "reset", func(ctx context.Context) error {
		done = s.engine.Reset(confirmation(confirm))
		if done {
			metrics.RecordBoardReset("reset")
			s.observe()
			s.logger.Info(ctx, "board reset")
		}
		return nil
	})
	return done, err
}

// RenderEntry returns the view spec and HTML fragment for identifier.
func (s *Service) RenderEntry(ctx context.Context, identifier string) (render.Spec, string, error) {
	var spec render.Spec
	err := s.do(ctx, "render_entry", func(context.Context) error {
		e, ok := s.engine.Board().Entry(identifier)
		if !ok {
			return fmt.Errorf("%w: %q", board.ErrUnknownEntry, identifier)
		}
		spec = render.Build(e, s.engine.DeleteMode())
		return nil
	})
	if err != nil {
		return render.Spec{}, "", err
	}
	html, err := render.RenderHTML(spec)
	return spec, html, err
}
