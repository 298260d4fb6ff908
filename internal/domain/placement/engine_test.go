package placement_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/tierlist/internal/domain/board"
	"github.com/okian/tierlist/internal/domain/placement"
	. "github.com/smartystreets/goconvey/convey"
)

func newEngine(ids ...string) *placement.Engine {
	b, err := board.New(board.DefaultTiers())
	if err != nil {
		panic(err)
	}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := placement.NewEngine(b, placement.WithClock(func() time.Time { return fixed }))
	for _, id := range ids {
		if err := e.Add(board.Entry{Identifier: id}); err != nil {
			panic(err)
		}
	}
	return e
}

func TestDragSession(t *testing.T) {
	Convey("Given an engine with two entries", t, func() {
		e := newEngine("alice", "bob")

		Convey("When a drag begins", func() {
			s, err := e.BeginDrag("alice")

			Convey("Then the session holds the subject in flight", func() {
				So(err, ShouldBeNil)
				So(s.Subject, ShouldEqual, "alice")
				So(s.InFlight, ShouldBeTrue)
				live, ok := e.Session()
				So(ok, ShouldBeTrue)
				So(live.ID, ShouldEqual, s.ID)
			})

			Convey("And a second begin replaces the subject", func() {
				_, err := e.BeginDrag("bob")
				So(err, ShouldBeNil)
				live, _ := e.Session()
				So(live.Subject, ShouldEqual, "bob")
			})

			Convey("And ending the drag clears the session", func() {
				e.EndDrag()
				_, ok := e.Session()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When dragging an unknown entry", func() {
			_, err := e.BeginDrag("carol")
			So(errors.Is(err, placement.ErrNotDraggable), ShouldBeTrue)
		})

		Convey("When ending with no drag active", func() {
			So(func() { e.EndDrag() }, ShouldNotPanic)
		})
	})
}

func TestDrop(t *testing.T) {
	Convey("Given an engine with entries in the pool", t, func() {
		e := newEngine("alice", "bob")
		original := e.Board().Membership()

		Convey("When dropping onto a tier", func() {
			_, _ = e.BeginDrag("alice")
			So(e.DragEnter("s"), ShouldBeTrue)
			res := e.Drop(placement.Target{ContainerID: "s"})

			Convey("Then the entry moves and the session is cleared", func() {
				So(res.Outcome, ShouldEqual, placement.OutcomeMoved)
				So(res.From, ShouldEqual, board.PoolID)
				So(res.To, ShouldEqual, "s")
				loc, _ := e.Board().Locate("alice")
				So(loc, ShouldEqual, "s")
				_, ok := e.Session()
				So(ok, ShouldBeFalse)
			})

			Convey("And the target highlight is cleared", func() {
				So(e.Highlighted(), ShouldBeEmpty)
			})

			Convey("And dragging back restores the original membership", func() {
				_, err := e.BeginDrag("alice")
				So(err, ShouldBeNil)
				res := e.Drop(placement.Target{ContainerID: board.PoolID})
				So(res.Outcome, ShouldEqual, placement.OutcomeMoved)
				So(e.Board().Membership(), ShouldResemble, original)
			})
		})

		Convey("When dropping onto an entry inside a tier", func() {
			_, _ = e.BeginDrag("bob")
			_ = e.Drop(placement.Target{ContainerID: "a"})
			_, _ = e.BeginDrag("alice")
			res := e.Drop(placement.Target{EntryID: "bob"})

			Convey("Then it resolves to that entry's container", func() {
				So(res.Outcome, ShouldEqual, placement.OutcomeMoved)
				So(res.To, ShouldEqual, "a")
			})
		})

		Convey("When dropping outside any container", func() {
			_, _ = e.BeginDrag("alice")
			res := e.Drop(placement.Target{ContainerID: "header"})

			Convey("Then the entry stays put and the session is cleared", func() {
				So(res.Outcome, ShouldEqual, placement.OutcomeUnresolved)
				So(e.Board().Membership(), ShouldResemble, original)
				_, ok := e.Session()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When dropping with no drag active", func() {
			res := e.Drop(placement.Target{ContainerID: "s"})
			So(res.Outcome, ShouldEqual, placement.OutcomeNoSubject)
			So(e.Board().Membership(), ShouldResemble, original)
		})

		Convey("When the drag end is reported before its drop", func() {
			s, err := e.BeginDrag("alice")
			So(err, ShouldBeNil)
			e.EndDrag()

			Convey("Then a drop naming the session still moves the subject", func() {
				res := e.Drop(placement.Target{ContainerID: "s", SessionID: s.ID.String()})
				So(res.Outcome, ShouldEqual, placement.OutcomeMoved)
				So(res.To, ShouldEqual, "s")

				Convey("And the ended session cannot be claimed twice", func() {
					again := e.Drop(placement.Target{ContainerID: "a", SessionID: s.ID.String()})
					So(again.Outcome, ShouldEqual, placement.OutcomeNoSubject)
				})
			})

			Convey("Then a drop without the session id does nothing", func() {
				res := e.Drop(placement.Target{ContainerID: "s"})
				So(res.Outcome, ShouldEqual, placement.OutcomeNoSubject)
				So(e.Board().Membership(), ShouldResemble, original)
			})

			Convey("Then a drop naming another session does nothing", func() {
				res := e.Drop(placement.Target{ContainerID: "s", SessionID: "00000000-0000-0000-0000-000000000000"})
				So(res.Outcome, ShouldEqual, placement.OutcomeNoSubject)
			})

			Convey("Then a new drag makes the old session unclaimable", func() {
				_, err := e.BeginDrag("bob")
				So(err, ShouldBeNil)
				e.EndDrag()
				res := e.Drop(placement.Target{ContainerID: "s", SessionID: s.ID.String()})
				So(res.Outcome, ShouldEqual, placement.OutcomeNoSubject)
			})
		})

		Convey("When relocating many times", func() {
			targets := []string{"s", "a", "b", board.PoolID, "f", "c", "d"}
			for i := 0; i < 100; i++ {
				_, err := e.BeginDrag("alice")
				So(err, ShouldBeNil)
				So(e.Drop(placement.Target{ContainerID: targets[i%len(targets)]}).Outcome, ShouldEqual, placement.OutcomeMoved)
				e.EndDrag()
			}

			Convey("Then every entry keeps exactly one binding", func() {
				So(e.Bindings().Len(), ShouldEqual, 2)
				So(e.Bindings().Bound("alice"), ShouldBeTrue)
				So(e.Bindings().Bound("bob"), ShouldBeTrue)
			})

			Convey("And the binding identity never changed", func() {
				first, _ := e.Bindings().Get("alice")
				_, _ = e.BeginDrag("alice")
				_ = e.Drop(placement.Target{ContainerID: "s"})
				again, _ := e.Bindings().Get("alice")
				So(again.ID, ShouldEqual, first.ID)
			})
		})
	})
}

func TestHighlight(t *testing.T) {
	Convey("Given an engine with an entry in tier s", t, func() {
		e := newEngine("alice")
		_, _ = e.BeginDrag("alice")
		_ = e.Drop(placement.Target{ContainerID: "s"})
		So(e.DragEnter("s"), ShouldBeTrue)

		Convey("When leaving toward a node inside the same container", func() {
			left := e.DragLeave("s", placement.Target{EntryID: "alice"})

			Convey("Then the highlight stays", func() {
				So(left, ShouldBeFalse)
				So(e.Highlighted(), ShouldResemble, []string{"s"})
			})
		})

		Convey("When leaving toward another container", func() {
			left := e.DragLeave("s", placement.Target{ContainerID: "a"})

			Convey("Then the highlight is removed", func() {
				So(left, ShouldBeTrue)
				So(e.Highlighted(), ShouldBeEmpty)
			})
		})

		Convey("When entering something that is not a container", func() {
			So(e.DragEnter("toolbar"), ShouldBeFalse)
			So(e.Highlighted(), ShouldResemble, []string{"s"})
		})
	})
}

func TestDeleteMode(t *testing.T) {
	Convey("Given an engine with one entry", t, func() {
		e := newEngine("alice")

		Convey("When delete mode is off", func() {
			ok, err := e.Delete("alice", placement.Confirmed)

			Convey("Then nothing is deleted", func() {
				So(ok, ShouldBeFalse)
				So(errors.Is(err, placement.ErrDeleteModeOff), ShouldBeTrue)
				So(e.Board().Has("alice"), ShouldBeTrue)
			})
		})

		Convey("When delete mode is on", func() {
			So(e.ToggleDeleteMode(), ShouldBeTrue)

			Convey("And the user declines", func() {
				ok, err := e.Delete("alice", placement.Declined)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
				So(e.Board().Has("alice"), ShouldBeTrue)
			})

			Convey("And the user confirms", func() {
				var prompt string
				ok, err := e.Delete("alice", func(p string) bool { prompt = p; return true })
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(prompt, ShouldContainSubstring, "alice")
				So(e.Board().Has("alice"), ShouldBeFalse)
				So(e.Bindings().Bound("alice"), ShouldBeFalse)
			})

			Convey("And the entry is unknown", func() {
				_, err := e.Delete("zed", placement.Confirmed)
				So(errors.Is(err, board.ErrUnknownEntry), ShouldBeTrue)
			})

			Convey("And reset is confirmed", func() {
				So(e.Reset(placement.Confirmed), ShouldBeTrue)
				So(e.DeleteMode(), ShouldBeFalse)
				So(e.Board().Len(), ShouldEqual, 0)
				So(e.Bindings().Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestClearTiers(t *testing.T) {
	Convey("Given ranked entries", t, func() {
		e := newEngine("alice", "bob")
		_, _ = e.BeginDrag("alice")
		_ = e.Drop(placement.Target{ContainerID: "b"})

		Convey("When clearing is declined", func() {
			n, ok := e.ClearTiers(placement.Declined)
			So(ok, ShouldBeFalse)
			So(n, ShouldEqual, 0)
			loc, _ := e.Board().Locate("alice")
			So(loc, ShouldEqual, "b")
		})

		Convey("When clearing is confirmed", func() {
			n, ok := e.ClearTiers(placement.Confirmed)
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 1)
			loc, _ := e.Board().Locate("alice")
			So(loc, ShouldEqual, board.PoolID)
			So(e.Bindings().Len(), ShouldEqual, 2)
		})

		Convey("When reset is declined", func() {
			So(e.Reset(placement.Declined), ShouldBeFalse)
			So(e.Board().Len(), ShouldEqual, 2)
		})
	})
}

func TestBindingsSync(t *testing.T) {
	Convey("Given a registry with two bindings", t, func() {
		b := placement.NewBindings(nil)
		first, created := b.Bind("alice")
		So(created, ShouldBeTrue)
		_, _ = b.Bind("bob")

		Convey("When synced to a set that drops bob and adds carol", func() {
			attached := b.Sync([]string{"alice", "carol"})

			Convey("Then only carol is new and bob is unbound", func() {
				So(attached, ShouldEqual, 1)
				So(b.Len(), ShouldEqual, 2)
				So(b.Bound("bob"), ShouldBeFalse)
				again, _ := b.Get("alice")
				So(again.ID, ShouldEqual, first.ID)
			})
		})

		Convey("When reset", func() {
			b.Reset()
			So(b.Len(), ShouldEqual, 0)
			So(b.Sync([]string{"alice"}), ShouldEqual, 1)
		})
	})
}
