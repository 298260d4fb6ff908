package board_test

import (
	"errors"
	"testing"

	"github.com/okian/tierlist/internal/domain/board"
	"github.com/okian/tierlist/internal/domain/category"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

func newBoard() *board.Board {
	b, err := board.New(board.DefaultTiers())
	if err != nil {
		panic(err)
	}
	return b
}

func TestNew(t *testing.T) {
	Convey("Given tier configurations", t, func() {
		Convey("When using the default tiers", func() {
			b := newBoard()
			snap := b.Snapshot()

			Convey("Then the pool comes after six tiers", func() {
				So(len(snap.Containers), ShouldEqual, 7)
				So(len(snap.Tiers()), ShouldEqual, 6)
				So(snap.Containers[6].Kind, ShouldEqual, board.KindPool)
				So(snap.Containers[len(snap.Containers)-1].ID, ShouldEqual, board.PoolID)
			})
		})

		Convey("When a tier id is duplicated", func() {
			_, err := board.New([]board.TierSpec{{ID: "s"}, {ID: "s"}})
			So(errors.Is(err, board.ErrInvalidTiers), ShouldBeTrue)
		})

		Convey("When a tier uses the pool id", func() {
			_, err := board.New([]board.TierSpec{{ID: board.PoolID}})
			So(errors.Is(err, board.ErrInvalidTiers), ShouldBeTrue)
		})

		Convey("When a tier has no label", func() {
			b, err := board.New([]board.TierSpec{{ID: "gold"}})
			So(err, ShouldBeNil)
			So(b.Snapshot().Containers[0].Label, ShouldEqual, "GOLD")
		})
	})
}

func TestAdd(t *testing.T) {
	Convey("Given an empty board", t, func() {
		b := newBoard()

		Convey("When adding a manual entry", func() {
			err := b.Add(board.Entry{Identifier: "  alice  "})

			Convey("Then it lands in the pool trimmed", func() {
				So(err, ShouldBeNil)
				loc, ok := b.Locate("alice")
				So(ok, ShouldBeTrue)
				So(loc, ShouldEqual, board.PoolID)
			})

			Convey("And adding it again is rejected without a second node", func() {
				err := b.Add(board.Entry{Identifier: "alice", IsExternalUser: true})
				So(errors.Is(err, board.ErrDuplicate), ShouldBeTrue)
				So(b.Len(), ShouldEqual, 1)
				e, _ := b.Entry("alice")
				So(e.IsExternalUser, ShouldBeFalse)
			})
		})

		Convey("When adding an empty identifier", func() {
			err := b.Add(board.Entry{Identifier: "   "})
			So(errors.Is(err, board.ErrEmptyIdentifier), ShouldBeTrue)
			So(b.Len(), ShouldEqual, 0)
		})
	})
}

func TestMove(t *testing.T) {
	Convey("Given a board with entries in the pool", t, func() {
		b := newBoard()
		So(b.Add(board.Entry{Identifier: "alice"}), ShouldBeNil)
		So(b.Add(board.Entry{Identifier: "bob"}), ShouldBeNil)
		original := b.Membership()

		Convey("When moving to a tier and back", func() {
			So(b.Move("alice", "s"), ShouldBeNil)
			loc, _ := b.Locate("alice")
			So(loc, ShouldEqual, "s")
			So(b.Move("alice", board.PoolID), ShouldBeNil)

			Convey("Then membership equals the original", func() {
				So(b.Membership(), ShouldResemble, original)
			})

			Convey("And the moved entry is appended last", func() {
				So(b.Identifiers(), ShouldResemble, []string{"bob", "alice"})
			})
		})

		Convey("When the target container is unknown", func() {
			err := b.Move("alice", "nowhere")

			Convey("Then the entry stays where it was", func() {
				So(errors.Is(err, board.ErrUnknownContainer), ShouldBeTrue)
				So(b.Membership(), ShouldResemble, original)
			})
		})

		Convey("When the entry is unknown", func() {
			err := b.Move("carol", "a")
			So(errors.Is(err, board.ErrUnknownEntry), ShouldBeTrue)
		})

		Convey("When relocating many times", func() {
			for i := 0; i < 50; i++ {
				target := []string{"s", "a", "b", "c", "d", "f", board.PoolID}[i%7]
				So(b.Move("alice", target), ShouldBeNil)
			}

			Convey("Then each entry is in exactly one container", func() {
				seen := map[string]int{}
				for _, c := range b.Snapshot().Containers {
					for _, e := range c.Entries {
						seen[e.Identifier]++
					}
				}
				So(seen, ShouldResemble, map[string]int{"alice": 1, "bob": 1})
			})
		})
	})
}

func TestDetachAppendContainer(t *testing.T) {
	Convey("Given a board with one entry in a tier", t, func() {
		b := newBoard()
		So(b.Add(board.Entry{Identifier: "alice", Score: intPtr(1500)}), ShouldBeNil)
		So(b.Move("alice", "a"), ShouldBeNil)

		Convey("When the entry is detached", func() {
			e, err := b.Detach("alice")
			So(err, ShouldBeNil)

			Convey("Then it keeps its data and belongs to no container", func() {
				So(e.Identifier, ShouldEqual, "alice")
				So(*e.Score, ShouldEqual, 1500)
				So(b.Has("alice"), ShouldBeFalse)
				_, ok := b.Locate("alice")
				So(ok, ShouldBeFalse)
				tier, _ := b.Container("a")
				So(tier.Entries, ShouldBeEmpty)
			})

			Convey("And appending it elsewhere places it last", func() {
				So(b.Add(board.Entry{Identifier: "bob"}), ShouldBeNil)
				So(b.Append(board.PoolID, e), ShouldBeNil)
				pool, ok := b.Container(board.PoolID)
				So(ok, ShouldBeTrue)
				So(pool.Kind, ShouldEqual, board.KindPool)
				So(pool.Entries, ShouldHaveLength, 2)
				So(pool.Entries[1].Identifier, ShouldEqual, "alice")
			})
		})

		Convey("When appending a duplicate", func() {
			err := b.Append("s", board.Entry{Identifier: "alice"})
			So(errors.Is(err, board.ErrDuplicate), ShouldBeTrue)
		})

		Convey("When appending to an unknown container", func() {
			err := b.Append("zz", board.Entry{Identifier: "carol"})
			So(errors.Is(err, board.ErrUnknownContainer), ShouldBeTrue)
			So(b.Has("carol"), ShouldBeFalse)
		})

		Convey("When detaching an unknown entry", func() {
			_, err := b.Detach("ghost")
			So(errors.Is(err, board.ErrUnknownEntry), ShouldBeTrue)
		})

		Convey("When looking up containers", func() {
			tier, ok := b.Container("a")
			So(ok, ShouldBeTrue)
			So(tier.Kind, ShouldEqual, board.KindTier)
			So(tier.Label, ShouldEqual, "A")
			So(tier.Entries[0].Identifier, ShouldEqual, "alice")
			_, ok = b.Container("zz")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestClearAndReset(t *testing.T) {
	Convey("Given a board with ranked entries", t, func() {
		b := newBoard()
		for _, id := range []string{"a1", "a2", "p1"} {
			So(b.Add(board.Entry{Identifier: id}), ShouldBeNil)
		}
		So(b.Move("a1", "s"), ShouldBeNil)
		So(b.Move("a2", "f"), ShouldBeNil)

		Convey("When clearing tiers", func() {
			moved := b.ClearTiers()

			Convey("Then all entries are back in the pool in tier order", func() {
				So(moved, ShouldEqual, 2)
				pool, _ := b.Container(board.PoolID)
				So(pool.Entries, ShouldHaveLength, 3)
				So(b.Identifiers(), ShouldResemble, []string{"p1", "a1", "a2"})
			})
		})

		Convey("When resetting", func() {
			b.Reset()

			Convey("Then the board is empty but containers remain", func() {
				So(b.Len(), ShouldEqual, 0)
				So(b.Resolve("s"), ShouldBeTrue)
				So(b.Has("a1"), ShouldBeFalse)
			})
		})

		Convey("When removing an entry", func() {
			So(b.Remove("a1"), ShouldBeNil)
			So(b.Has("a1"), ShouldBeFalse)
			So(errors.Is(b.Remove("a1"), board.ErrUnknownEntry), ShouldBeTrue)
		})
	})
}

func TestEntryCategory(t *testing.T) {
	Convey("Given entries with and without scores", t, func() {
		scored := board.Entry{Identifier: "x", IsExternalUser: true, Score: intPtr(2600)}
		plain := board.Entry{Identifier: "y"}

		c, ok := scored.Category()
		So(ok, ShouldBeTrue)
		So(c, ShouldEqual, category.Renowned)

		_, ok = plain.Category()
		So(ok, ShouldBeFalse)
	})
}
