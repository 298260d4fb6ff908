package types_test

import (
	"testing"

	"github.com/okian/tierlist/internal/domain/board"
	"github.com/okian/tierlist/internal/domain/render"
	types "github.com/okian/tierlist/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewBoardView(t *testing.T) {
	Convey("Given a board with a scored user in a tier", t, func() {
		b, err := board.New(board.DefaultTiers())
		So(err, ShouldBeNil)
		score := 1500
		So(b.Add(board.Entry{Identifier: "eve", IsExternalUser: true, AvatarURL: "https://x/e.png", Score: &score}), ShouldBeNil)
		So(b.Add(board.Entry{Identifier: "sam"}), ShouldBeNil)
		So(b.Move("eve", "a"), ShouldBeNil)

		Convey("When building a view in delete mode with a highlight", func() {
			v := types.NewBoardView(b.Snapshot(), true, "sam", []string{"a"})

			Convey("Then containers and specs line up", func() {
				So(v.Total, ShouldEqual, 2)
				So(v.DeleteMode, ShouldBeTrue)
				So(v.Dragging, ShouldEqual, "sam")
				So(v.Containers[1].ID, ShouldEqual, "a")
				So(v.Containers[1].Highlighted, ShouldBeTrue)
				So(v.Containers[0].Highlighted, ShouldBeFalse)
				So(v.Containers[1].Entries[0].Kind, ShouldEqual, render.KindExternal)
				So(v.Containers[1].Entries[0].Delete.Visible, ShouldBeTrue)
			})

			Convey("And the pool holds the plain entry", func() {
				pool := v.Containers[len(v.Containers)-1]
				So(pool.Kind, ShouldEqual, board.KindPool)
				So(pool.Entries, ShouldHaveLength, 1)
				So(pool.Entries[0].Kind, ShouldEqual, render.KindPlain)
			})
		})
	})
}
