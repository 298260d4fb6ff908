package model_test

import (
	"context"
	"errors"
	"testing"

	model "github.com/okian/tierlist/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	convey.Convey("Given a new command", t, func() {
		ran := false
		cmd := model.NewCommand("add", func(context.Context) error {
			ran = true
			return nil
		})

		convey.Convey("Then it carries an id and a name", func() {
			convey.So(cmd.ID.String(), convey.ShouldNotBeEmpty)
			convey.So(cmd.Name, convey.ShouldEqual, "add")
			convey.So(cmd.EnqueuedAt.IsZero(), convey.ShouldBeFalse)
		})

		convey.Convey("When it is applied and completed", func() {
			err := cmd.Apply(context.Background())
			cmd.Complete(err)

			convey.Convey("Then the result is delivered", func() {
				convey.So(ran, convey.ShouldBeTrue)
				convey.So(<-cmd.Done(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When completed twice", func() {
			first := errors.New("first")
			cmd.Complete(first)
			cmd.Complete(errors.New("second"))

			convey.Convey("Then only the first result is kept", func() {
				convey.So(<-cmd.Done(), convey.ShouldEqual, first)
				extra := false
				select {
				case <-cmd.Done():
					extra = true
				default:
				}
				convey.So(extra, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When another command is created", func() {
			other := model.NewCommand("add", nil)
			convey.So(other.ID, convey.ShouldNotEqual, cmd.ID)
		})
	})

	convey.Convey("Given a zero command", t, func() {
		convey.So(func() { model.Command{}.Complete(nil) }, convey.ShouldNotPanic)
	})
}
