package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/tierlist/internal/adapters/mq/queue"
	worker "github.com/okian/tierlist/internal/adapters/mq/worker"
	model "github.com/okian/tierlist/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func await(t *testing.T, cmd model.Command) error {
	t.Helper()
	select {
	case err := <-cmd.Done():
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("command %s never completed", cmd.Name)
		return nil
	}
}

func TestDispatcher(t *testing.T) {
	convey.Convey("Given a running dispatcher", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		d := worker.NewDispatcher(q, worker.WithName("test"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go d.Run(ctx)
		defer func() {
			_ = q.Close()
			_ = d.Shutdown(context.Background())
		}()

		convey.Convey("When commands are enqueued", func() {
			var order []int
			cmds := make([]model.Command, 0, 10)
			for i := 0; i < 10; i++ {
				cmd := model.NewCommand("append", func(context.Context) error {
					order = append(order, i)
					return nil
				})
				cmds = append(cmds, cmd)
				convey.So(q.Enqueue(ctx, cmd), convey.ShouldBeNil)
			}
			for _, cmd := range cmds {
				convey.So(await(t, cmd), convey.ShouldBeNil)
			}

			convey.Convey("Then they run in order", func() {
				convey.So(order, convey.ShouldResemble, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
			})
		})

		convey.Convey("When commands come from many goroutines", func() {
			counter := 0
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 5; j++ {
						cmd := model.NewCommand("inc", func(context.Context) error {
							counter++
							return nil
						})
						if err := q.Enqueue(ctx, cmd); err != nil {
							t.Errorf("enqueue: %v", err)
							return
						}
						<-cmd.Done()
					}
				}()
			}
			wg.Wait()

			convey.Convey("Then none of the increments race", func() {
				convey.So(counter, convey.ShouldEqual, 40)
			})
		})

		convey.Convey("When a command fails", func() {
			boom := errors.New("boom")
			cmd := model.NewCommand("fail", func(context.Context) error { return boom })
			convey.So(q.Enqueue(ctx, cmd), convey.ShouldBeNil)
			convey.So(errors.Is(await(t, cmd), boom), convey.ShouldBeTrue)
		})

		convey.Convey("When a command panics", func() {
			cmd := model.NewCommand("panic", func(context.Context) error { panic("bad") })
			convey.So(q.Enqueue(ctx, cmd), convey.ShouldBeNil)

			convey.Convey("Then the panic becomes an error and the loop survives", func() {
				convey.So(errors.Is(await(t, cmd), worker.ErrPanic), convey.ShouldBeTrue)
				next := model.NewCommand("after", func(context.Context) error { return nil })
				convey.So(q.Enqueue(ctx, next), convey.ShouldBeNil)
				convey.So(await(t, next), convey.ShouldBeNil)
			})
		})
	})
}

func TestDispatcherShutdown(t *testing.T) {
	convey.Convey("Given a dispatcher with queued work and no loop", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		d := worker.NewDispatcher(q)
		pending := model.NewCommand("late", func(context.Context) error { return nil })
		convey.So(q.Enqueue(context.Background(), pending), convey.ShouldBeNil)

		convey.Convey("When it is shut down before running", func() {
			go d.Run(context.Background())
			_ = q.Close()
			err := d.Shutdown(context.Background())

			convey.Convey("Then the loop exits and no command hangs", func() {
				convey.So(err, convey.ShouldBeNil)
				select {
				case <-d.Done():
				case <-time.After(time.Second):
					t.Fatal("dispatcher did not stop")
				}
				convey.So(await(t, pending), convey.ShouldBeIn, []error{nil, worker.ErrStopped})
			})
		})
	})

	convey.Convey("Given a dispatcher whose context is canceled", t, func() {
		q := queue.NewInMemoryQueue()
		d := worker.NewDispatcher(q)
		ctx, cancel := context.WithCancel(context.Background())
		go d.Run(ctx)
		cancel()

		convey.Convey("Then it stops on its own", func() {
			select {
			case <-d.Done():
			case <-time.After(time.Second):
				t.Fatal("dispatcher did not stop")
			}
			convey.So(d.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a dispatcher that never started", t, func() {
		d := worker.NewDispatcher(queue.NewInMemoryQueue())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		convey.Convey("Then shutdown times out", func() {
			convey.So(d.Shutdown(ctx), convey.ShouldNotBeNil)
		})
	})
}
