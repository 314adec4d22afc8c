package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	repository "github.com/okian/woundcare/internal/adapters/repository"
	"github.com/okian/woundcare/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func entry(i int) model.Analysis {
	return model.Analysis{
		ID:        fmt.Sprintf("entry-%d", i),
		Timestamp: time.Date(2026, 10, 1, 0, 0, i, 0, time.UTC),
		Scores:    model.Scores{OverallHealing: 0.5},
	}
}

func TestHistory(t *testing.T) {
	Convey("Given a history capped at three entries", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		history := repository.NewHistory(store, 3)

		Convey("When nothing was written", func() {
			list, err := history.List(ctx, "pat@example.com")

			Convey("Then the history should be empty, not nil", func() {
				So(err, ShouldBeNil)
				So(list, ShouldNotBeNil)
				So(list, ShouldBeEmpty)
			})
		})

		Convey("When appending more entries than the cap", func() {
			for i := 1; i <= 5; i++ {
				_, err := history.Append(ctx, "pat@example.com", entry(i))
				So(err, ShouldBeNil)
			}
			list, err := history.List(ctx, "pat@example.com")

			Convey("Then only the newest entries should remain, newest first", func() {
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 3)
				So(list[0].ID, ShouldEqual, "entry-5")
				So(list[2].ID, ShouldEqual, "entry-3")
			})

			Convey("And other users should be unaffected", func() {
				other, err := history.List(ctx, "doc@example.com")
				So(err, ShouldBeNil)
				So(other, ShouldBeEmpty)
			})
		})

		Convey("When clearing", func() {
			_, err := history.Append(ctx, "", entry(1))
			So(err, ShouldBeNil)
			So(history.Clear(ctx, ""), ShouldBeNil)

			Convey("Then the history should be empty again", func() {
				list, err := history.List(ctx, repository.AnonymousUser)
				So(err, ShouldBeNil)
				So(list, ShouldBeEmpty)
			})
		})

		Convey("When the stored value is not JSON", func() {
			So(store.Put(ctx, repository.HistoryKey("x"), []byte("{")), ShouldBeNil)
			_, err := history.List(ctx, "x")

			Convey("Then it should report corruption", func() {
				So(errors.Is(err, repository.ErrCorrupt), ShouldBeTrue)
			})
		})

		Convey("When the limit is not positive", func() {
			Convey("Then the default should apply", func() {
				So(repository.NewHistory(store, 0).Limit(), ShouldEqual, repository.DefaultHistoryLimit)
			})
		})
	})
}

func TestKeys(t *testing.T) {
	Convey("Given user identities", t, func() {
		Convey("Then keys should follow the browser storage layout", func() {
			So(repository.HistoryKey("pat@example.com"), ShouldEqual, "wounds:pat@example.com")
			So(repository.HistoryKey("  "), ShouldEqual, "wounds:anon")
			So(repository.RoleKey(""), ShouldEqual, "demo_role:anon")
		})
	})
}

func TestRoles(t *testing.T) {
	Convey("Given a role store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		roles := repository.NewRoles(store)

		Convey("When no role was set", func() {
			_, err := roles.Get(ctx, "doc@example.com")

			Convey("Then it should return ErrNotFound", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When a role is set", func() {
			So(roles.Set(ctx, "doc@example.com", model.RoleDoctor), ShouldBeNil)

			Convey("Then it should be read back", func() {
				r, err := roles.Get(ctx, "doc@example.com")
				So(err, ShouldBeNil)
				So(r, ShouldEqual, model.RoleDoctor)
			})
		})

		Convey("When the stored role is unknown", func() {
			So(store.Put(ctx, repository.RoleKey("x"), []byte("admin")), ShouldBeNil)
			_, err := roles.Get(ctx, "x")

			Convey("Then it should report corruption", func() {
				So(errors.Is(err, repository.ErrCorrupt), ShouldBeTrue)
			})
		})
	})
}
