package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	repository "github.com/okian/woundcare/internal/adapters/repository"
	service "github.com/okian/woundcare/internal/app"
	"github.com/okian/woundcare/internal/domain/catalog"
	"github.com/okian/woundcare/internal/domain/model"
	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/okian/woundcare/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func started(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{service.WithClock(clock)}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithHistoryLimit(10), service.WithDedupeSize(100), service.WithShardCount(2))
		ctx := context.Background()

		Convey("When used before Start", func() {
			_, err := svc.Analyze(ctx, "AAAA", nil)

			Convey("Then it should return ErrNotStarted", func() {
				So(err, ShouldEqual, service.ErrNotStarted)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When started and stopped", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["historyLimit"], ShouldEqual, 10)
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And it can be started again with a fresh store", func() {
				So(svc.Start(ctx), ShouldBeNil)
				defer svc.Stop()
				list, err := svc.History(ctx, "anyone")
				So(err, ShouldBeNil)
				So(list, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a service on an injected store", t, func() {
		store := repository.NewMemoryStore()
		defer func() { _ = store.Close() }()
		svc := service.New(service.WithStore(store, "memory"))
		ctx := context.Background()

		Convey("When it is stopped and started again", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.SetRole(ctx, "doc@example.com", model.RoleDoctor), ShouldBeNil)
			svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the store should still be open and keep its data", func() {
				role, err := svc.Role(ctx, "doc@example.com")
				So(err, ShouldBeNil)
				So(role, ShouldEqual, model.RoleDoctor)
				So(store.Len(ctx), ShouldEqual, 1)
			})
		})
	})
}

func TestService_Analyze(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When analyzing a bare payload", func() {
			notes := "left knee"
			a, err := svc.Analyze(ctx, "AAAA", &notes)

			Convey("Then the server preset scores should be returned", func() {
				So(err, ShouldBeNil)
				So(a.Scores, ShouldResemble, model.Scores{
					SizeReduction: 0.67, Redness: 0.76, Pus: 0.33, InfectionRisk: 0.49, OverallHealing: 0.55,
				})
				So(a.Timestamp.Equal(fixedNow), ShouldBeTrue)
				So(*a.Explanation.Notes, ShouldEqual, "left knee")
				So(a.Explanation.Summary, ShouldEqual, scoring.Summary)
				So(a.ImageData, ShouldBeEmpty)
				So(a.ID, ShouldBeEmpty)
			})
		})

		Convey("When analyzing a data URL", func() {
			bare, err1 := svc.Analyze(ctx, "AAAA", nil)
			wrapped, err2 := svc.Analyze(ctx, "data:image/png;base64,AAAA", nil)

			Convey("Then the header should not affect the scores", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(wrapped.Scores, ShouldResemble, bare.Scores)
			})
		})

		Convey("When the payload is empty", func() {
			_, err := svc.Analyze(ctx, "", nil)

			Convey("Then it should be rejected", func() {
				So(err, ShouldEqual, service.ErrMissingImage)
			})
		})

		Convey("When using the client preset", func() {
			client := started(service.WithAnalyzePreset(scoring.ClientPreset()))
			defer client.Stop()
			a, err := client.Analyze(ctx, "AAAA", nil)

			Convey("Then the client constants should apply", func() {
				So(err, ShouldBeNil)
				So(a.Scores.SizeReduction, ShouldEqual, 0.6)
				So(a.Scores.OverallHealing, ShouldEqual, 0.53)
			})
		})

		Convey("Then analyses should be counted", func() {
			_, _ = svc.Analyze(ctx, "AAAA", nil)
			So(svc.GetStats()["analyses"], ShouldEqual, int64(1))
		})
	})
}

func TestService_History(t *testing.T) {
	Convey("Given a started service with a history limit of 3", t, func() {
		svc := started(service.WithHistoryLimit(3))
		defer svc.Stop()
		ctx := context.Background()
		user := "pat@example.com"

		Convey("When saving an entry without id or timestamp", func() {
			list, dup, err := svc.SaveAnalysis(ctx, user, model.Analysis{Scores: model.Scores{Redness: 0.5}})

			Convey("Then both should be assigned", func() {
				So(err, ShouldBeNil)
				So(dup, ShouldBeFalse)
				So(list, ShouldHaveLength, 1)
				So(list[0].ID, ShouldNotBeEmpty)
				So(list[0].Timestamp.Equal(fixedNow), ShouldBeTrue)
			})
		})

		Convey("When the same entry is saved twice", func() {
			entry := model.Analysis{ID: "fixed-id", Timestamp: fixedNow}
			_, _, err := svc.SaveAnalysis(ctx, user, entry)
			So(err, ShouldBeNil)
			list, dup, err := svc.SaveAnalysis(ctx, user, entry)

			Convey("Then the second write should be acknowledged without duplication", func() {
				So(err, ShouldBeNil)
				So(dup, ShouldBeTrue)
				So(list, ShouldHaveLength, 1)
			})

			Convey("And another user may reuse the id", func() {
				_, dup, err := svc.SaveAnalysis(ctx, "doc@example.com", entry)
				So(err, ShouldBeNil)
				So(dup, ShouldBeFalse)
			})

			Convey("And after clearing the history it may be saved again", func() {
				_, _, err := svc.SaveAnalysis(ctx, "pat@example.com.au", model.Analysis{ID: "fixed-id"})
				So(err, ShouldBeNil)
				So(svc.ClearHistory(ctx, user), ShouldBeNil)

				list, dup, err := svc.SaveAnalysis(ctx, user, entry)
				So(err, ShouldBeNil)
				So(dup, ShouldBeFalse)
				So(list, ShouldHaveLength, 1)
				So(list[0].ID, ShouldEqual, "fixed-id")

				_, dup, err = svc.SaveAnalysis(ctx, "pat@example.com.au", model.Analysis{ID: "fixed-id"})
				So(err, ShouldBeNil)
				So(dup, ShouldBeTrue)
			})
		})

		Convey("When more entries than the limit are saved", func() {
			for i := 0; i < 5; i++ {
				_, _, err := svc.SaveAnalysis(ctx, user, model.Analysis{ID: fmt.Sprintf("e%d", i)})
				So(err, ShouldBeNil)
			}
			list, err := svc.History(ctx, user)

			Convey("Then only the newest should be kept", func() {
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 3)
				So(list[0].ID, ShouldEqual, "e4")
			})

			Convey("And clearing should empty it", func() {
				So(svc.ClearHistory(ctx, user), ShouldBeNil)
				list, err := svc.History(ctx, user)
				So(err, ShouldBeNil)
				So(list, ShouldBeEmpty)
			})
		})
	})
}

type failingStore struct{ repository.Store }

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, repository.ErrNotFound }
func (failingStore) Put(context.Context, string, []byte) error { return errors.New("disk full") }
func (failingStore) Close() error { return nil }

func TestService_HistoryFailure(t *testing.T) {
	Convey("Given a service whose store rejects writes", t, func() {
		svc := started(service.WithStore(failingStore{}, "failing"))
		defer svc.Stop()
		ctx := context.Background()
		entry := model.Analysis{ID: "retry-me"}

		Convey("When a save fails", func() {
			_, _, err := svc.SaveAnalysis(ctx, "u", entry)

			Convey("Then a retry should not be treated as a duplicate", func() {
				So(err, ShouldNotBeNil)
				_, dup, err := svc.SaveAnalysis(ctx, "u", entry)
				So(err, ShouldNotBeNil)
				So(dup, ShouldBeFalse)
			})
		})
	})
}

func TestService_Roles(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When no role was set", func() {
			role, err := svc.Role(ctx, "new@example.com")

			Convey("Then the user should be a patient", func() {
				So(err, ShouldBeNil)
				So(role, ShouldEqual, model.RolePatient)
			})
		})

		Convey("When a doctor role is set", func() {
			So(svc.SetRole(ctx, "doc@example.com", model.RoleDoctor), ShouldBeNil)
			role, err := svc.Role(ctx, "doc@example.com")

			Convey("Then it should be returned", func() {
				So(err, ShouldBeNil)
				So(role, ShouldEqual, model.RoleDoctor)
			})
		})
	})
}

func TestService_Timeline(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When listing patients", func() {
			patients := svc.Patients(ctx)

			Convey("Then the demo patients should be returned", func() {
				So(patients, ShouldHaveLength, 3)
			})
		})

		Convey("When requesting alice's timeline", func() {
			points, err := svc.Timeline(ctx, "alice")

			Convey("Then each image should be scored with the client preset", func() {
				So(err, ShouldBeNil)
				So(points, ShouldHaveLength, 3)
				So(points[0].Scores, ShouldResemble, model.Scores{
					SizeReduction: 0.31, Redness: 0.35, Pus: 0.19, InfectionRisk: 0.27, OverallHealing: 0.45,
				})
				So(points[2].Scores.OverallHealing, ShouldEqual, 0.63)
				So(points[0].Timestamp.Equal(fixedNow.Add(-72*time.Hour)), ShouldBeTrue)
			})
		})

		Convey("When requesting an unknown patient", func() {
			_, err := svc.Timeline(ctx, "mallory")

			Convey("Then ErrPatientNotFound should be returned", func() {
				So(err, ShouldEqual, catalog.ErrPatientNotFound)
			})
		})
	})
}
