package conformance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/woundcare/internal/adapters/http/api"
	service "github.com/okian/woundcare/internal/app"
	"github.com/okian/woundcare/internal/conformance"
	"github.com/okian/woundcare/internal/domain/scoring"
	"github.com/okian/woundcare/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(opts ...service.Option) (*httptest.Server, *service.Service) {
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func TestRun(t *testing.T) {
	Convey("Given a running server on the server preset", t, func() {
		srv, svc := newServer()
		defer srv.Close()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When running a conformance check", func() {
			report, err := conformance.Run(ctx, conformance.Config{
				BaseURL:  srv.URL + "/",
				Payloads: 24,
				Repeat:   2,
				Workers:  4,
				MaxBytes: 1024,
			})

			Convey("Then every response should match the local core", func() {
				So(err, ShouldBeNil)
				So(report.Generated, ShouldEqual, 24)
				So(report.Submitted, ShouldEqual, 48)
				So(report.Matched, ShouldEqual, 48)
				So(report.Mismatches, ShouldBeEmpty)
				So(report.OK(), ShouldBeTrue)
			})
		})

		Convey("When expecting the wrong preset", func() {
			report, err := conformance.Run(ctx, conformance.Config{
				BaseURL:  srv.URL,
				Payloads: 16,
				Repeat:   1,
				Workers:  2,
				Preset:   scoring.PresetClient,
			})

			Convey("Then mismatches should be reported", func() {
				So(err, ShouldBeNil)
				So(report.Mismatched, ShouldBeGreaterThan, 0)
				So(report.OK(), ShouldBeFalse)
			})
		})

		Convey("When the preset is unknown", func() {
			_, err := conformance.Run(ctx, conformance.Config{BaseURL: srv.URL, Preset: "mobile"})

			Convey("Then the run should not start", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRunFailures(t *testing.T) {
	Convey("Given a server that rejects every analysis", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request"})
		}))
		defer srv.Close()

		Convey("When running a conformance check", func() {
			report, err := conformance.Run(context.Background(), conformance.Config{
				BaseURL: srv.URL, Payloads: 3, Repeat: 1, Workers: 1, Timeout: 5 * time.Second,
			})

			Convey("Then every submission should count as failed", func() {
				So(err, ShouldBeNil)
				So(report.Failed, ShouldEqual, 3)
				So(report.Mismatches, ShouldHaveLength, 3)
				So(report.Mismatches[0].Status, ShouldEqual, http.StatusBadRequest)
				So(report.OK(), ShouldBeFalse)
			})
		})
	})

	Convey("Given no server", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		Convey("Then the health check should fail", func() {
			_, err := conformance.Run(context.Background(), conformance.Config{BaseURL: url, Timeout: time.Second})
			So(err, ShouldNotBeNil)
		})
	})
}
