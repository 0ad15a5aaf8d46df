package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/vrushal1018/points-table-system/internal/adapters/http/api"
	app "github.com/vrushal1018/points-table-system/internal/app"
	"github.com/vrushal1018/points-table-system/internal/config"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("POINTS_ADDR", ":8080")
			_ = os.Setenv("POINTS_MAX_IMAGES", "5")
			defer func() {
				_ = os.Unsetenv("POINTS_ADDR")
				_ = os.Unsetenv("POINTS_MAX_IMAGES")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxImages, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.MaxImages(), convey.ShouldEqual, 10)
				convey.So(svc.MaxImageSize(), convey.ShouldEqual, int64(10<<20))
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithMaxImages(3),
					app.WithMaxImageSize(5<<20),
					app.WithImageDelay(2*time.Second),
					app.WithPositionPoints(map[int]int{1: 12}),
				)
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.MaxImages(), convey.ShouldEqual, 3)
				convey.So(svc.MaxImageSize(), convey.ShouldEqual, int64(5<<20))
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			mux := http.NewServeMux()
			apiServer := api.NewServer(svc, svc)
			apiServer.Register(context.Background(), mux)

			srv := &http.Server{
				Addr:              ":0",
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			convey.Convey("Then the server should carry the configured timeouts", func() {
				convey.So(srv, convey.ShouldNotBeNil)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(srv.IdleTimeout, convey.ShouldEqual, 60*time.Second)
			})
		})
	})
}
