package analyzecli_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	analyzecli "github.com/vrushal1018/points-table-system/internal/analyzecli"
)

func writeTempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake image bytes"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSplitFiles(t *testing.T) {
	Convey("Given comma-separated flag values", t, func() {
		Convey("Then entries should be trimmed and empties dropped", func() {
			So(analyzecli.SplitFiles("a.png, b.png ,,c.png"), ShouldResemble, []string{"a.png", "b.png", "c.png"})
			So(analyzecli.SplitFiles("  "), ShouldBeNil)
			So(analyzecli.SplitFiles(""), ShouldBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a service that analyzes and exports", t, func() {
		var hits []string
		mux := http.NewServeMux()
		mux.HandleFunc("/api/analyze-results", func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, r.URL.Path)
			w.Write([]byte(`{"success": true, "data": {"1": {"rank": 1, "team_members": ["Alpha1"], "finishes": [5]}}}`))
		})
		mux.HandleFunc("/api/points-table", func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, r.URL.Path)
			w.Write([]byte(`{"success": true, "data": [{"slot_no": null, "team_members": ["Alpha1"], "total_finishes": 5, "position_points": 10, "total_points": 15, "rank": 1}]}`))
		})
		mux.HandleFunc("/api/export", func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, r.URL.Path+"?"+r.URL.RawQuery)
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Write([]byte("Slot No,Team Members,Finishes,Position Points,Total Points\n"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		outPath := filepath.Join(t.TempDir(), "standings.csv")
		config := &analyzecli.Config{
			BaseURL:     srv.URL,
			ResultFiles: []string{writeTempImage(t, "match.png")},
			OutputFile:  outPath,
			Format:      "csv",
			Timeout:     5 * time.Second,
		}

		Convey("When running an analysis with export", func() {
			err := analyzecli.Run(context.Background(), config)

			Convey("Then the full endpoint sequence should be exercised", func() {
				So(err, ShouldBeNil)
				So(hits, ShouldResemble, []string{
					"/api/analyze-results",
					"/api/points-table",
					"/api/export?format=csv",
				})
			})

			Convey("And the artifact should land on disk", func() {
				data, readErr := os.ReadFile(outPath)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldStartWith, "Slot No")
			})
		})
	})

	Convey("Given a service that rejects the upload", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "no images uploaded"}`))
		}))
		defer srv.Close()

		config := &analyzecli.Config{
			BaseURL:     srv.URL,
			ResultFiles: []string{writeTempImage(t, "match.png")},
			Timeout:     5 * time.Second,
		}

		Convey("When running an analysis", func() {
			err := analyzecli.Run(context.Background(), config)

			Convey("Then the server's error message should surface", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "no images uploaded")
			})
		})
	})

	Convey("Given no result screenshots", t, func() {
		config := &analyzecli.Config{BaseURL: "http://unused", Timeout: time.Second}

		Convey("When running an analysis", func() {
			err := analyzecli.Run(context.Background(), config)

			Convey("Then it should refuse up front", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "-results")
			})
		})
	})
}
