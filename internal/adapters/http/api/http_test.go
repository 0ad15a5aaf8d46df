package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	api "github.com/vrushal1018/points-table-system/internal/adapters/http/api"
	service "github.com/vrushal1018/points-table-system/internal/app"
	model "github.com/vrushal1018/points-table-system/internal/domain/model"
	"github.com/vrushal1018/points-table-system/internal/export"
)

// mockDeps is a canned-response implementation of the handler dependencies.
type mockDeps struct {
	slots      []api.SlotRecord
	results    map[string]api.ResultRecord
	rows       []api.PointsRow
	analyzeErr error
	maxBytes   int64
	gotImages  []model.Image
	gotSlots   []api.SlotRecord
}

func (m *mockDeps) AnalyzeSlots(ctx context.Context, images []model.Image) ([]api.SlotRecord, error) {
	m.gotImages = images
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	return m.slots, nil
}

func (m *mockDeps) AnalyzeResults(ctx context.Context, images []model.Image) (map[string]api.ResultRecord, error) {
	m.gotImages = images
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	return m.results, nil
}

func (m *mockDeps) BuildTable(ctx context.Context, results map[string]api.ResultRecord) ([]api.PointsRow, error) {
	return m.rows, nil
}

func (m *mockDeps) BuildTableWithSlots(ctx context.Context, results map[string]api.ResultRecord, slots []api.SlotRecord) ([]api.PointsRow, error) {
	m.gotSlots = slots
	return m.rows, nil
}

func (m *mockDeps) MaxImages() int { return 10 }

func (m *mockDeps) MaxImageSize() int64 {
	if m.maxBytes > 0 {
		return m.maxBytes
	}
	return 10 << 20
}

func (m *mockDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"slotBatches": 1}
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, deps).Register(context.Background(), mux)
	return mux
}

func multipartUpload(fileNames ...string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range fileNames {
		part, _ := writer.CreateFormFile("images", name)
		_, _ = part.Write([]byte("fake image bytes"))
	}
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func TestAnalyzeEndpoints(t *testing.T) {
	Convey("Given a server with canned analysis results", t, func() {
		deps := &mockDeps{
			slots: []api.SlotRecord{{SlotNo: 4, TeamMembers: []string{"Alpha1"}}},
			results: map[string]api.ResultRecord{
				"1": {Rank: 1, TeamMembers: []string{"Alpha1"}, Finishes: []int{5}},
			},
		}
		mux := newMux(deps)

		Convey("When posting screenshots to analyze-slots", func() {
			body, contentType := multipartUpload("a.png", "b.png")
			req := httptest.NewRequest(http.MethodPost, "/api/analyze-slots", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the slots should come back in the success envelope", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Success bool             `json:"success"`
					Data    []api.SlotRecord `json:"data"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Success, ShouldBeTrue)
				So(resp.Data, ShouldHaveLength, 1)
				So(resp.Data[0].SlotNo, ShouldEqual, 4)
			})

			Convey("And both uploads should reach the pipeline", func() {
				So(deps.gotImages, ShouldHaveLength, 2)
				So(deps.gotImages[0].Name, ShouldEqual, "a.png")
			})
		})

		Convey("When posting screenshots to analyze-results", func() {
			body, contentType := multipartUpload("scores.png")
			req := httptest.NewRequest(http.MethodPost, "/api/analyze-results", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the result map should come back keyed by rank", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Success bool                        `json:"success"`
					Data    map[string]api.ResultRecord `json:"data"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Data, ShouldContainKey, "1")
			})
		})

		Convey("When posting a form without any files", func() {
			body, contentType := multipartUpload()
			req := httptest.NewRequest(http.MethodPost, "/api/analyze-slots", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "no images uploaded")
			})
		})

		Convey("When posting more files than one batch may carry", func() {
			names := make([]string, 11)
			for i := range names {
				names[i] = "shot.png"
			}
			body, contentType := multipartUpload(names...)
			req := httptest.NewRequest(http.MethodPost, "/api/analyze-slots", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request should be rejected before analysis", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "too many images")
				So(deps.gotImages, ShouldBeNil)
			})
		})

		Convey("When issuing a GET to an analyze endpoint", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/analyze-slots", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should not be found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a pipeline that extracts nothing", t, func() {
		deps := &mockDeps{analyzeErr: service.ErrNoData}
		mux := newMux(deps)

		Convey("When posting screenshots", func() {
			body, contentType := multipartUpload("blank.png")
			req := httptest.NewRequest(http.MethodPost, "/api/analyze-results", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the failure should surface as a server error with a hint", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				var resp struct {
					Error   string `json:"error"`
					Details string `json:"details"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Error, ShouldEqual, "no valid data extracted from images")
				So(resp.Details, ShouldContainSubstring, "check that the images contain clear")
				So(resp.Details, ShouldNotEqual, resp.Error)
			})
		})
	})

	Convey("Given a server with a small per-image size cap", t, func() {
		deps := &mockDeps{maxBytes: 8}
		mux := newMux(deps)

		Convey("When posting a file above the cap", func() {
			body, contentType := multipartUpload("huge.png")
			req := httptest.NewRequest(http.MethodPost, "/api/analyze-results", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request should be rejected before analysis", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "image too large")
				So(rec.Body.String(), ShouldContainSubstring, "huge.png")
				So(deps.gotImages, ShouldBeNil)
			})
		})
	})
}

func TestPointsTableEndpoint(t *testing.T) {
	rank := 1
	slotNo := 4
	rows := []api.PointsRow{
		{SlotNo: &slotNo, TeamMembers: []string{"Alpha1"}, TotalFinishes: 14, PositionPoints: 10, TotalPoints: 24, Rank: &rank},
	}

	Convey("Given a server with a canned table", t, func() {
		deps := &mockDeps{rows: rows}
		mux := newMux(deps)

		Convey("When posting results alone", func() {
			payload := `{"results": {"1": {"rank": 1, "team_members": ["Alpha1"], "finishes": [5]}}}`
			req := httptest.NewRequest(http.MethodPost, "/api/points-table", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then rows should come back without consulting the slot join", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.gotSlots, ShouldBeNil)
				var resp struct {
					Success bool            `json:"success"`
					Data    []api.PointsRow `json:"data"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Data, ShouldHaveLength, 1)
				So(resp.Data[0].TotalPoints, ShouldEqual, 24)
			})
		})

		Convey("When posting results together with a slot list", func() {
			payload := `{
				"results": {"1": {"rank": 1, "team_members": ["Alpha1"], "finishes": [5]}},
				"slots": [{"slot_no": 4, "team_members": ["Alpha1"]}]
			}`
			req := httptest.NewRequest(http.MethodPost, "/api/points-table", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the slot join path should be used", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.gotSlots, ShouldHaveLength, 1)
			})
		})

		Convey("When posting a body without results", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/points-table", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "missing results")
			})
		})

		Convey("When posting malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/points-table", strings.NewReader(`{"results": `))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestExportEndpoint(t *testing.T) {
	slotNo := 4
	rows := []api.PointsRow{
		{SlotNo: &slotNo, TeamMembers: []string{"Alpha1", "Alpha2"}, TotalFinishes: 14, PositionPoints: 10, TotalPoints: 24},
	}
	payload := `{"results": {"1": {"rank": 1, "team_members": ["Alpha1", "Alpha2"], "finishes": [5]}}}`

	Convey("Given a server with a canned table", t, func() {
		deps := &mockDeps{rows: rows}
		mux := newMux(deps)

		Convey("When exporting without a format", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then a CSV attachment should be served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
				So(rec.Header().Get("Content-Disposition"), ShouldEqual, "attachment; filename=points_table.csv")
				So(rec.Body.String(), ShouldStartWith, "Slot No,Team Members,Finishes,Position Points,Total Points")
				So(rec.Body.String(), ShouldContainSubstring, `4,"Alpha1, Alpha2",14,10,24`)
			})
		})

		Convey("When exporting as xlsx", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/export?format=xlsx", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then a spreadsheet attachment should be served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "spreadsheetml")
				So(rec.Header().Get("Content-Disposition"), ShouldEqual, "attachment; filename=points_table.xlsx")
				So(rec.Body.Len(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When requesting an unknown format", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/export?format=pdf", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the request should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				var resp struct {
					Error   string `json:"error"`
					Details string `json:"details"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Error, ShouldEqual, `unsupported format "pdf"`)
				So(resp.Details, ShouldContainSubstring, export.ErrUnsupportedFormat.Error())
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a server with a stats provider", t, func() {
		mux := newMux(&mockDeps{})

		Convey("When fetching stats", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the counters should be returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var stats map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["slotBatches"], ShouldEqual, 1.0)
			})
		})
	})
}
