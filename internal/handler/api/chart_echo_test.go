package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"btcmag7/internal/domain/models"
	"btcmag7/internal/service/ratelimit"
	xlogger "btcmag7/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubChart struct {
	resp        *models.ChartResponse
	err         error
	invalidated int
	exists      bool
}

func (s *stubChart) Build(context.Context) (*models.ChartResponse, error) { return s.resp, s.err }

func (s *stubChart) InvalidateSnapshot(context.Context) error {
	s.invalidated++
	s.exists = false
	return nil
}

func (s *stubChart) SnapshotExists(context.Context) (bool, error) { return s.exists, nil }

func serve(h *ChartEchoHandler, method, path string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestChartDataSuccess(t *testing.T) {
	v := 101.25
	stub := &stubChart{resp: &models.ChartResponse{
		Dates:       []string{"2021-11-10"},
		IndexValues: []*float64{&v},
		MA200:       []*float64{nil},
		MA150:       []*float64{nil},
		MA100:       []*float64{nil},
		Tops:        []models.CycleMarker{{Date: "2021-11-10", Value: 250}},
		Bottoms:     []models.CycleMarker{},
	}}
	rec := serve(NewChartEchoHandler(xlogger.Nop(), stub), http.MethodGet, "/chart-data")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, k := range []string{"dates", "index_values", "ma200", "ma150", "ma100", "tops", "bottoms"} {
		if _, ok := body[k]; !ok {
			t.Errorf("missing key %s", k)
		}
	}
	if string(body["ma200"]) != "[null]" {
		t.Errorf("ma200 = %s, want [null]", body["ma200"])
	}
	if string(body["tops"]) != `[{"date":"2021-11-10","value":250}]` {
		t.Errorf("tops = %s", body["tops"])
	}
}

func TestChartDataErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"data quality", models.DataQualityError("weighted column MSFT missing from price table"), http.StatusInternalServerError},
		{"source", models.SourceUnavailableError(errors.New("dial tcp: timeout"), "read collection"), http.StatusBadGateway},
		{"cache", models.CacheCorruptError(nil, "snapshot has no Date column"), http.StatusInternalServerError},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(NewChartEchoHandler(xlogger.Nop(), &stubChart{err: tc.err}), http.MethodGet, "/chart-data")
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tc.err.Error() {
				t.Fatalf("error = %q, want %q", body.Error, tc.err.Error())
			}
		})
	}
}

func TestChartDataRateLimited(t *testing.T) {
	h := NewChartEchoHandler(xlogger.Nop(), &stubChart{resp: &models.ChartResponse{}})
	h.SetLimiter(ratelimit.New(1, 0))

	e := echo.New()
	h.RegisterRoutes(e)
	codes := make([]int, 2)
	for i := range codes {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart-data", nil))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestSnapshotAdmin(t *testing.T) {
	stub := &stubChart{exists: true}
	h := NewChartEchoHandler(xlogger.Nop(), stub)

	rec := serve(h, http.MethodGet, "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"status\":\"ok\",\"snapshot\":true}\n" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(h, http.MethodDelete, "/admin/snapshot")
	if rec.Code != http.StatusNoContent || stub.invalidated != 1 {
		t.Fatalf("invalidate = %d, calls %d", rec.Code, stub.invalidated)
	}

	rec = serve(h, http.MethodGet, "/health")
	if rec.Body.String() != "{\"status\":\"ok\",\"snapshot\":false}\n" {
		t.Fatalf("health after invalidate = %q", rec.Body.String())
	}
}
