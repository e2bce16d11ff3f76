package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"freightrate/internal/engine"
	"freightrate/internal/http/handlers"
	"freightrate/internal/modules/itinerary"
	"freightrate/internal/modules/multimodal"
	"freightrate/internal/modules/pricing"
	"freightrate/internal/types"
)

type stubEurope struct {
	quote pricing.Quote
	err   error
	last  pricing.Request
}

func (s *stubEurope) Quote(_ context.Context, req pricing.Request) (pricing.Quote, error) {
	s.last = req
	return s.quote, s.err
}

type stubMultimodal struct {
	quote multimodal.Quote
	err   error
}

func (s *stubMultimodal) Quote(context.Context, multimodal.Request) (multimodal.Quote, error) {
	return s.quote, s.err
}

type stubOverland struct {
	quote itinerary.Quote
	err   error
}

func (s *stubOverland) Quote(context.Context, itinerary.Request) (itinerary.Quote, error) {
	return s.quote, s.err
}

func buildTestRouter(europe handlers.EuropeQuoter, mm handlers.MultimodalQuoter, overland handlers.OverlandQuoter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewRateHandler(europe, mm, overland)
	r.POST("/api/rates/europe", h.Europe)
	r.POST("/api/rates/multimodal", h.Multimodal)
	r.POST("/api/rates/overland", h.Overland)
	return r
}

func doRequest(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func europeBody() map[string]any {
	return map[string]any{
		"fromCountry": "de", "toCountry": "FR",
		"fromZip": "40210", "toZip": "59000",
		"ldm": 5.0, "weight": 1000.0,
	}
}

func TestEurope_OK(t *testing.T) {
	europe := &stubEurope{quote: pricing.Quote{ID: "q1", Total: types.MoneyFromFloat(812.5, "EUR")}}
	r := buildTestRouter(europe, &stubMultimodal{}, &stubOverland{})

	w := doRequest(r, "/api/rates/europe", europeBody())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if europe.last.FromCountry != "DE" {
		t.Errorf("country not normalized: %q", europe.last.FromCountry)
	}

	var resp pricing.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "q1" {
		t.Errorf("quote id = %q", resp.ID)
	}
}

func TestEurope_MonthZeroMeansCurrent(t *testing.T) {
	europe := &stubEurope{}
	r := buildTestRouter(europe, &stubMultimodal{}, &stubOverland{})
	body := europeBody()
	body["month"] = 0

	w := doRequest(r, "/api/rates/europe", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if europe.last.Month != 0 {
		t.Errorf("month = %d, want 0 (current-month sentinel)", europe.last.Month)
	}

	body["month"] = 13
	w = doRequest(r, "/api/rates/europe", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("0 for the current month")) {
		t.Errorf("rejection should document the zero sentinel, got %s", w.Body.String())
	}
}

func TestEurope_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing fields", func(m map[string]any) { delete(m, "toZip") }},
		{"postal too short", func(m map[string]any) { m["fromZip"] = "ab" }},
		{"postal bad characters", func(m map[string]any) { m["toZip"] = "59_000!" }},
		{"month out of range", func(m map[string]any) { m["month"] = 13 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			europe := &stubEurope{}
			r := buildTestRouter(europe, &stubMultimodal{}, &stubOverland{})
			body := europeBody()
			tt.mutate(body)

			w := doRequest(r, "/api/rates/europe", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", fmt.Errorf("%w: bad ldm", engine.ErrInvalidInput), http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: no region", engine.ErrNotFound), http.StatusNotFound},
		{"calculation", fmt.Errorf("%w: no usable distance", engine.ErrCalculation), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildTestRouter(&stubEurope{err: tt.err}, &stubMultimodal{}, &stubOverland{})

			w := doRequest(r, "/api/rates/europe", europeBody())
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestErrorMapping_InternalMessageHidden(t *testing.T) {
	r := buildTestRouter(&stubEurope{err: fmt.Errorf("%w: secret detail", engine.ErrCalculation)}, &stubMultimodal{}, &stubOverland{})

	w := doRequest(r, "/api/rates/europe", europeBody())
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "internal error" {
		t.Errorf("error message %q leaked internals", resp["error"])
	}
}

func TestMultimodal_OK(t *testing.T) {
	mm := &stubMultimodal{quote: multimodal.Quote{ID: "m1", Total: types.MoneyFromFloat(4200, "USD")}}
	r := buildTestRouter(&stubEurope{}, mm, &stubOverland{})

	w := doRequest(r, "/api/rates/multimodal", map[string]any{
		"originPort": "CNSHA", "destinationPort": "NLRTM", "containerType": "40HC",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestMultimodal_MissingPorts(t *testing.T) {
	r := buildTestRouter(&stubEurope{}, &stubMultimodal{}, &stubOverland{})

	w := doRequest(r, "/api/rates/multimodal", map[string]any{"containerType": "40hc"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestOverland_OK(t *testing.T) {
	overland := &stubOverland{quote: itinerary.Quote{ID: "o1", Total: types.MoneyFromFloat(2500, "EUR")}}
	r := buildTestRouter(&stubEurope{}, &stubMultimodal{}, overland)

	w := doRequest(r, "/api/rates/overland", map[string]any{
		"fromCountry": "DE", "fromZip": "70173",
		"toCountry": "KZ", "toCity": "Almaty",
		"ldm": 4.0, "weight": 5000.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}
