package apiutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestParsePageDefaultsAndCaps(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/events?page=0&limit=abc", nil)
	page := ParsePage(r, 10, 100)
	if page.Number != 1 || page.Limit != 10 {
		t.Fatalf("unexpected defaults: %+v", page)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/events?page=3&limit=500", nil)
	page = ParsePage(r, 10, 100).WithTotal(250)
	if page.Number != 3 || page.Limit != 100 || page.Offset() != 200 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.TotalPages != 3 || page.HasNext() || !page.HasPrev() {
		t.Fatalf("unexpected totals: %+v", page)
	}
}

func TestWritePageHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePageHeaders(rec, Page{Number: 2, Limit: 10}.WithTotal(21))
	want := map[string]string{
		"X-Total-Count": "21",
		"X-Page":        "2",
		"X-Limit":       "10",
		"X-Total-Pages": "3",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Fatalf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total, size int64
		want                 []int64
	}{
		{1, 10, 5, []int64{1, 2, 3, 4, 5}},
		{6, 10, 5, []int64{4, 5, 6, 7, 8}},
		{10, 10, 5, []int64{6, 7, 8, 9, 10}},
		{2, 3, 5, []int64{1, 2, 3}},
		{1, 0, 5, nil},
	}
	for _, tt := range tests {
		got := PageWindow(tt.current, tt.total, tt.size)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("PageWindow(%d, %d, %d) = %v, want %v", tt.current, tt.total, tt.size, got, tt.want)
		}
	}
}

type sampleRequest struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"omitempty,email"`
	Age   int64  `json:"age" validate:"gte=0,lte=120"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	tests := []struct {
		req  sampleRequest
		want string
	}{
		{sampleRequest{}, "name is required"},
		{sampleRequest{Name: "toolong"}, "name must be 5 characters or fewer"},
		{sampleRequest{Name: "ok", Email: "nope"}, "email must be a valid email address"},
		{sampleRequest{Name: "ok", Age: 121}, "age must be 120 or less"},
	}
	for _, tt := range tests {
		err := Validate(tt.req)
		var fieldErr FieldError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("expected FieldError, got %v", err)
		}
		if err.Error() != tt.want {
			t.Fatalf("got %q, want %q", err.Error(), tt.want)
		}
	}
	if err := Validate(sampleRequest{Name: "ok", Email: "a@b.co", Age: 30}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestWriteHandlerErrorMapsStatus(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	WriteHandlerError(rec, r, Conflict("slug already exists"), "conflict")
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), `"error":"slug already exists"`) {
		t.Fatalf("unexpected conflict response: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	WriteHandlerError(rec, r, errors.New("disk full"), "boom")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "disk full") {
		t.Fatalf("unexpected 500 response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	var dst struct {
		Name string `json:"name"`
	}
	if err := DecodeJSON(r, &dst); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestIDUnmarshal(t *testing.T) {
	var payload struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
		D ID `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12, "b": "34", "c": null, "d": ""}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A != 12 || payload.B != 34 || payload.C != 0 || payload.D != 0 {
		t.Fatalf("unexpected ids: %+v", payload)
	}
	if payload.C.Ptr() != nil || *payload.A.Ptr() != 12 {
		t.Fatalf("unexpected Ptr results")
	}
	if err := json.Unmarshal([]byte(`{"a": "abc"}`), &payload); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}
