//nolint:funlen // ok for tests
package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/lapcompare/pkg/model"
	"github.com/mpapenbr/lapcompare/testsupport/basedata"
)

func TestClient_Compare(t *testing.T) {
	var gotReq model.CompareRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/laps/compare", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "abc", r.Header.Get("X-Tenant"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(basedata.SampleComparison())
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithToken("secret"), WithHeader("X-Tenant", "abc"))
	res, err := c.Compare(context.Background(),
		&model.CompareRequest{LapIDs: []int{12, 7}, Channels: []string{"speed"}})

	assert.NoError(t, err)
	assert.Equal(t, []int{12, 7}, gotReq.LapIDs)
	assert.Equal(t, []string{"speed"}, gotReq.Channels)
	assert.Equal(t, basedata.SampleComparison(), res)
}

func TestClient_Compare_errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantMsg    string
	}{
		{
			name:       "detail",
			status:     http.StatusNotFound,
			body:       `{"detail": "Lap 5 not found"}`,
			wantDetail: "Lap 5 not found",
			wantMsg:    "Lap 5 not found",
		},
		{
			name:    "validation list",
			status:  http.StatusUnprocessableEntity,
			body:    `{"detail": [{"loc": ["body", "lap_ids"], "msg": "field required"}]}`,
			wantMsg: GenericMessage,
		},
		{name: "no detail", status: http.StatusInternalServerError, body: `{}`, wantMsg: GenericMessage},
		{name: "no json", status: http.StatusBadGateway, body: `<html>`, wantMsg: GenericMessage},
		{name: "empty", status: http.StatusForbidden, wantMsg: GenericMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Compare(context.Background(),
				&model.CompareRequest{LapIDs: []int{1, 2}})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.Equal(t, tt.wantMsg, UserMessage(err, GenericMessage))
		})
	}
}

func TestClient_Compare_transportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := New(srv.URL, WithTimeout(time.Second)).Compare(context.Background(),
		&model.CompareRequest{LapIDs: []int{1, 2}})
	assert.Error(t, err)
	assert.Equal(t, GenericMessage, UserMessage(err, GenericMessage))
}

func TestClient_Compare_badBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"laps": 3}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Compare(context.Background(), &model.CompareRequest{LapIDs: []int{1, 2}})
	assert.ErrorContains(t, err, "decode response")
}

func TestClient_LapTelemetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/laps/3/telemetry", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		lap := basedata.SampleLap(3)
		_ = json.NewEncoder(w).Encode(&lap)
	}))
	defer srv.Close()

	c := New(srv.URL)
	lap, err := c.LapTelemetry(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, lap.LapID)
	assert.Len(t, lap.Channels, 3)

	tc := c.TelemetryCache(time.Minute)
	for i := 0; i < 2; i++ {
		lap, err = tc.Get(context.Background(), 3)
		assert.NoError(t, err)
		assert.Equal(t, 3, lap.LapID)
	}
	assert.Equal(t, 2, calls)
}
