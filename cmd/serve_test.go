//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dost0092/hotel-mapped-url/internal/model"
)

type triggerResponse struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

func getTrigger(t *testing.T, router http.Handler) (*httptest.ResponseRecorder, triggerResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/run_scrape_and_map", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var resp triggerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr, resp
}

func TestBuildRouter_Health(t *testing.T) {
	router := buildRouter(&triggerHandler{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestBuildRouter_TriggerSuccess(t *testing.T) {
	router := buildRouter(&triggerHandler{
		run: func(ctx context.Context) (model.RunSummary, error) {
			return model.RunSummary{Matched: 2, Unmatched: 1}, nil
		},
	})

	rr, resp := getTrigger(t, router)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "Scraping and mapping completed successfully", resp.Message)
}

func TestBuildRouter_TriggerFailure(t *testing.T) {
	router := buildRouter(&triggerHandler{
		run: func(ctx context.Context) (model.RunSummary, error) {
			return model.RunSummary{Status: model.RunStatusFailed}, errors.New("registry missing")
		},
	})

	rr, resp := getTrigger(t, router)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "registry missing")
}

func TestBuildRouter_TriggerBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	router := buildRouter(&triggerHandler{
		run: func(ctx context.Context) (model.RunSummary, error) {
			close(entered)
			<-release
			return model.RunSummary{Matched: 1}, nil
		},
	})

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		req := httptest.NewRequest(http.MethodGet, "/run_scrape_and_map", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		done <- rr
	}()

	// Second trigger while the first run is still active.
	<-entered
	rr, resp := getTrigger(t, router)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "run already in progress")

	close(release)
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
	var firstResp triggerResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))
	assert.Equal(t, "success", firstResp.Status)
}

func TestBuildRouter_BusyClearsAfterFailure(t *testing.T) {
	calls := 0
	router := buildRouter(&triggerHandler{
		run: func(ctx context.Context) (model.RunSummary, error) {
			calls++
			if calls == 1 {
				return model.RunSummary{}, errors.New("browser launch failed")
			}
			return model.RunSummary{Matched: 1}, nil
		},
	})

	rr, _ := getTrigger(t, router)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr, resp := getTrigger(t, router)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, resp.Count)
}

func TestBuildRouter_TriggerRejectsPost(t *testing.T) {
	router := buildRouter(&triggerHandler{})

	req := httptest.NewRequest(http.MethodPost, "/run_scrape_and_map", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestServeCmd_PortFlagExists(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
}
