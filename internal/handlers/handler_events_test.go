package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
	"github.com/aquaerp/aqua-accounting/internal/core/services"
	"github.com/aquaerp/aqua-accounting/internal/handlers"
	"github.com/aquaerp/aqua-accounting/internal/platform/config"
)

type EventsHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	dispatcher portssvc.EventDispatcherSvc
}

func (suite *EventsHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.dispatcher = services.NewEventDispatcher()

	container := &portssvc.ServiceContainer{Dispatcher: suite.dispatcher}
	handlers.RegisterRoutes(suite.router, &config.Config{}, container)
}

func (suite *EventsHandlerTestSuite) postJSON(url string, payload map[string]interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "u-42")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *EventsHandlerTestSuite) TestFeedingEvent_Accepted() {
	var received domain.FeedingRecorded
	suite.dispatcher.Register(domain.EventFeedingRecorded, func(ctx context.Context, event domain.Event) error {
		received = event.(domain.FeedingRecorded)
		return nil
	})

	w := suite.postJSON("/api/v1/events/feeding", map[string]interface{}{
		"feedingLogID": "fl-1",
		"batchID":      "b-1",
		"batchNumber":  "B-001",
		"feedName":     "Starter 2mm",
		"quantityKg":   "50",
		"unitPrice":    "5.00",
		"feedingDate":  "2026-08-15T00:00:00Z",
	})

	suite.Equal(http.StatusAccepted, w.Code)
	suite.Equal("fl-1", received.FeedingLogID)
	suite.Equal("u-42", received.RecordedBy)
}

func (suite *EventsHandlerTestSuite) TestFeedingEvent_PostingFailureStillAccepted() {
	suite.dispatcher.Register(domain.EventFeedingRecorded, func(ctx context.Context, event domain.Event) error {
		return errors.New("ledger unavailable")
	})

	w := suite.postJSON("/api/v1/events/feeding", map[string]interface{}{
		"feedingLogID": "fl-2",
		"batchID":      "b-1",
		"quantityKg":   "10",
		"unitPrice":    "2.00",
		"feedingDate":  "2026-08-15T00:00:00Z",
	})

	// The feeding log is already saved upstream; its bookkeeping failure is
	// an accounting problem, not the farmhand's.
	suite.Equal(http.StatusAccepted, w.Code)
}

func (suite *EventsHandlerTestSuite) TestFeedingEvent_MalformedPayloadRejected() {
	w := suite.postJSON("/api/v1/events/feeding", map[string]interface{}{
		"batchID": "b-1",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *EventsHandlerTestSuite) TestHarvestEvent_Accepted() {
	var received domain.HarvestCompleted
	suite.dispatcher.Register(domain.EventHarvestCompleted, func(ctx context.Context, event domain.Event) error {
		received = event.(domain.HarvestCompleted)
		return nil
	})

	w := suite.postJSON("/api/v1/events/harvest", map[string]interface{}{
		"harvestID":   "h-1",
		"batchID":     "b-1",
		"batchNumber": "B-001",
		"quantityKg":  "400",
		"count":       1000,
		"costPerKg":   "3.00",
		"fairValue":   "6000.00",
		"harvestDate": "2026-08-20T00:00:00Z",
	})

	suite.Equal(http.StatusAccepted, w.Code)
	suite.Equal("h-1", received.HarvestID)
	suite.Equal(int64(1000), received.Count)
}

func TestEventsHandler(t *testing.T) {
	suite.Run(t, new(EventsHandlerTestSuite))
}
