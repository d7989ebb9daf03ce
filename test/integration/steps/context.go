// Package steps provides the Godog step definitions for the API suite.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/config"
	"github.com/fleetops/backend/internal/domain/entity"
	"github.com/fleetops/backend/internal/domain/valueobject"
	"github.com/fleetops/backend/internal/infra/dependency"
	"github.com/fleetops/backend/internal/integration/entrypoint/middleware"
	"github.com/fleetops/backend/internal/integration/persistence/model"
	"github.com/fleetops/backend/test/integration/mock"
)

var serverInit sync.Once
var envInit sync.Once
var testDB *mock.Db
var testRedis *redis.Client
var testServerPort int

type testContext struct {
	uri     string
	headers map[string]string
	client  *http.Client
	db      *mock.Db

	response *response

	trip             *entity.Trip
	costID           uuid.UUID
	additionalCostID uuid.UUID
}

type response struct {
	status int
	body   any
}

// InitializeTestSuite sets up resources shared by all scenarios.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

func initializeEnvironment() {
	envInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")

		uploadsDir, err := os.MkdirTemp("", "fleetops-uploads-")
		if err != nil {
			panic(err)
		}
		_ = os.Setenv("UPLOADS_DIR", uploadsDir)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializeEnvironment()

	test := &testContext{
		uri:    fmt.Sprintf("http://localhost:%d", testServerPort),
		client: &http.Client{Timeout: 10 * time.Second},
		db: mock.NewDb(map[string]any{
			"trips": &model.TripModel{},
		}),
	}

	testDB = test.db
	testRedis = mock.NewRedis()

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Trip setup steps
	ctx.Given(`^an active trip exists for client "([^"]*)"$`, test.anActiveTripExistsForClient)
	ctx.Given(`^the trip has revenue "([^"]*)" "([^"]*)" and distance "([^"]*)" km$`, test.theTripHasRevenueAndDistance)
	ctx.Given(`^the trip is completed$`, test.theTripIsCompleted)
	ctx.Given(`^the trip is invoiced$`, test.theTripIsInvoiced)
	ctx.Given(`^the trip has a cost entry of "([^"]*)" "([^"]*)"$`, test.theTripHasACostEntryOf)
	ctx.Given(`^the trip has a flagged cost entry with reason "([^"]*)"$`, test.theTripHasAFlaggedCostEntryWithReason)
	ctx.Given(`^the flagged cost entry is resolved$`, test.theFlaggedCostEntryIsResolved)
	ctx.Given(`^the trip has an additional cost of "([^"]*)" "([^"]*)"$`, test.theTripHasAnAdditionalCostOf)
	ctx.Given(`^the trip has system-generated cost entries$`, test.theTripHasSystemGeneratedCostEntries)

	// Header steps
	ctx.Given(`^the acting user is "([^"]*)"$`, test.theActingUserIs)
	ctx.Given(`^no acting user is set$`, test.noActingUserIsSet)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with form data:$`, test.iSendARequestToWithFormData)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) trips$`, test.theDbShouldContainTrips)
	ctx.Then(`^the stored trip status should be "([^"]*)"$`, test.theStoredTripStatusShouldBe)
	ctx.Then(`^the stored trip should have (\d+) cost entries$`, test.theStoredTripShouldHaveCostEntries)
	ctx.Then(`^the stored trip should have (\d+) additional costs$`, test.theStoredTripShouldHaveAdditionalCosts)
	ctx.Then(`^the stored trip should have (\d+) edit records$`, test.theStoredTripShouldHaveEditRecords)
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.response = nil
	t.trip = nil
	t.costID = uuid.Nil
	t.additionalCostID = uuid.Nil

	if t.db != nil {
		_ = t.db.ClearDB()
	}
	if testRedis != nil {
		_ = mock.ClearRedis(testRedis)
	}
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		go func() {
			gin.SetMode(gin.TestMode)

			cfg := config.Load()
			injector := dependency.NewInjector(cfg, testDB.DbConn, testRedis)
			engine := injector.Router.Setup("test")

			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", testServerPort),
				Handler: engine,
			}
			_ = server.ListenAndServe()
		}()
	})

	// Wait for the server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}

// Trip seeding

func (t *testContext) persistTrip() error {
	tripModel, err := model.TripFromEntity(t.trip)
	if err != nil {
		return err
	}
	return t.db.DbConn.Save(tripModel).Error
}

func (t *testContext) anActiveTripExistsForClient(clientName string) error {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	t.trip = entity.NewTrip(
		"TRK-101", "T. Jongwe", clientName, entity.ClientTypeExternal,
		"Harare - Beira", []string{"Mutare"}, start, start.AddDate(0, 0, 2),
		decimal.NewFromInt(1000), "ZAR", decimal.NewFromInt(175),
	)
	return t.persistTrip()
}

func (t *testContext) theTripHasRevenueAndDistance(revenue, currency, distance string) error {
	if t.trip == nil {
		return errors.New("no trip seeded")
	}
	baseRevenue, err := decimal.NewFromString(revenue)
	if err != nil {
		return fmt.Errorf("invalid revenue %q: %w", revenue, err)
	}
	distanceKm, err := decimal.NewFromString(distance)
	if err != nil {
		return fmt.Errorf("invalid distance %q: %w", distance, err)
	}
	t.trip.BaseRevenue = baseRevenue
	t.trip.RevenueCurrency = currency
	t.trip.DistanceKm = distanceKm
	return t.persistTrip()
}

func (t *testContext) theTripIsCompleted() error {
	if t.trip == nil {
		return errors.New("no trip seeded")
	}
	completedAt := t.trip.EndDate
	t.trip.Status = entity.TripStatusCompleted
	t.trip.CompletedAt = &completedAt
	t.trip.CompletedBy = "dispatcher@fleet"
	return t.persistTrip()
}

func (t *testContext) theTripIsInvoiced() error {
	if err := t.theTripIsCompleted(); err != nil {
		return err
	}
	t.trip.Status = entity.TripStatusInvoiced
	return t.persistTrip()
}

func (t *testContext) theTripHasACostEntryOf(amount, currency string) error {
	if t.trip == nil {
		return errors.New("no trip seeded")
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	entry := entity.NewCostEntry("Fuel", "Diesel", value, currency, t.trip.StartDate, "INV-100", "")
	t.costID = entry.ID
	t.trip.Costs = append(t.trip.Costs, *entry)
	return t.persistTrip()
}

func (t *testContext) theTripHasAFlaggedCostEntryWithReason(reason string) error {
	if t.trip == nil {
		return errors.New("no trip seeded")
	}
	entry := entity.NewCostEntry("Fuel", "Diesel", decimal.NewFromInt(900), "ZAR", t.trip.StartDate, "INV-101", "")
	entry.IsFlagged = true
	entry.FlagReason = reason
	t.costID = entry.ID
	t.trip.Costs = append(t.trip.Costs, *entry)
	return t.persistTrip()
}

func (t *testContext) theFlaggedCostEntryIsResolved() error {
	if t.trip == nil {
		return errors.New("no trip seeded")
	}
	entry := t.trip.FindCostEntry(t.costID)
	if entry == nil {
		return errors.New("no flagged cost entry seeded")
	}
	entry.FlagResolved = true
	return t.persistTrip()
}

func (t *testContext) theTripHasAnAdditionalCostOf(amount, currency string) error {
	if t.trip == nil {
		return errors.New("no trip seeded")
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	additional := entity.NewAdditionalCost("Tolls", "", value, currency, t.trip.StartDate, "", "dispatcher@fleet")
	t.additionalCostID = additional.ID
	t.trip.AdditionalCosts = append(t.trip.AdditionalCosts, *additional)
	return t.persistTrip()
}

func (t *testContext) theTripHasSystemGeneratedCostEntries() error {
	if t.trip == nil {
		return errors.New("no trip seeded")
	}
	entries := valueobject.GenerateOverheadEntries(t.trip, valueobject.DefaultOverheadNorms(), time.Now().UTC())
	t.trip.Costs = append(t.trip.Costs, entries...)
	return t.persistTrip()
}

// Headers

func (t *testContext) theActingUserIs(actor string) error {
	t.headers[middleware.ActorHeader] = actor
	return nil
}

func (t *testContext) noActingUserIsSet() error {
	delete(t.headers, middleware.ActorHeader)
	return nil
}

// Requests

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil, "")
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload, "application/json")
}

func (t *testContext) iSendARequestToWithFormData(method, path string, body *godog.DocString) error {
	var fields map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(body.Content)), &fields); err != nil {
		return fmt.Errorf("failed to parse form data: %w", err)
	}

	values := url.Values{}
	for key, value := range fields {
		values.Set(key, fmt.Sprintf("%v", value))
	}

	return t.executeRequest(method, t.replacePlaceholders(path), []byte(values.Encode()), "application/x-www-form-urlencoded")
}

func (t *testContext) replacePlaceholders(content string) string {
	if t.trip != nil {
		content = strings.ReplaceAll(content, "{{trip_id}}", t.trip.ID.String())
	}
	content = strings.ReplaceAll(content, "{{cost_id}}", t.costID.String())
	content = strings.ReplaceAll(content, "{{additional_cost_id}}", t.additionalCostID.String())
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte, contentType string) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Capture the trip ID from trip creation responses so later steps can
	// reference {{trip_id}}.
	if idStr, ok := responseBody["id"].(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			if _, hasStatus := responseBody["status"]; hasStatus && t.trip == nil {
				t.trip = &entity.Trip{ID: id}
			}
		}
	}

	return nil
}

// Response assertions

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	value, err := t.responseField(field)
	if err != nil {
		return err
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	_, err := t.responseField(field)
	return err
}

func (t *testContext) responseField(field string) (any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	value := getFieldValue(body, field)
	if value == nil {
		return nil, fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return value, nil
}

// Database assertions

func (t *testContext) theDbShouldContainTrips(quantity int) error {
	var count int64
	if err := t.db.DbConn.Model(&model.TripModel{}).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != quantity {
		return fmt.Errorf("expected %d trips, got %d", quantity, count)
	}
	return nil
}

func (t *testContext) loadStoredTrip() (*entity.Trip, error) {
	if t.trip == nil {
		return nil, errors.New("no trip seeded")
	}
	var tripModel model.TripModel
	if err := t.db.DbConn.First(&tripModel, "id = ?", t.trip.ID).Error; err != nil {
		return nil, err
	}
	return tripModel.ToEntity()
}

func (t *testContext) theStoredTripStatusShouldBe(expectedStatus string) error {
	stored, err := t.loadStoredTrip()
	if err != nil {
		return err
	}
	if string(stored.Status) != expectedStatus {
		return fmt.Errorf("expected trip status %q, got %q", expectedStatus, stored.Status)
	}
	return nil
}

func (t *testContext) theStoredTripShouldHaveCostEntries(quantity int) error {
	stored, err := t.loadStoredTrip()
	if err != nil {
		return err
	}
	if len(stored.Costs) != quantity {
		return fmt.Errorf("expected %d cost entries, got %d", quantity, len(stored.Costs))
	}
	return nil
}

func (t *testContext) theStoredTripShouldHaveAdditionalCosts(quantity int) error {
	stored, err := t.loadStoredTrip()
	if err != nil {
		return err
	}
	if len(stored.AdditionalCosts) != quantity {
		return fmt.Errorf("expected %d additional costs, got %d", quantity, len(stored.AdditionalCosts))
	}
	return nil
}

func (t *testContext) theStoredTripShouldHaveEditRecords(quantity int) error {
	stored, err := t.loadStoredTrip()
	if err != nil {
		return err
	}
	if len(stored.EditHistory) != quantity {
		return fmt.Errorf("expected %d edit records, got %d", quantity, len(stored.EditHistory))
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
