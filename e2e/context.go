package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	donationhandler "foodlink/internal/donation/handler"
	donationservice "foodlink/internal/donation/service"
	donationstore "foodlink/internal/donation/store"
	"foodlink/internal/matching"
	matchingadapters "foodlink/internal/matching/adapters"
	notificationhandler "foodlink/internal/notification/handler"
	notificationservice "foodlink/internal/notification/service"
	notificationstore "foodlink/internal/notification/store"
	"foodlink/internal/platform/health"
	jwttoken "foodlink/internal/platform/jwt"
	"foodlink/internal/platform/logger"
	"foodlink/internal/reputation"
	reputationadapters "foodlink/internal/reputation/adapters"
	httptransport "foodlink/internal/transport/http"
	userhandler "foodlink/internal/user/handler"
	userservice "foodlink/internal/user/service"
	userstore "foodlink/internal/user/store"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/middleware/request"
)

const testSigningKey = "e2e-signing-key"

// TestContext holds one in-process server and the state carried between steps.
type TestContext struct {
	server     *httptest.Server
	httpClient *http.Client
	tokens     *jwttoken.Service
	actors     map[string]string

	LastListingID    string
	LastResponse     *http.Response
	LastResponseBody []byte
}

// NewTestContext wires the full service graph on memory stores.
func NewTestContext() *TestContext {
	log := logger.Discard()
	reg := prometheus.NewRegistry()
	tokens := jwttoken.NewService(testSigningKey, time.Hour)

	donations := donationstore.NewInMemory()
	users := userservice.New(userstore.NewInMemory(), userservice.WithLogger(log))
	notifications := notificationservice.New(notificationstore.NewInMemory(), notificationservice.WithLogger(log))
	engine := matching.New(donations, donations,
		matchingadapters.NewNotificationAdapter(notifications),
		matching.WithLogger(log),
	)
	monitor := reputation.New(donations, users, reputation.WithLogger(log))
	svc := donationservice.New(donations, donations, users,
		matchingadapters.NewDonationMatcher(engine),
		reputationadapters.NewDonationEvaluator(monitor),
		donationservice.WithLogger(log),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:    log,
		Validator: jwttoken.NewAdapter(tokens),
		Gatherer:  reg,
		Metrics:   request.NewMetrics(reg),
		Public:    []httptransport.Registrar{health.New("test")},
		Protected: []httptransport.Registrar{
			userhandler.New(users, log),
			donationhandler.New(svc, log),
			notificationhandler.New(notifications, log),
		},
	})

	return &TestContext{
		server:     httptest.NewServer(router),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
		actors:     make(map[string]string),
	}
}

func (tc *TestContext) Close() {
	tc.server.Close()
}

// Register issues a token for a fresh user id under name.
func (tc *TestContext) Register(name, role string) error {
	token, err := tc.tokens.Issue(id.NewUserID(), role)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	tc.actors[name] = token
	return nil
}

// Do sends a request as actor. An empty actor sends no Authorization header.
func (tc *TestContext) Do(method, path, actor string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.server.URL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		token, ok := tc.actors[actor]
		if !ok {
			return fmt.Errorf("unknown actor %q", actor)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// Expect fails unless the last response carried status.
func (tc *TestContext) Expect(status int) error {
	if got := tc.GetLastResponseStatus(); got != status {
		return fmt.Errorf("expected status %d but got %d: %s", status, got, tc.LastResponseBody)
	}
	return nil
}

// GetResponseField resolves a dotted path such as "listing.status" in the
// last JSON response.
func (tc *TestContext) GetResponseField(path string) (any, error) {
	var data any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := data.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %s not found in response", path)
		}
		if data, ok = obj[key]; !ok {
			return nil, fmt.Errorf("field %s not found in response", path)
		}
	}
	return data, nil
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}
