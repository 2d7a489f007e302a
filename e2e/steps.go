package e2e

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Actors
	ctx.Step(`^a registered (donor|ngo) "([^"]*)"$`, tc.registeredActor)
	ctx.Step(`^an unregistered (donor|ngo) "([^"]*)"$`, tc.unregisteredActor)

	// Donations
	ctx.Step(`^"([^"]*)" posts an? "([^"]*)" "([^"]*)" need at (-?[\d.]+), (-?[\d.]+)$`, tc.postNeed)
	ctx.Step(`^"([^"]*)" lists (\d+) "([^"]*)" items at (-?[\d.]+), (-?[\d.]+)$`, tc.postListing)
	ctx.Step(`^"([^"]*)" lists (\d+) fresh "([^"]*)" items at (-?[\d.]+), (-?[\d.]+)$`, tc.postFreshListing)
	ctx.Step(`^"([^"]*)" sets the last listing to "([^"]*)"$`, tc.setListingStatus)
	ctx.Step(`^"([^"]*)" rates the last listing ([\d.]+)$`, tc.rateListing)
	ctx.Step(`^"([^"]*)" delivers a listing that "([^"]*)" rates ([\d.]+)$`, tc.deliverRatedListing)

	// Assertions
	ctx.Step(`^the response status should be (\d+)$`, tc.Expect)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.responseFieldShouldEqual)
	ctx.Step(`^"([^"]*)" should have (\d+) unread notifications?$`, tc.unreadNotifications)
	ctx.Step(`^"([^"]*)" should have a "([^"]*)" priority notification$`, tc.hasNotificationWithPriority)
	ctx.Step(`^"([^"]*)" should be suspended for "([^"]*)"$`, tc.shouldBeSuspended)
	ctx.Step(`^"([^"]*)" should not be suspended$`, tc.shouldNotBeSuspended)
}

func (tc *TestContext) registeredActor(_ context.Context, role, name string) error {
	if err := tc.Register(name, role); err != nil {
		return err
	}
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.org"
	if err := tc.Do(http.MethodPut, "/users/me", name, map[string]any{
		"name":  name,
		"email": email,
		"role":  role,
	}); err != nil {
		return err
	}
	return tc.Expect(http.StatusCreated)
}

func (tc *TestContext) unregisteredActor(_ context.Context, role, name string) error {
	return tc.Register(name, role)
}

func (tc *TestContext) postNeed(_ context.Context, actor, urgency, category string, lat, lng float64) error {
	return tc.Do(http.MethodPost, "/needs", actor, map[string]any{
		"title":    category + " needed",
		"category": category,
		"quantity": 20,
		"location": map[string]float64{"lat": lat, "lng": lng},
		"urgency":  urgency,
	})
}

func (tc *TestContext) postListing(ctx context.Context, actor string, quantity int, category string, lat, lng float64) error {
	return tc.createListing(actor, quantity, category, lat, lng, false)
}

func (tc *TestContext) postFreshListing(ctx context.Context, actor string, quantity int, category string, lat, lng float64) error {
	return tc.createListing(actor, quantity, category, lat, lng, true)
}

func (tc *TestContext) createListing(actor string, quantity int, category string, lat, lng float64, fresh bool) error {
	if err := tc.Do(http.MethodPost, "/listings", actor, map[string]any{
		"title":    category + " surplus",
		"category": category,
		"quantity": quantity,
		"location": map[string]float64{"lat": lat, "lng": lng},
		"is_fresh": fresh,
	}); err != nil {
		return err
	}
	if tc.GetLastResponseStatus() == http.StatusCreated {
		listingID, err := tc.GetResponseField("listing.id")
		if err != nil {
			return err
		}
		tc.LastListingID = fmt.Sprint(listingID)
	}
	return nil
}

func (tc *TestContext) setListingStatus(_ context.Context, actor, status string) error {
	if tc.LastListingID == "" {
		return fmt.Errorf("no listing has been created")
	}
	return tc.Do(http.MethodPost, "/listings/"+tc.LastListingID+"/status", actor, map[string]any{"status": status})
}

func (tc *TestContext) rateListing(_ context.Context, actor string, rating float64) error {
	if tc.LastListingID == "" {
		return fmt.Errorf("no listing has been created")
	}
	return tc.Do(http.MethodPost, "/listings/"+tc.LastListingID+"/rating", actor, map[string]any{"rating": rating})
}

func (tc *TestContext) deliverRatedListing(ctx context.Context, donor, ngo string, rating float64) error {
	if err := tc.createListing(donor, 5, "Bakery", 6.4541, 3.3947, false); err != nil {
		return err
	}
	if err := tc.Expect(http.StatusCreated); err != nil {
		return err
	}
	for _, status := range []string{"Claimed", "In Transit", "Delivered"} {
		if err := tc.setListingStatus(ctx, donor, status); err != nil {
			return err
		}
		if err := tc.Expect(http.StatusOK); err != nil {
			return err
		}
	}
	if err := tc.rateListing(ctx, ngo, rating); err != nil {
		return err
	}
	return tc.Expect(http.StatusOK)
}

func (tc *TestContext) responseFieldShouldEqual(_ context.Context, field, expected string) error {
	value, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if actual := fmt.Sprint(value); actual != expected {
		return fmt.Errorf("expected field %s to be %q but got %q", field, expected, actual)
	}
	return nil
}

func (tc *TestContext) unreadNotifications(_ context.Context, actor string, expected int) error {
	if err := tc.Do(http.MethodGet, "/notifications?unread=true", actor, nil); err != nil {
		return err
	}
	if err := tc.Expect(http.StatusOK); err != nil {
		return err
	}
	return tc.responseFieldShouldEqual(context.Background(), "unread", fmt.Sprint(expected))
}

func (tc *TestContext) hasNotificationWithPriority(_ context.Context, actor, priority string) error {
	if err := tc.Do(http.MethodGet, "/notifications", actor, nil); err != nil {
		return err
	}
	if err := tc.Expect(http.StatusOK); err != nil {
		return err
	}
	list, err := tc.GetResponseField("notifications")
	if err != nil {
		return err
	}
	items, _ := list.([]any)
	for _, item := range items {
		if n, ok := item.(map[string]any); ok && n["priority"] == priority {
			return nil
		}
	}
	return fmt.Errorf("no %s priority notification for %s: %s", priority, actor, tc.LastResponseBody)
}

func (tc *TestContext) shouldBeSuspended(_ context.Context, actor, reason string) error {
	if err := tc.Do(http.MethodGet, "/users/me", actor, nil); err != nil {
		return err
	}
	if err := tc.Expect(http.StatusOK); err != nil {
		return err
	}
	if err := tc.responseFieldShouldEqual(context.Background(), "banned", "true"); err != nil {
		return err
	}
	return tc.responseFieldShouldEqual(context.Background(), "ban_reason", reason)
}

func (tc *TestContext) shouldNotBeSuspended(_ context.Context, actor string) error {
	if err := tc.Do(http.MethodGet, "/users/me", actor, nil); err != nil {
		return err
	}
	if err := tc.Expect(http.StatusOK); err != nil {
		return err
	}
	return tc.responseFieldShouldEqual(context.Background(), "banned", "false")
}
