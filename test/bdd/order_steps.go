package bdd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
)

func (w *StorefrontWorld) registerOrderSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I order product "([^"]*)" from store "([^"]*)" for user "([^"]*)" paying with "([^"]*)"$`, w.orderProduct)
	sc.Step(`^I post the raw order body:$`, w.postRawOrder)
	sc.Step(`^the API returns status (\d+)$`, w.assertAPIStatus)
	sc.Step(`^the error message is "([^"]*)"$`, w.assertErrorMessage)
	sc.Step(`^the order charges (\d+) "([^"]+)"$`, w.assertAmount)
	sc.Step(`^the timeline is:$`, w.assertTimeline)
	sc.Step(`^the webhook reports status "([^"]+)" to "([^"]+)"$`, w.assertWebhook)
	sc.Step(`^the payment URL carries the payment intent id$`, w.assertPaymentURL)
	sc.Step(`^I list stores with filter "([^"]*)"$`, w.listStores)
	sc.Step(`^I search stores for "([^"]*)" paying with "([^"]*)" under filter "([^"]*)"$`, w.searchStores)
	sc.Step(`^the directory lists "([^"]*)"$`, w.assertDirectory)
}

func (w *StorefrontWorld) orderProduct(productID, storeSlug, userID, method string) error {
	body, err := json.Marshal(map[string]string{
		"storeSlug":     storeSlug,
		"productId":     productID,
		"userId":        userID,
		"paymentMethod": method,
	})
	if err != nil {
		return err
	}
	return w.postOrder(body)
}

func (w *StorefrontWorld) postRawOrder(doc *godog.DocString) error {
	return w.postOrder([]byte(doc.Content))
}

func (w *StorefrontWorld) postOrder(body []byte) error {
	endpoint := w.apiBase + "/api/orders"
	resp, err := http.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	w.httpStatus = resp.StatusCode
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	_ = json.Unmarshal(raw, &w.httpJSON)
	if resp.StatusCode == http.StatusOK {
		var out order.Response
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("decode order: %w", err)
		}
		w.orderResp = &out
	}
	w.debugf("POST %s -> %d", endpoint, resp.StatusCode)
	return nil
}

func (w *StorefrontWorld) assertAPIStatus(status int) error {
	if w.httpStatus != status {
		return fmt.Errorf("expected API status %d got %d", status, w.httpStatus)
	}
	return nil
}

func (w *StorefrontWorld) assertErrorMessage(msg string) error {
	got, _ := w.httpJSON["error"].(string)
	if got != msg {
		return fmt.Errorf("expected error %q got %q", msg, got)
	}
	return nil
}

func (w *StorefrontWorld) requireOrder() (*order.Response, error) {
	if w.orderResp == nil {
		return nil, fmt.Errorf("no order captured (status %d)", w.httpStatus)
	}
	return w.orderResp, nil
}

func (w *StorefrontWorld) assertAmount(amount int64, currency string) error {
	resp, err := w.requireOrder()
	if err != nil {
		return err
	}
	if resp.Amount != amount || resp.Currency != currency {
		return fmt.Errorf("expected %d %s got %d %s", amount, currency, resp.Amount, resp.Currency)
	}
	return nil
}

func (w *StorefrontWorld) assertTimeline(table *godog.Table) error {
	resp, err := w.requireOrder()
	if err != nil {
		return err
	}
	rows, err := tableToMaps(table)
	if err != nil {
		return err
	}
	if len(rows) != len(resp.Timeline) {
		return fmt.Errorf("expected %d timeline entries got %d", len(rows), len(resp.Timeline))
	}
	for i, row := range rows {
		entry := resp.Timeline[i]
		if string(entry.Phase) != row["phase"] {
			return fmt.Errorf("entry %d: expected phase %s got %s", i, row["phase"], entry.Phase)
		}
		ms, err := strconv.ParseInt(row["delay_ms"], 10, 64)
		if err != nil {
			return fmt.Errorf("entry %d: bad delay_ms %q", i, row["delay_ms"])
		}
		if entry.Delay.Milliseconds() != ms {
			return fmt.Errorf("entry %d: expected delay %dms got %s", i, ms, entry.Delay)
		}
	}
	return nil
}

func (w *StorefrontWorld) assertWebhook(status, endpoint string) error {
	resp, err := w.requireOrder()
	if err != nil {
		return err
	}
	if string(resp.WebhookPayload.Body.Status) != status {
		return fmt.Errorf("expected webhook status %s got %s", status, resp.WebhookPayload.Body.Status)
	}
	if resp.WebhookPayload.Endpoint != endpoint {
		return fmt.Errorf("expected webhook endpoint %s got %s", endpoint, resp.WebhookPayload.Endpoint)
	}
	return nil
}

func (w *StorefrontWorld) assertPaymentURL() error {
	resp, err := w.requireOrder()
	if err != nil {
		return err
	}
	if !strings.HasSuffix(resp.PaymentURL, "/"+resp.PaymentIntentID) {
		return fmt.Errorf("payment URL %s does not end with %s", resp.PaymentURL, resp.PaymentIntentID)
	}
	return nil
}

func (w *StorefrontWorld) listStores(filter string) error {
	return w.getStores(url.Values{"filter": {filter}})
}

func (w *StorefrontWorld) searchStores(text, payment, filter string) error {
	params := url.Values{}
	for key, value := range map[string]string{"q": text, "payment": payment, "filter": filter} {
		if value != "" {
			params.Set(key, value)
		}
	}
	return w.getStores(params)
}

func (w *StorefrontWorld) getStores(params url.Values) error {
	endpoint := w.apiBase + "/api/stores?" + params.Encode()
	resp, err := http.Get(endpoint)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	w.httpStatus = resp.StatusCode
	var stores []struct {
		Slug string `json:"slug"`
	}
	if resp.StatusCode != http.StatusOK {
		return json.NewDecoder(resp.Body).Decode(&w.httpJSON)
	}
	if err := json.NewDecoder(resp.Body).Decode(&stores); err != nil {
		return fmt.Errorf("decode stores: %w", err)
	}
	slugs := make([]string, len(stores))
	for i, s := range stores {
		slugs[i] = s.Slug
	}
	w.httpJSON = map[string]any{"slugs": strings.Join(slugs, ", ")}
	return nil
}

func (w *StorefrontWorld) assertDirectory(want string) error {
	got, _ := w.httpJSON["slugs"].(string)
	if got != want {
		return fmt.Errorf("expected stores %q got %q", want, got)
	}
	return nil
}
