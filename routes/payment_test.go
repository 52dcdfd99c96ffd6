package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"
)

func paymentPayload() map[string]interface{} {
	return map[string]interface{}{
		"orderId":       "order-123",
		"amount":        1250,
		"currency":      "gbp",
		"customerEmail": "dana@example.com",
	}
}

func TestCreatePaymentIntentValidation(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	cases := []struct {
		name  string
		patch func(map[string]interface{})
	}{
		{"zero amount", func(p map[string]interface{}) { p["amount"] = 0 }},
		{"negative amount", func(p map[string]interface{}) { p["amount"] = -100 }},
		{"bad currency", func(p map[string]interface{}) { p["currency"] = "pounds" }},
		{"missing order", func(p map[string]interface{}) { delete(p, "orderId") }},
		{"bad email", func(p map[string]interface{}) { p["customerEmail"] = "not-an-email" }},
	}

	for _, tc := range cases {
		payload := paymentPayload()
		tc.patch(payload)
		resp := doJSON(t, app, http.MethodPost, "/api/payment/intent", "", payload)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", tc.name, resp.Code, resp.Body.String())
		}
	}
}

func TestCreatePaymentIntentWithoutProcessorKey(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	os.Unsetenv("STRIPE_SECRET_KEY")

	resp := doJSON(t, app, http.MethodPost, "/api/payment/intent", "", paymentPayload())
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the processor key is absent, got %d", resp.Code)
	}

	// Caller sees a generic failure, never processor detail
	var out struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if out.Error != "payment_failed" {
		t.Fatalf("expected payment_failed code, got %q", out.Error)
	}
}
