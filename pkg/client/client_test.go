package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crema_back_end/pkg/cart"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, "jeton-test")
	c.PaymentDelay = 0
	return c, &calls
}

func filledCart() *cart.Cart {
	k := cart.New()
	k.Add(cart.Entry{LineID: "m-espresso", Name: "Espresso", UnitPrice: 4.50})
	k.Add(cart.Entry{LineID: "m-espresso", Name: "Espresso", UnitPrice: 4.50})
	return k
}

func TestSubmitOrderEmptyCartNoNetworkCall(t *testing.T) {
	c, calls := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("aucune requête attendue")
	})

	_, err := c.SubmitOrder(context.Background(), "user-1", cart.New())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, *calls)
}

func TestSubmitOrderSuccessClearsCart(t *testing.T) {
	var gotBody cart.OrderSnapshot
	var gotRequestID, gotAuth string

	c, calls := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders", r.URL.Path)
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Commande enregistrée",
			"orderId": "42",
		})
	})

	k := filledCart()
	conf, err := c.SubmitOrder(context.Background(), "user-1", k)
	require.NoError(t, err)

	assert.Equal(t, "42", conf.OrderID)
	assert.InDelta(t, 9.00, conf.TotalPrice, 0.0001)
	assert.True(t, k.IsEmpty())
	assert.Equal(t, 1, *calls)

	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "Bearer jeton-test", gotAuth)
	assert.Equal(t, "user-1", gotBody.UserID)
	require.Len(t, gotBody.OrderItems, 1)
	assert.Equal(t, 2, gotBody.OrderItems[0].Qty)
	assert.InDelta(t, 9.00, gotBody.TotalPrice, 0.0001)
}

func TestSubmitOrderServerErrorLeavesCartIntact(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Total incohérent"})
	})

	k := filledCart()
	_, err := c.SubmitOrder(context.Background(), "user-1", k)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Total incohérent")
	assert.Equal(t, 2, k.TotalItems())
}

func TestSubmitOrderNetworkErrorLeavesCartIntact(t *testing.T) {
	c := New("http://127.0.0.1:1", "jeton-test")
	c.HTTPClient = &http.Client{Timeout: 200 * time.Millisecond}

	k := filledCart()
	_, err := c.SubmitOrder(context.Background(), "user-1", k)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "impossible de joindre le serveur")
	assert.Equal(t, 2, k.TotalItems())
}

func TestEachSubmitAttemptCarriesFreshRequestID(t *testing.T) {
	var seen []string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusInternalServerError)
	})

	k := filledCart()
	_, _ = c.SubmitOrder(context.Background(), "user-1", k)
	_, _ = c.SubmitOrder(context.Background(), "user-1", k)

	require.Len(t, seen, 2)
	assert.NotEqual(t, seen[0], seen[1])
}

func TestPayCardSendsOnlyLast4(t *testing.T) {
	var gotBody struct {
		Method  string            `json:"paymentMethod"`
		Details map[string]string `json:"paymentDetails"`
	}

	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/orders/42/payment", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Paiement confirmé",
			"orderId": "42",
			"status":  "preparing",
		})
	})

	res, err := c.Pay(context.Background(), "42", PaymentCard, &CardDetails{
		CardNumber:     "4242 4242 4242 4242",
		ExpiryDate:     "12/27",
		CVV:            "123",
		CardholderName: "Jean Dupont",
	})
	require.NoError(t, err)

	assert.Equal(t, "preparing", res.Status)
	assert.Equal(t, "card", gotBody.Method)
	assert.Equal(t, "4242", gotBody.Details["last4"])
	assert.NotContains(t, gotBody.Details, "cvv")
}

// Verrouille les clés JSON du paiement : le serveur lit paymentMethod et
// paymentDetails, toute autre casse serait liée à une méthode vide côté
// serveur et un refus systématique.
func TestPayWireKeysMatchServerBinding(t *testing.T) {
	var rawBody map[string]json.RawMessage
	// même forme que la structure de binding du gestionnaire de paiement
	var bound struct {
		PaymentMethod  string          `json:"paymentMethod"`
		PaymentDetails json.RawMessage `json:"paymentDetails"`
	}

	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &rawBody))
		require.NoError(t, json.Unmarshal(raw, &bound))
		_ = json.NewEncoder(w).Encode(map[string]string{"orderId": "42", "status": "preparing"})
	})

	_, err := c.Pay(context.Background(), "42", PaymentCash, nil)
	require.NoError(t, err)

	assert.Contains(t, rawBody, "paymentMethod")
	assert.Contains(t, rawBody, "paymentDetails")
	assert.Equal(t, "cash", bound.PaymentMethod)
}

func TestPayCashNeedsNoCardDetails(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"orderId": "42", "status": "preparing"})
	})

	res, err := c.Pay(context.Background(), "42", PaymentCash, nil)
	require.NoError(t, err)
	assert.Equal(t, "preparing", res.Status)
}

func TestPayCardWithoutDetailsFailsLocally(t *testing.T) {
	c, calls := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("aucune requête attendue")
	})

	_, err := c.Pay(context.Background(), "42", PaymentCard, nil)
	require.Error(t, err)
	assert.Equal(t, 0, *calls)
}

func TestPayFailureDoesNotRetry(t *testing.T) {
	c, calls := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Transition impossible depuis le statut completed"})
	})

	_, err := c.Pay(context.Background(), "42", PaymentCash, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Transition impossible")
	assert.Equal(t, 1, *calls)
}

func TestPayRespectsContextDuringSimulatedDelay(t *testing.T) {
	c, calls := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("aucune requête attendue")
	})
	c.PaymentDelay = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Pay(ctx, "42", PaymentCash, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, *calls)
}
