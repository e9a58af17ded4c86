// Package client est le pilote de commande côté client : soumission du
// panier, puis règlement simulé. Il consomme l'API REST du serveur et ne
// touche jamais la base directement.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"crema_back_end/pkg/cart"
)

// ErrEmptyCart est retourné par SubmitOrder sans qu'aucun appel réseau
// n'ait lieu.
var ErrEmptyCart = errors.New("le panier est vide")

type PaymentMethod string

const (
	PaymentCard  PaymentMethod = "card"
	PaymentCash  PaymentMethod = "cash"
	PaymentEsewa PaymentMethod = "esewa"
)

// Client porte le jeton de session et la configuration de la simulation
// de paiement. PaymentDelay imite la latence d'un processeur de paiement.
type Client struct {
	BaseURL      string
	Token        string
	HTTPClient   *http.Client
	PaymentDelay time.Duration

	// newRequestID est remplaçable dans les tests
	newRequestID func() string
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Token:        token,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		PaymentDelay: 2 * time.Second,
		newRequestID: uuid.NewString,
	}
}

// OrderConfirmation est la réponse de création de commande.
type OrderConfirmation struct {
	OrderID    string
	TotalPrice float64
}

// SubmitOrder envoie le panier au serveur. Un panier vide est refusé
// localement. En cas de succès le panier est vidé ; toute erreur (réseau
// ou refus du serveur) le laisse intact pour une nouvelle tentative.
// Chaque tentative porte son propre X-Request-ID : un rejeu accidentel
// côté transport ne crée pas de doublon.
func (c *Client) SubmitOrder(ctx context.Context, userID string, k *cart.Cart) (*OrderConfirmation, error) {
	if k.IsEmpty() {
		return nil, ErrEmptyCart
	}

	snap := k.Snapshot(userID)
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}

	var resp struct {
		OrderID string `json:"orderId"`
	}
	if err := c.post(ctx, "/api/orders", body, http.StatusCreated, &resp); err != nil {
		return nil, err
	}

	k.Clear()
	return &OrderConfirmation{OrderID: resp.OrderID, TotalPrice: snap.TotalPrice}, nil
}

// CardDetails sont les champs saisis pour un règlement par carte. Seuls
// les 4 derniers chiffres quittent le client.
type CardDetails struct {
	CardNumber     string
	ExpiryDate     string
	CVV            string
	CardholderName string
}

// paymentRequest est le corps de POST /api/orders/:orderId/payment.
// Les clés camelCase sont celles que lit le serveur.
type paymentRequest struct {
	PaymentMethod  string            `json:"paymentMethod"`
	PaymentDetails map[string]string `json:"paymentDetails"`
}

// PaymentResult est la réponse de règlement.
type PaymentResult struct {
	OrderID string
	Status  string
}

// Pay simule la latence du processeur puis confirme le règlement d'une
// commande déjà soumise. Toutes les méthodes suivent ce même chemin :
// la commande existe en "pending" avant que le paiement ne parte.
// Aucune relance automatique en cas d'échec.
func (c *Client) Pay(ctx context.Context, orderID string, method PaymentMethod, card *CardDetails) (*PaymentResult, error) {
	if method == PaymentCard && card == nil {
		return nil, errors.New("détails de carte requis")
	}

	select {
	case <-time.After(c.PaymentDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	details := map[string]string{}
	if method == PaymentCard {
		details["last4"] = lastDigits(card.CardNumber, 4)
		details["cardholder"] = card.CardholderName
	}

	body, err := json.Marshal(paymentRequest{
		PaymentMethod:  string(method),
		PaymentDetails: details,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := c.post(ctx, "/api/orders/"+orderID+"/payment", body, http.StatusOK, &resp); err != nil {
		return nil, err
	}

	return &PaymentResult{OrderID: resp.OrderID, Status: resp.Status}, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte, wantStatus int, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", c.newRequestID())
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("impossible de joindre le serveur: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode != wantStatus {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("le serveur a refusé la requête (%d): %s", res.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("le serveur a refusé la requête (%d)", res.StatusCode)
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func lastDigits(cardNumber string, n int) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cardNumber)
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}
