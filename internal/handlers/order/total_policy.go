package order

import (
	"context"
	"fmt"
	"math"
	"os"

	"crema_back_end/internal/database"
	"crema_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// PriceLookup retourne le prix catalogue actuel d'une entrée du menu.
type PriceLookup interface {
	UnitPrice(ctx context.Context, menuItemID string) (float64, error)
}

// TotalPolicy décide si le total envoyé par le client est accepté.
// Deux stratégies existent : faire confiance au client (comportement
// historique) ou recalculer contre le catalogue et rejeter l'écart.
type TotalPolicy interface {
	Verify(ctx context.Context, items []models.OrderItem, totalPrice float64) error
}

// ClientComputedTotal accepte le total tel quel. C'est la stratégie par
// défaut : le total affiché au client et le total persisté sont toujours
// identiques, au prix d'une confiance aveugle dans le front.
type ClientComputedTotal struct{}

func (ClientComputedTotal) Verify(context.Context, []models.OrderItem, float64) error {
	return nil
}

// RecomputeAndVerifyTotal recalcule le total en centimes depuis le
// catalogue. Les lignes "plat du jour" gardent leur prix soumis : le plat
// a pu être retiré du catalogue entre l'ajout au panier et la commande,
// et le panier est un instantané assumé.
type RecomputeAndVerifyTotal struct {
	Prices PriceLookup
}

func (p RecomputeAndVerifyTotal) Verify(ctx context.Context, items []models.OrderItem, totalPrice float64) error {
	var expectedCents int64

	for _, item := range items {
		if item.Qty < 1 {
			return fmt.Errorf("quantité invalide pour '%s'", item.Name)
		}

		unitPrice := item.Price
		if !item.IsSpecial {
			if item.ID == nil {
				return fmt.Errorf("identifiant manquant pour '%s'", item.Name)
			}
			current, err := p.Prices.UnitPrice(ctx, *item.ID)
			if err != nil {
				return fmt.Errorf("plat introuvable au catalogue: '%s'", item.Name)
			}
			unitPrice = current
		}

		if unitPrice < 0 {
			return fmt.Errorf("prix invalide pour '%s'", item.Name)
		}

		expectedCents += toCents(unitPrice) * int64(item.Qty)
	}

	if toCents(totalPrice) != expectedCents {
		return fmt.Errorf("total incohérent: reçu %.2f, attendu %.2f",
			totalPrice, float64(expectedCents)/100)
	}

	return nil
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// scyllaPriceLookup lit le prix courant dans le keyspace catalogue.
type scyllaPriceLookup struct{}

func (scyllaPriceLookup) UnitPrice(_ context.Context, menuItemID string) (float64, error) {
	itemID, err := uuid.Parse(menuItemID)
	if err != nil {
		return 0, err
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return 0, err
	}

	var price float64
	if err := session.Query(`SELECT price FROM menu_items WHERE item_id = ?`, gocql.UUID(itemID)).
		Scan(&price); err != nil {
		return 0, err
	}

	return price, nil
}

// PolicyFromEnv sélectionne la stratégie via ORDER_TOTAL_POLICY
// ("recompute" pour la vérification stricte, tout le reste = confiance client).
func PolicyFromEnv() TotalPolicy {
	if os.Getenv("ORDER_TOTAL_POLICY") == "recompute" {
		return RecomputeAndVerifyTotal{Prices: scyllaPriceLookup{}}
	}
	return ClientComputedTotal{}
}
