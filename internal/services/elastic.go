package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"crema_back_end/internal/database"
	"crema_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const menuIndex = "menu_items"

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// IndexMenuItem indexe une entrée du menu dans Elasticsearch
func IndexMenuItem(item models.MenuItem) {
	if database.Elastic == nil {
		return
	}

	data, _ := json.Marshal(item)
	req := esapi.IndexRequest{
		Index:      menuIndex,
		DocumentID: item.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true", // rend la donnée immédiatement visible
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", item.Name, res.String())
	}
}

// RemoveMenuItem retire une entrée du menu de l'index
func RemoveMenuItem(itemID string) {
	if database.Elastic == nil {
		return
	}

	req := esapi.DeleteRequest{
		Index:      menuIndex,
		DocumentID: itemID,
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur suppression Elastic:", err)
		return
	}
	defer res.Body.Close()
}

//
// --- RECHERCHE DANS ELASTICSEARCH ---
//

// SearchMenu recherche dans le menu par nom, description ou catégorie
func SearchMenu(query string) ([]models.MenuItem, error) {
	if database.Elastic == nil {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name", "description", "category"},
			},
		},
	}

	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{menuIndex},
		Body:  &buf,
	}
	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("Elastic a renvoyé une erreur: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source models.MenuItem `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("erreur décodage réponse Elastic: %v", err)
	}

	items := make([]models.MenuItem, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		items = append(items, hit.Source)
	}

	return items, nil
}
