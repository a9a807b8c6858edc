//go:build ignore

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleProducts writes a products JSON file the seeder can load
// via SEED_FILE. Run with: go run scripts/generate_sample_products.go
func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	desc := func(s string) *string { return &s }

	products := []struct {
		Name        string  `json:"name"`
		Description *string `json:"description,omitempty"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
	}{
		{"Espresso Machine", desc("Compact 15-bar pump espresso machine"), 189.99, 12},
		{"Pour Over Kettle", desc("Gooseneck kettle with thermometer"), 44.50, 40},
		{"Burr Grinder", desc("Conical burr grinder, 18 settings"), 79.00, 25},
		{"Ceramic Mug", nil, 12.00, 200},
		{"Single Origin Beans 1kg", desc("Washed Ethiopian, medium roast"), 28.90, 60},
	}

	filePath := filepath.Join(dataDir, "products.json")

	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		log.Fatalf("Failed to write %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}
