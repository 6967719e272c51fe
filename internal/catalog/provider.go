package catalog

import (
	"context"

	"github.com/xaenox/shopbot/internal/models"
)

// Provider supplies the current product catalog on demand. The engine treats
// an empty catalog as "no results", never as an error.
type Provider interface {
	Products(ctx context.Context) ([]models.CatalogItem, error)
	Close() error
}

// StaticProvider serves a fixed in-memory catalog. Useful for development
// and as the fallback when no database is configured.
type StaticProvider struct {
	items []models.CatalogItem
}

func NewStaticProvider(items []models.CatalogItem) *StaticProvider {
	if items == nil {
		items = SeedCatalog()
	}
	return &StaticProvider{items: items}
}

func (p *StaticProvider) Products(ctx context.Context) ([]models.CatalogItem, error) {
	out := make([]models.CatalogItem, len(p.items))
	copy(out, p.items)
	return out, nil
}

func (p *StaticProvider) Close() error {
	return nil
}

// SeedCatalog returns a small demo catalog whose categories line up with the
// canonical names produced by the rule tables.
func SeedCatalog() []models.CatalogItem {
	return []models.CatalogItem{
		{
			ID: "kb-corsair-k100", Name: "Corsair K100 RGB", Category: "Keyboard",
			Price: 24999, Brand: "corsair", Rating: 4.8,
			Description: "Flagship mechanical gaming keyboard with per-key RGB.",
			Features:    []string{"RGB", "mechanical", "macro keys"},
			Specifications: []models.Specification{
				{Label: "Switches", Value: "OPX optical-mechanical"},
				{Label: "Layout", Value: "Full size"},
			},
		},
		{
			ID: "kb-keychron-k2", Name: "Keychron K2", Category: "Keyboard",
			Price: 7499, Brand: "keychron", Rating: 4.5,
			Description: "Compact wireless mechanical keyboard with white backlight.",
			Features:    []string{"wireless", "mechanical", "bluetooth"},
		},
		{
			ID: "ms-logitech-gprox", Name: "Logitech G Pro X Superlight", Category: "Mouse",
			Price: 8999, Brand: "logitech", Rating: 4.6,
			Description: "Ultra lightweight wireless esports mouse.",
			Features:    []string{"wireless", "lightweight"},
		},
		{
			ID: "ms-razer-dav3", Name: "Razer DeathAdder V3", Category: "Mouse",
			Price: 5999, Brand: "razer", Rating: 4.4,
			Description: "Ergonomic wired gaming mouse.",
			Features:    []string{"ergonomic"},
		},
		{
			ID: "mn-benq-ex2710", Name: "BenQ MOBIUZ EX2710U", Category: "Monitor",
			Price: 54999, Brand: "benq", Rating: 4.7,
			Description: "27 inch 4K 144Hz gaming monitor with HDR.",
			Features:    []string{"4k", "144hz", "hdr"},
			Specifications: []models.Specification{
				{Label: "Panel", Value: "IPS"},
				{Label: "Resolution", Value: "3840x2160"},
			},
		},
		{
			ID: "mn-dell-s2722", Name: "Dell S2722QC", Category: "Monitor",
			Price: 28999, Brand: "dell", Rating: 4.3,
			Description: "27 inch 4K UHD USB-C monitor for work and play.",
			Features:    []string{"4k", "usb-c"},
		},
		{
			ID: "hp-sony-xm5", Name: "Sony WH-1000XM5", Category: "Headphones",
			Price: 26999, Brand: "sony", Rating: 4.8,
			Description: "Industry leading noise cancelling wireless headphones.",
			Features:    []string{"wireless", "noise cancelling", "bluetooth"},
		},
		{
			ID: "hp-hyperx-cloud3", Name: "HyperX Cloud III", Category: "Headphones",
			Price: 8499, Brand: "hyperx", Rating: 4.5,
			Description: "Comfortable wired gaming headset with detachable mic.",
			Features:    []string{"comfortable", "gaming"},
		},
		{
			ID: "ch-secretlab-titan", Name: "Secretlab TITAN Evo", Category: "Gaming Chair",
			Price: 41999, Brand: "secretlab", Rating: 4.7,
			Description: "Ergonomic gaming chair with integrated lumbar support.",
			Features:    []string{"ergonomic", "lumbar support"},
		},
		{
			ID: "ch-corsair-tc100", Name: "Corsair TC100 Relaxed", Category: "Gaming Chair",
			Price: 21999, Brand: "corsair", Rating: 4.2,
			Description: "Relaxed fit fabric gaming chair.",
			Features:    []string{"fabric", "gaming"},
		},
	}
}
