package repository

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

// Seed describes cafes, tables and prices to preload into a MemoryStore.
type Seed struct {
	Cafes []SeedCafe `yaml:"cafes"`
}

// SeedCafe is one cafe in a seed file.
type SeedCafe struct {
	ID       string        `yaml:"id"`
	Strategy string        `yaml:"strategy"`
	Tables   []SeedTable   `yaml:"tables"`
	Pricing  []SeedPricing `yaml:"pricing"`
}

// SeedTable is one table in a seed file.
type SeedTable struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// SeedPricing is one pricing rule in a seed file. Omitted prices stay unset.
type SeedPricing struct {
	Type        string  `yaml:"type"`
	Hour        *string `yaml:"hour"`
	HalfHour    *string `yaml:"half_hour"`
	ExtraPlayer *string `yaml:"extra_player"`
}

// LoadSeedFile reads a YAML seed file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("seed: decode yaml %s: %w", path, err)
	}
	return &seed, nil
}

// Apply loads the seed into store.
func (s *Seed) Apply(store *MemoryStore) error {
	for _, cafe := range s.Cafes {
		if strings.TrimSpace(cafe.ID) == "" {
			return fmt.Errorf("seed: cafe without id")
		}
		strategy := models.Strategy(cafe.Strategy)
		if strategy == "" {
			strategy = models.StrategyProRata
		}
		if !strategy.Valid() {
			return fmt.Errorf("seed: cafe %s: unknown strategy %q", cafe.ID, cafe.Strategy)
		}
		store.PutCafe(cafe.ID, strategy)

		for _, t := range cafe.Tables {
			tableType := models.TableType(t.Type)
			if !tableType.Valid() {
				return fmt.Errorf("seed: table %s: unknown type %q", t.ID, t.Type)
			}
			store.PutTable(models.Table{ID: t.ID, CafeID: cafe.ID, Name: t.Name, Type: tableType})
		}

		for _, p := range cafe.Pricing {
			rule := models.PricingRule{CafeID: cafe.ID, TableType: models.TableType(p.Type)}
			if !rule.TableType.Valid() {
				return fmt.Errorf("seed: cafe %s: unknown pricing type %q", cafe.ID, p.Type)
			}
			var err error
			if rule.HourPrice, err = seedPrice(p.Hour); err != nil {
				return err
			}
			if rule.HalfHourPrice, err = seedPrice(p.HalfHour); err != nil {
				return err
			}
			if rule.ExtraPlayerPrice, err = seedPrice(p.ExtraPlayer); err != nil {
				return err
			}
			store.PutRule(rule)
		}
	}
	return nil
}

func seedPrice(raw *string) (decimal.NullDecimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("seed: price %q: %w", *raw, err)
	}
	return decimal.NewNullDecimal(d), nil
}
