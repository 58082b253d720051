package policy

import (
	"fmt"
	"os"

	"github.com/epeers/riskflow/internal/models"
	"gopkg.in/yaml.v3"
)

// fileOverlay is the on-disk shape of a policy file. Every section is
// optional; sections that are present replace the built-in ones.
type fileOverlay struct {
	SectorTickers   []SectorTickers              `yaml:"sector_tickers"`
	KeywordRules    []KeywordRule                `yaml:"keyword_rules"`
	Dependency      map[string]string            `yaml:"dependency"`
	Recommendations map[string]map[string]string `yaml:"recommendations"`
}

// LoadFile reads a YAML policy file and overlays it on the default policy.
// Threshold tables are not part of the file.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return Parse(data)
}

// Parse overlays YAML policy data on the default policy.
func Parse(data []byte) (*Policy, error) {
	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	p := Default()

	if overlay.SectorTickers != nil {
		for _, st := range overlay.SectorTickers {
			if err := validSector(st.Sector); err != nil {
				return nil, err
			}
		}
		p.SectorTickers = overlay.SectorTickers
	}

	if overlay.KeywordRules != nil {
		for _, rule := range overlay.KeywordRules {
			if err := validSector(rule.Sector); err != nil {
				return nil, err
			}
		}
		p.KeywordRules = overlay.KeywordRules
	}

	if overlay.Dependency != nil {
		dep := make(map[models.Sector]string, len(overlay.Dependency))
		for sector, level := range overlay.Dependency {
			if err := validSector(models.Sector(sector)); err != nil {
				return nil, err
			}
			dep[models.Sector(sector)] = level
		}
		p.Dependency = dep
	}

	if overlay.Recommendations != nil {
		for key, table := range overlay.Recommendations {
			if key != defaultTableKey {
				if err := validSector(models.Sector(key)); err != nil {
					return nil, err
				}
			}
			for band := range table {
				switch band {
				case ImpactHigh, ImpactMedium, ImpactLow:
				default:
					return nil, fmt.Errorf("unknown impact band %q in recommendations for %q", band, key)
				}
			}
		}
		p.Recommendations = overlay.Recommendations
	}

	return p, nil
}

func validSector(s models.Sector) error {
	for _, known := range models.Sectors {
		if s == known {
			return nil
		}
	}
	return fmt.Errorf("unknown sector %q", s)
}
