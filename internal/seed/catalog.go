package seed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/chefdevalor/internal/pricing"
)

type catalogFile struct {
	Ingredients []struct {
		Name          string  `yaml:"name"`
		PackageWeight float64 `yaml:"packageWeight"`
		PackageCost   float64 `yaml:"packageCost"`
	} `yaml:"ingredients"`
}

// LoadCatalogFile reads a seed catalog:
//
//	ingredients:
//	  - name: Leite Condensado
//	    packageWeight: 395
//	    packageCost: 5.50
func LoadCatalogFile(path string) ([]pricing.Ingredient, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed catalog %s: %w", path, err)
	}

	out := make([]pricing.Ingredient, 0, len(file.Ingredients))
	for i, item := range file.Ingredients {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("seed catalog entry %d: name is required", i)
		}
		if item.PackageWeight <= 0 {
			return nil, fmt.Errorf("seed catalog entry %q: packageWeight must be greater than 0", name)
		}
		if item.PackageCost < 0 {
			return nil, fmt.Errorf("seed catalog entry %q: packageCost must be greater than or equal to 0", name)
		}
		out = append(out, pricing.Ingredient{Name: name, PackageWeight: item.PackageWeight, PackageCost: item.PackageCost})
	}
	return out, nil
}
