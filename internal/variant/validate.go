package variant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// AnomalyKind classifies a catalog data-integrity problem.
type AnomalyKind string

const (
	AnomalyDuplicateOption    AnomalyKind = "duplicate_option"
	AnomalyDuplicateValue     AnomalyKind = "duplicate_option_value"
	AnomalyEmptyOption        AnomalyKind = "empty_option"
	AnomalyMissingVariants    AnomalyKind = "missing_variants"
	AnomalyDuplicateVariantID AnomalyKind = "duplicate_variant_id"
	AnomalyMissingOptionValue AnomalyKind = "variant_missing_option"
	AnomalyUnknownOption      AnomalyKind = "variant_unknown_option"
	AnomalyUnknownValue       AnomalyKind = "variant_unknown_value"
	AnomalyDuplicateSignature AnomalyKind = "duplicate_signature"
)

// Anomaly is one data-integrity problem found in a product.
type Anomaly struct {
	Kind      AnomalyKind `json:"kind"`
	ProductID string      `json:"productId,omitempty"`
	VariantID string      `json:"variantId,omitempty"`
	Option    string      `json:"option,omitempty"`
	Value     string      `json:"value,omitempty"`
	Detail    string      `json:"detail"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s: %s", a.Kind, a.Detail)
}

// Validate checks p against the catalog invariants: option names and values
// are distinct, every variant assigns exactly one declared value to each
// declared option, and no two variants share a signature. It returns the
// anomalies in a stable order; nil means the product is clean.
func Validate(p *models.Product) []Anomaly {
	var out []Anomaly
	add := func(a Anomaly) {
		a.ProductID = p.ID
		out = append(out, a)
	}

	declared := make(map[string]map[string]bool, len(p.Options))
	for _, opt := range p.Options {
		if _, dup := declared[opt.Name]; dup {
			add(Anomaly{Kind: AnomalyDuplicateOption, Option: opt.Name,
				Detail: fmt.Sprintf("option %q declared more than once", opt.Name)})
			continue
		}
		values := make(map[string]bool, len(opt.Values))
		for _, v := range opt.Values {
			if values[v] {
				add(Anomaly{Kind: AnomalyDuplicateValue, Option: opt.Name, Value: v,
					Detail: fmt.Sprintf("value %q repeated in option %q", v, opt.Name)})
			}
			values[v] = true
		}
		if len(values) == 0 {
			add(Anomaly{Kind: AnomalyEmptyOption, Option: opt.Name,
				Detail: fmt.Sprintf("option %q has no values", opt.Name)})
		}
		declared[opt.Name] = values
	}

	if p.HasOptions() && len(p.Variants) == 0 {
		add(Anomaly{Kind: AnomalyMissingVariants, Detail: "configurable product has no variants"})
	}
	if !p.HasOptions() {
		return out
	}

	ids := make(map[string]bool, len(p.Variants))
	seen := make(map[string]string, len(p.Variants))
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.ID != "" && ids[v.ID] {
			add(Anomaly{Kind: AnomalyDuplicateVariantID, VariantID: v.ID,
				Detail: fmt.Sprintf("variant id %q used more than once", v.ID)})
		}
		ids[v.ID] = true

		clean := true
		for _, opt := range p.Options {
			val, ok := v.OptionValues[opt.Name]
			if !ok {
				clean = false
				add(Anomaly{Kind: AnomalyMissingOptionValue, VariantID: v.ID, Option: opt.Name,
					Detail: fmt.Sprintf("variant %q has no value for option %q", v.ID, opt.Name)})
				continue
			}
			if !declared[opt.Name][val] {
				clean = false
				add(Anomaly{Kind: AnomalyUnknownValue, VariantID: v.ID, Option: opt.Name, Value: val,
					Detail: fmt.Sprintf("variant %q uses undeclared value %q for option %q", v.ID, val, opt.Name)})
			}
		}
		for _, name := range sortedKeys(v.OptionValues) {
			if _, ok := declared[name]; !ok {
				clean = false
				add(Anomaly{Kind: AnomalyUnknownOption, VariantID: v.ID, Option: name,
					Detail: fmt.Sprintf("variant %q references undeclared option %q", v.ID, name)})
			}
		}
		if !clean {
			continue
		}

		sig := Signature(p, v.OptionValues)
		if first, dup := seen[sig]; dup {
			add(Anomaly{Kind: AnomalyDuplicateSignature, VariantID: v.ID,
				Detail: fmt.Sprintf("variant %q repeats the signature of variant %q", v.ID, first)})
			continue
		}
		seen[sig] = v.ID
	}
	return out
}

// Signature renders values as a canonical key in the product's option order,
// e.g. "Color=Red|Size=S".
func Signature(p *models.Product, values map[string]string) string {
	parts := make([]string, 0, len(p.Options))
	for _, opt := range p.Options {
		parts = append(parts, opt.Name+"="+values[opt.Name])
	}
	return strings.Join(parts, "|")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
