package variant

import "github.com/GTDGit/gtd_storefront/internal/models"

// Selection maps option name to the chosen value. It may cover only a subset
// of the product's options.
type Selection map[string]string

// Clone returns an independent copy of s.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Complete reports whether s assigns a value to every option of p.
func (s Selection) Complete(p *models.Product) bool {
	for _, opt := range p.Options {
		if _, ok := s[opt.Name]; !ok {
			return false
		}
	}
	return true
}

// assigned counts how many of p's declared options have a value in s.
func (s Selection) assigned(p *models.Product) int {
	n := 0
	for _, opt := range p.Options {
		if _, ok := s[opt.Name]; ok {
			n++
		}
	}
	return n
}

// compatible reports whether v agrees with every value fixed in s for the
// options p declares. Options absent from s are wildcards. The option named
// skip is ignored.
func compatible(p *models.Product, v *models.Variant, s Selection, skip string) bool {
	for _, opt := range p.Options {
		if opt.Name == skip {
			continue
		}
		want, ok := s[opt.Name]
		if !ok {
			continue
		}
		if got, ok := v.OptionValues[opt.Name]; !ok || got != want {
			return false
		}
	}
	return true
}
