package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// Query-parameter names for shareable filtered views.
const (
	paramCategories    = "categories"
	paramSubcategories = "subcategories"
	paramContractTypes = "contractTypes"
	paramCities        = "cities"
	paramSublocalities = "sublocalities"
	paramProvinces     = "provinces"
	paramLocations     = "locations"
	paramBudgetRanges  = "budgetRanges"
	paramBudgetMin     = "budgetMin"
	paramBudgetMax     = "budgetMax"
	paramClientTypes   = "clientTypes"
	paramPostTypes     = "postTypes"
	paramUrgency       = "urgency"
	paramQuery         = "q"
	paramEndingSoon    = "endingSoon"
)

// EncodeQuery serializes the state into comma-separated query parameters.
// Inactive predicates are omitted entirely.
func EncodeQuery(s State) url.Values {
	v := url.Values{}
	setList := func(key string, xs []string) {
		if len(xs) > 0 {
			v.Set(key, strings.Join(xs, ","))
		}
	}

	setList(paramCategories, s.Categories)
	setList(paramSubcategories, s.Subcategories)
	setList(paramContractTypes, s.ContractTypes)
	setList(paramCities, s.Cities)
	setList(paramSublocalities, s.Sublocalities)
	setList(paramProvinces, s.Provinces)
	setList(paramLocations, s.Locations)
	setList(paramBudgetRanges, s.BudgetRanges)
	setList(paramClientTypes, s.ClientTypes)
	setList(paramPostTypes, s.PostTypes)
	setList(paramUrgency, s.UrgencyLevels)

	if s.BudgetMin != nil {
		v.Set(paramBudgetMin, strconv.FormatFloat(*s.BudgetMin, 'f', -1, 64))
	}
	if s.BudgetMax != nil {
		v.Set(paramBudgetMax, strconv.FormatFloat(*s.BudgetMax, 'f', -1, 64))
	}
	if strings.TrimSpace(s.Query) != "" {
		v.Set(paramQuery, strings.TrimSpace(s.Query))
	}
	if s.EndingSoon {
		v.Set(paramEndingSoon, "true")
	}
	return v
}

// DecodeQuery parses query parameters back into a State. Unknown parameters
// are ignored; malformed numbers simply drop the constraint.
func DecodeQuery(v url.Values) State {
	s := State{
		Categories:    splitList(v.Get(paramCategories)),
		Subcategories: splitList(v.Get(paramSubcategories)),
		ContractTypes: splitList(v.Get(paramContractTypes)),
		Cities:        splitList(v.Get(paramCities)),
		Sublocalities: splitList(v.Get(paramSublocalities)),
		Provinces:     splitList(v.Get(paramProvinces)),
		Locations:     splitList(v.Get(paramLocations)),
		BudgetRanges:  splitList(v.Get(paramBudgetRanges)),
		ClientTypes:   splitList(v.Get(paramClientTypes)),
		PostTypes:     splitList(v.Get(paramPostTypes)),
		UrgencyLevels: splitList(v.Get(paramUrgency)),
		Query:         strings.TrimSpace(v.Get(paramQuery)),
	}

	if raw := v.Get(paramBudgetMin); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			s.BudgetMin = &f
		}
	}
	if raw := v.Get(paramBudgetMax); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			s.BudgetMax = &f
		}
	}
	s.EndingSoon = v.Get(paramEndingSoon) == "true"
	return s
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
