package filter

// State is the active predicate set shared between the list and map views.
// Empty slices and nil numeric bounds mean "no constraint".
type State struct {
	Categories    []string
	Subcategories []string
	ContractTypes []string

	Cities []string
	// Sublocalities are encoded as "City:Sublocality" pairs.
	Sublocalities []string
	Provinces     []string
	// Locations is the legacy flat location list kept for older clients that
	// filtered on the plain display string.
	Locations []string

	BudgetRanges []string
	BudgetMin    *float64
	BudgetMax    *float64

	ClientTypes   []string
	PostTypes     []string
	UrgencyLevels []string

	Query      string
	EndingSoon bool
}

// Budget range buckets accepted in State.BudgetRanges.
const (
	BudgetRangeLow  = "<5000"
	BudgetRangeMid  = "5000-20000"
	BudgetRangeHigh = "20000+"
)

// IsZero reports whether no predicate is active.
func (s State) IsZero() bool {
	return len(s.Categories) == 0 &&
		len(s.Subcategories) == 0 &&
		len(s.ContractTypes) == 0 &&
		len(s.Cities) == 0 &&
		len(s.Sublocalities) == 0 &&
		len(s.Provinces) == 0 &&
		len(s.Locations) == 0 &&
		len(s.BudgetRanges) == 0 &&
		s.BudgetMin == nil &&
		s.BudgetMax == nil &&
		len(s.ClientTypes) == 0 &&
		len(s.PostTypes) == 0 &&
		len(s.UrgencyLevels) == 0 &&
		s.Query == "" &&
		!s.EndingSoon
}
