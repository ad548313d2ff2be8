package reconcile

// Filter is the optional per-entry policy marker read from the "fxa" property.
type Filter int

const (
	// FilterNone means the secret carries no marker.
	FilterNone Filter = iota
	// FilterInclude opts the secret in.
	FilterInclude
	// FilterExclude opts the secret out.
	FilterExclude
)

// String returns the marker as written in a secret.
func (f Filter) String() string {
	switch f {
	case FilterInclude:
		return "include"
	case FilterExclude:
		return "exclude"
	default:
		return "none"
	}
}

// ParseFilter converts a marker value. Only "include" and "exclude" are accepted.
func ParseFilter(value string) (Filter, error) {
	switch value {
	case "include":
		return FilterInclude, nil
	case "exclude":
		return FilterExclude, nil
	default:
		return FilterNone, &UnknownFilterError{Value: value}
	}
}

// FilterMode is the run-wide policy derived from every login's marker.
type FilterMode int

const (
	// NoFilter: no login carries a marker.
	NoFilter FilterMode = iota
	// IncludeOnly: at least one login is marked include and none exclude.
	IncludeOnly
	// ExcludeOnly: at least one login is marked exclude and none include.
	ExcludeOnly
	// Conflicting: both markers occur. No jobs are produced.
	Conflicting
)

// String returns a human readable mode name.
func (m FilterMode) String() string {
	switch m {
	case IncludeOnly:
		return "include-only"
	case ExcludeOnly:
		return "exclude-only"
	case Conflicting:
		return "conflicting"
	default:
		return "no-filter"
	}
}

// Add folds one marker into the mode.
func (m FilterMode) Add(f Filter) FilterMode {
	switch f {
	case FilterInclude:
		if m == NoFilter || m == IncludeOnly {
			return IncludeOnly
		}
		return Conflicting
	case FilterExclude:
		if m == NoFilter || m == ExcludeOnly {
			return ExcludeOnly
		}
		return Conflicting
	default:
		return m
	}
}

// Eligible reports whether a login with the given marker takes part in uploads
// under this mode.
func (m FilterMode) Eligible(f Filter) bool {
	switch m {
	case NoFilter:
		return true
	case IncludeOnly:
		return f == FilterInclude
	case ExcludeOnly:
		return f != FilterExclude
	default:
		return false
	}
}

// ResolveFilterMode folds the markers of all logins in one pass.
func ResolveFilterMode(logins []LocalLogin) FilterMode {
	mode := NoFilter
	for _, login := range logins {
		mode = mode.Add(login.Filter)
	}
	return mode
}
