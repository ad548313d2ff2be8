package reconcile

// DefaultCredentialHost is the URL host marking a secret as the sync-account
// credential.
const DefaultCredentialHost = "firefox.com"

// CredentialOptions controls sync-account credential discovery.
type CredentialOptions struct {
	// Host is the URL host identifying credential candidates.
	// Empty means DefaultCredentialHost.
	Host string

	// SecretName, when set, selects the secret with exactly this name and
	// disables host based discovery.
	SecretName string
}

// Credential is the selected sync-account credential.
type Credential struct {
	// Login is the extracted credential login.
	Login LocalLogin

	// Index is the position of Login in the slice it was selected from.
	Index int
}

// SelectCredential finds the single local login used to authenticate to the
// sync service.
func SelectCredential(logins []LocalLogin, opts CredentialOptions) (Credential, error) {
	host := opts.Host
	if host == "" {
		host = DefaultCredentialHost
	}

	var matches []int
	for i, login := range logins {
		if opts.SecretName != "" {
			if login.Name == opts.SecretName {
				matches = append(matches, i)
			}
			continue
		}
		if login.URL != nil && login.URL.Hostname() == host {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return Credential{}, ErrCredentialsNotFound
	case 1:
		return Credential{Login: logins[matches[0]], Index: matches[0]}, nil
	default:
		candidates := make([]CredentialCandidate, 0, len(matches))
		for _, i := range matches {
			candidates = append(candidates, CredentialCandidate{
				Name:     logins[i].Name,
				Username: logins[i].Username,
			})
		}
		return Credential{}, &AmbiguousCredentialsError{Candidates: candidates}
	}
}

// Excluded reports whether the credential is kept out of job generation.
// A credential explicitly marked include is synced like any other login.
func (c Credential) Excluded() bool {
	return c.Login.Filter != FilterInclude
}

// TrackedLogins returns logins with the credential removed unless it opted in.
// This is the local set used by the deletion reconciler.
func TrackedLogins(logins []LocalLogin, cred Credential) []LocalLogin {
	tracked := make([]LocalLogin, 0, len(logins))
	for i, login := range logins {
		if i == cred.Index && cred.Excluded() {
			continue
		}
		tracked = append(tracked, login)
	}
	return tracked
}

// EligibleLogins returns the tracked logins that pass the filter mode.
// This is the local set used by the upload reconciler.
func EligibleLogins(logins []LocalLogin, cred Credential, mode FilterMode) []LocalLogin {
	tracked := TrackedLogins(logins, cred)
	eligible := make([]LocalLogin, 0, len(tracked))
	for _, login := range tracked {
		if mode.Eligible(login.Filter) {
			eligible = append(eligible, login)
		}
	}
	return eligible
}
