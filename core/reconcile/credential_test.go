package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLogin(t *testing.T, name, username, password, hostname string, filter Filter) LocalLogin {
	t.Helper()
	u, err := ParseHostname(hostname)
	require.NoError(t, err)
	return LocalLogin{Name: name, Username: username, Password: password, URL: u, Filter: filter}
}

func TestSelectCredential_ByHost(t *testing.T) {
	logins := []LocalLogin{
		mustLogin(t, "web/github", "octo", "p1", "https://github.com", FilterNone),
		mustLogin(t, "firefox.com/me", "me@example.com", "secret", "https://firefox.com", FilterNone),
	}

	cred, err := SelectCredential(logins, CredentialOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, cred.Index)
	assert.Equal(t, "me@example.com", cred.Login.Username)
	assert.True(t, cred.Excluded())
}

func TestSelectCredential_HostIgnoresSchemeAndPort(t *testing.T) {
	logins := []LocalLogin{
		mustLogin(t, "a", "me", "secret", "http://firefox.com:8080/path", FilterNone),
	}
	cred, err := SelectCredential(logins, CredentialOptions{})
	require.NoError(t, err)
	assert.Equal(t, "a", cred.Login.Name)
}

func TestSelectCredential_CustomHost(t *testing.T) {
	logins := []LocalLogin{
		mustLogin(t, "firefox.com/me", "me", "secret", "https://firefox.com", FilterNone),
		mustLogin(t, "sync.example/me", "you", "secret", "https://sync.example", FilterNone),
	}
	cred, err := SelectCredential(logins, CredentialOptions{Host: "sync.example"})
	require.NoError(t, err)
	assert.Equal(t, "you", cred.Login.Username)
}

func TestSelectCredential_NotFound(t *testing.T) {
	logins := []LocalLogin{
		mustLogin(t, "web/github", "octo", "p1", "https://github.com", FilterNone),
	}

	_, err := SelectCredential(logins, CredentialOptions{})
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	_, err = SelectCredential(logins, CredentialOptions{SecretName: "missing"})
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestSelectCredential_Ambiguous(t *testing.T) {
	logins := []LocalLogin{
		mustLogin(t, "firefox.com/personal", "me@home", "a", "https://firefox.com", FilterNone),
		mustLogin(t, "web/github", "octo", "p1", "https://github.com", FilterNone),
		mustLogin(t, "firefox.com/work", "me@work", "b", "https://firefox.com", FilterNone),
	}

	_, err := SelectCredential(logins, CredentialOptions{})

	var ambiguous *AmbiguousCredentialsError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []CredentialCandidate{
		{Name: "firefox.com/personal", Username: "me@home"},
		{Name: "firefox.com/work", Username: "me@work"},
	}, ambiguous.Candidates)
	assert.Contains(t, err.Error(), "firefox.com/personal")
	assert.Contains(t, err.Error(), "firefox.com/work")
}

func TestSelectCredential_OverrideIgnoresHostCandidates(t *testing.T) {
	logins := []LocalLogin{
		mustLogin(t, "firefox.com/personal", "me@home", "a", "https://firefox.com", FilterNone),
		mustLogin(t, "firefox.com/work", "me@work", "b", "https://firefox.com", FilterNone),
		mustLogin(t, "accounts/sync", "me@sync", "c", "https://accounts.example", FilterNone),
	}

	cred, err := SelectCredential(logins, CredentialOptions{SecretName: "accounts/sync"})
	require.NoError(t, err)
	assert.Equal(t, 2, cred.Index)

	tracked := TrackedLogins(logins, cred)
	assert.Len(t, tracked, 2)
	assert.Equal(t, "firefox.com/personal", tracked[0].Name)
	assert.Equal(t, "firefox.com/work", tracked[1].Name)
}

func TestCredentialExclusion(t *testing.T) {
	t.Run("unmarked credential is excluded", func(t *testing.T) {
		logins := []LocalLogin{
			mustLogin(t, "firefox.com/me", "me", "secret", "https://firefox.com", FilterNone),
			mustLogin(t, "web/github", "octo", "p1", "https://github.com", FilterNone),
		}
		cred, err := SelectCredential(logins, CredentialOptions{})
		require.NoError(t, err)

		eligible := EligibleLogins(logins, cred, ResolveFilterMode(logins))
		assert.Len(t, eligible, 1)
		assert.Equal(t, "web/github", eligible[0].Name)
		assert.Len(t, TrackedLogins(logins, cred), 1)
	})

	t.Run("include marked credential is synced", func(t *testing.T) {
		logins := []LocalLogin{
			mustLogin(t, "firefox.com/me", "me", "secret", "https://firefox.com", FilterInclude),
			mustLogin(t, "web/github", "octo", "p1", "https://github.com", FilterNone),
		}
		cred, err := SelectCredential(logins, CredentialOptions{})
		require.NoError(t, err)
		assert.False(t, cred.Excluded())

		mode := ResolveFilterMode(logins)
		assert.Equal(t, IncludeOnly, mode)

		eligible := EligibleLogins(logins, cred, mode)
		assert.Len(t, eligible, 1)
		assert.Equal(t, "firefox.com/me", eligible[0].Name)
		assert.Len(t, TrackedLogins(logins, cred), 2)
	})

	t.Run("exclude marked credential stays excluded", func(t *testing.T) {
		logins := []LocalLogin{
			mustLogin(t, "firefox.com/me", "me", "secret", "https://firefox.com", FilterExclude),
			mustLogin(t, "web/github", "octo", "p1", "https://github.com", FilterNone),
		}
		cred, err := SelectCredential(logins, CredentialOptions{})
		require.NoError(t, err)

		eligible := EligibleLogins(logins, cred, ResolveFilterMode(logins))
		assert.Len(t, eligible, 1)
		assert.Equal(t, "web/github", eligible[0].Name)
	})
}
