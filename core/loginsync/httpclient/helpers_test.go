package httpclient_test

import (
	"net/url"
	"testing"

	"pass-fxa/core/reconcile"

	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := reconcile.ParseHostname(raw)
	require.NoError(t, err)
	return u
}
