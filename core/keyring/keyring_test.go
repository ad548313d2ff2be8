package keyring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestSaveLookupDelete(t *testing.T) {
	gokeyring.MockInit()

	_, ok := Lookup("sync.api_key")
	assert.False(t, ok)
	assert.False(t, Has("sync.api_key"))

	require.NoError(t, Save("sync.api_key", "s3cret"))
	value, ok := Lookup("sync.api_key")
	assert.True(t, ok)
	assert.Equal(t, "s3cret", value)
	assert.True(t, Has("sync.api_key"))

	require.NoError(t, Delete("sync.api_key"))
	assert.False(t, Has("sync.api_key"))
	assert.NoError(t, Delete("sync.api_key"), "deleting a missing secret succeeds")
}

func TestResolve(t *testing.T) {
	gokeyring.MockInit()
	require.NoError(t, Save("database.password", "from-keyring"))

	assert.Equal(t, "explicit", Resolve("explicit", "database.password"))
	assert.Equal(t, "from-keyring", Resolve("", "database.password"))
	assert.Equal(t, "", Resolve("", "storage.secret_key"))
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no secret service"))

	_, ok := Lookup("sync.api_key")
	assert.False(t, ok)
	assert.Equal(t, "", Resolve("", "sync.api_key"))
	assert.Error(t, Save("sync.api_key", "x"))
	assert.Error(t, Delete("sync.api_key"))
}

func TestIsSecretKey(t *testing.T) {
	assert.True(t, IsSecretKey("storage.secret_key"))
	assert.False(t, IsSecretKey("sync.backend"))
}
