package objectstore_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"pass-fxa/core/loginsync"
	"pass-fxa/core/loginsync/objectstore"
	"pass-fxa/core/reconcile"
	"pass-fxa/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memClient is an in-memory storage.Client keeping objects in a map.
type memClient struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemClient() *memClient {
	return &memClient{objects: make(map[string][]byte)}
}

func (m *memClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return true, nil
}

func (m *memClient) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return nil
}

func (m *memClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = data
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func (m *memClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectName]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey"}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memClient) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	m.mu.Lock()
	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, opts.Prefix) {
			keys = append(keys, key)
		}
	}
	m.mu.Unlock()
	sort.Strings(keys)

	ch := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		ch <- minio.ObjectInfo{Key: key}
	}
	close(ch)
	return ch
}

func (m *memClient) RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	m.mu.Lock()
	for obj := range objectsCh {
		delete(m.objects, obj.Key)
	}
	m.mu.Unlock()
	ch := make(chan minio.RemoveObjectError)
	close(ch)
	return ch
}

func (m *memClient) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func TestAccountLifecycle(t *testing.T) {
	client := newMemClient()
	store := objectstore.New(client, "pass-fxa", "logins", zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.CreateAccount(ctx, "me@example.com", "secret"))
	assert.Equal(t, []string{"logins/me@example.com/account.json"}, client.keys())

	err := store.CreateAccount(ctx, "me@example.com", "again")
	assert.ErrorIs(t, err, loginsync.ErrAccountExists)

	_, err = store.Authenticate(ctx, "me@example.com", "wrong")
	assert.ErrorIs(t, err, loginsync.ErrAuthFailed)

	_, err = store.Authenticate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, loginsync.ErrAuthFailed)

	session, err := store.Authenticate(ctx, "me@example.com", "secret")
	require.NoError(t, err)
	assert.NotNil(t, session)
}

func TestLoginBatches(t *testing.T) {
	client := newMemClient()
	store := objectstore.New(client, "pass-fxa", "/logins/", nil)
	ctx := context.Background()
	require.NoError(t, store.CreateAccount(ctx, "me", "secret"))
	session, err := store.Authenticate(ctx, "me", "secret")
	require.NoError(t, err)

	err = session.PutLogins(ctx, []reconcile.Job{
		{Type: reconcile.JobCreate, Username: "a", Password: "p1", Hostname: "https://a.com"},
		{Type: reconcile.JobCreate, Username: "b", Password: "p2", Hostname: "https://b.com"},
		{Type: reconcile.JobCreate, Username: "c", Password: "p3", Hostname: "https://c.com"},
	})
	require.NoError(t, err)

	logins, err := session.FetchLogins(ctx)
	require.NoError(t, err)
	require.Len(t, logins, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{logins[0].Username, logins[1].Username, logins[2].Username})

	err = session.PutLogins(ctx, []reconcile.Job{{Type: reconcile.JobUpdate, ID: logins[2].ID, Password: "changed"}})
	require.NoError(t, err)
	require.NoError(t, session.DeleteLogins(ctx, []string{logins[0].ID}))

	after, err := session.FetchLogins(ctx)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, "b", after[0].Username)
	assert.Equal(t, reconcile.RemoteLogin{ID: logins[2].ID, Username: "c", Password: "changed", Hostname: "https://c.com"}, after[1])
}

func TestPutLogins_UnknownUpdateWritesNothing(t *testing.T) {
	client := newMemClient()
	store := objectstore.New(client, "pass-fxa", "logins", nil)
	ctx := context.Background()
	require.NoError(t, store.CreateAccount(ctx, "me", "secret"))
	session, err := store.Authenticate(ctx, "me", "secret")
	require.NoError(t, err)

	err = session.PutLogins(ctx, []reconcile.Job{
		{Type: reconcile.JobCreate, Username: "a", Password: "p1", Hostname: "https://a.com"},
		{Type: reconcile.JobUpdate, ID: "missing", Password: "x"},
	})
	assert.ErrorIs(t, err, loginsync.ErrUnknownLogin)
	assert.Len(t, client.keys(), 1)
}

func TestAuthenticate_StorageError(t *testing.T) {
	m := new(mocks.Client)
	m.On("GetObject", mock.Anything, "pass-fxa", "logins/me/account.json", mock.Anything).
		Return(nil, errors.New("connection refused"))

	store := objectstore.New(m, "pass-fxa", "logins", nil)
	_, err := store.Authenticate(context.Background(), "me", "secret")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, loginsync.ErrAuthFailed)
}

func sessionOnMock(t *testing.T, m *mocks.Client) loginsync.Client {
	t.Helper()
	hash, err := loginsync.HashPassword("secret")
	require.NoError(t, err)
	account := `{"id":"acc","username":"me","password_hash":"` + hash + `"}`
	m.On("GetObject", mock.Anything, "pass-fxa", "logins/me/account.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(account)), nil).Once()

	session, err := objectstore.New(m, "pass-fxa", "logins", nil).Authenticate(context.Background(), "me", "secret")
	require.NoError(t, err)
	return session
}

func TestFetchLogins_ListError(t *testing.T) {
	m := new(mocks.Client)
	session := sessionOnMock(t, m)

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("access denied")}
	close(ch)
	m.On("ListObjects", mock.Anything, "pass-fxa", minio.ListObjectsOptions{Prefix: "logins/me/logins/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	_, err := session.FetchLogins(context.Background())
	assert.ErrorContains(t, err, "failed to list logins")
}

func TestPutLogins_WriteError(t *testing.T) {
	m := new(mocks.Client)
	session := sessionOnMock(t, m)
	m.On("PutObject", mock.Anything, "pass-fxa", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "logins/me/logins/")
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, errors.New("quota exceeded"))

	err := session.PutLogins(context.Background(), []reconcile.Job{
		{Type: reconcile.JobCreate, Username: "a", Password: "p", Hostname: "https://a.com"},
	})
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestDeleteLogins_ReportsErrors(t *testing.T) {
	m := new(mocks.Client)
	session := sessionOnMock(t, m)

	errCh := make(chan minio.RemoveObjectError, 1)
	errCh <- minio.RemoveObjectError{ObjectName: "logins/me/logins/9.json", Err: errors.New("denied")}
	close(errCh)
	m.On("RemoveObjects", mock.Anything, "pass-fxa", mock.Anything, mock.Anything).
		Return((<-chan minio.RemoveObjectError)(errCh))

	err := session.DeleteLogins(context.Background(), []string{"9"})
	assert.ErrorContains(t, err, "logins/me/logins/9.json")
}

func TestEmptyBatchesTouchNothing(t *testing.T) {
	m := new(mocks.Client)
	session := sessionOnMock(t, m)

	assert.NoError(t, session.PutLogins(context.Background(), nil))
	assert.NoError(t, session.DeleteLogins(context.Background(), nil))
	m.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
