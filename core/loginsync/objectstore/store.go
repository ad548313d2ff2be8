package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"pass-fxa/core/loginsync"
	"pass-fxa/core/reconcile"
	"pass-fxa/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// numWorkers bounds concurrent object writes of one batch.
const numWorkers = 8

type accountDocument struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type loginDocument struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Hostname  string    `json:"hostname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d loginDocument) toRemote() reconcile.RemoteLogin {
	return reconcile.RemoteLogin{ID: d.ID, Username: d.Username, Password: d.Password, Hostname: d.Hostname}
}

// Store is the object storage login-sync service.
type Store struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

var (
	_ loginsync.Dialer         = (*Store)(nil)
	_ loginsync.AccountCreator = (*Store)(nil)
	_ loginsync.Client         = (*AccountClient)(nil)
)

// New creates a store on bucket with all keys under prefix.
func New(client storage.Client, bucket, prefix string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

func (s *Store) accountBase(username string) string {
	return path.Join(s.prefix, url.PathEscape(username))
}

func (s *Store) accountKey(username string) string {
	return path.Join(s.accountBase(username), "account.json")
}

// CreateAccount writes the account document. A taken username returns
// loginsync.ErrAccountExists.
func (s *Store) CreateAccount(ctx context.Context, username, password string) error {
	var existing accountDocument
	err := getJSON(ctx, s.client, s.bucket, s.accountKey(username), &existing)
	if err == nil {
		return fmt.Errorf("%s: %w", username, loginsync.ErrAccountExists)
	}
	if !storage.IsNotFound(err) {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	hash, err := loginsync.HashPassword(password)
	if err != nil {
		return err
	}
	doc := accountDocument{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := putJSON(ctx, s.client, s.bucket, s.accountKey(username), doc); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// Authenticate checks the account password and returns a client on its logins.
func (s *Store) Authenticate(ctx context.Context, username, password string) (loginsync.Client, error) {
	var account accountDocument
	err := getJSON(ctx, s.client, s.bucket, s.accountKey(username), &account)
	if storage.IsNotFound(err) {
		return nil, loginsync.ErrAuthFailed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if err := loginsync.CheckPassword(account.PasswordHash, password); err != nil {
		return nil, err
	}

	return &AccountClient{
		store:  s,
		base:   s.accountBase(username),
		logger: s.logger.With(zap.String("account_id", account.ID)),
	}, nil
}

// AccountClient operates on one account's logins.
type AccountClient struct {
	store  *Store
	base   string
	logger *zap.Logger
}

func (c *AccountClient) loginsPrefix() string {
	return c.base + "/logins/"
}

func (c *AccountClient) loginKey(id string) string {
	return c.loginsPrefix() + url.PathEscape(id) + ".json"
}

// FetchLogins returns the account's logins ordered by creation time, then id.
func (c *AccountClient) FetchLogins(ctx context.Context) ([]reconcile.RemoteLogin, error) {
	objects := c.store.client.ListObjects(ctx, c.store.bucket, minio.ListObjectsOptions{
		Prefix:    c.loginsPrefix(),
		Recursive: true,
	})

	var docs []loginDocument
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list logins: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		var doc loginDocument
		if err := getJSON(ctx, c.store.client, c.store.bucket, obj.Key, &doc); err != nil {
			return nil, fmt.Errorf("failed to read login %s: %w", obj.Key, err)
		}
		docs = append(docs, doc)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})

	logins := make([]reconcile.RemoteLogin, 0, len(docs))
	for _, doc := range docs {
		logins = append(logins, doc.toRemote())
	}
	return logins, nil
}

// PutLogins applies create and update jobs.
func (c *AccountClient) PutLogins(ctx context.Context, jobs []reconcile.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]loginDocument, 0, len(jobs))
	for i, job := range jobs {
		if err := loginsync.ValidateJob(job); err != nil {
			return err
		}
		switch job.Type {
		case reconcile.JobCreate:
			created := now.Add(time.Duration(i) * time.Microsecond)
			docs = append(docs, loginDocument{
				ID:        uuid.NewString(),
				Username:  job.Username,
				Password:  job.Password,
				Hostname:  job.Hostname,
				CreatedAt: created,
				UpdatedAt: created,
			})
		case reconcile.JobUpdate:
			var doc loginDocument
			err := getJSON(ctx, c.store.client, c.store.bucket, c.loginKey(job.ID), &doc)
			if storage.IsNotFound(err) {
				return fmt.Errorf("%s: %w", job.ID, loginsync.ErrUnknownLogin)
			}
			if err != nil {
				return fmt.Errorf("failed to read login %s: %w", job.ID, err)
			}
			doc.Password = job.Password
			doc.UpdatedAt = now
			docs = append(docs, doc)
		}
	}

	if err := c.writeAll(ctx, docs); err != nil {
		return err
	}
	c.logger.Debug("Applied login batch", zap.Int("jobs", len(jobs)))
	return nil
}

// writeAll writes docs with a bounded worker pool.
func (c *AccountClient) writeAll(ctx context.Context, docs []loginDocument) error {
	docsCh := make(chan loginDocument, len(docs))
	errorCh := make(chan error, len(docs))
	for _, doc := range docs {
		docsCh <- doc
	}
	close(docsCh)

	workers := numWorkers
	if len(docs) < workers {
		workers = len(docs)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for doc := range docsCh {
				if err := putJSON(ctx, c.store.client, c.store.bucket, c.loginKey(doc.ID), doc); err != nil {
					errorCh <- fmt.Errorf("%s: %w", doc.ID, err)
				}
			}
		}()
	}
	wg.Wait()
	close(errorCh)

	var errs []string
	for err := range errorCh {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("failed to write %d logins: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// DeleteLogins removes the logins with the given ids in one batch call.
func (c *AccountClient) DeleteLogins(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(ids))
	for _, id := range ids {
		objectsCh <- minio.ObjectInfo{Key: c.loginKey(id)}
	}
	close(objectsCh)

	var errs []string
	for res := range c.store.client.RemoveObjects(ctx, c.store.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if res.Err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", res.ObjectName, res.Err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to delete %d logins: %s", len(errs), strings.Join(errs, "; "))
	}

	c.logger.Debug("Deleted logins", zap.Int("requested", len(ids)))
	return nil
}

func getJSON(ctx context.Context, client storage.Client, bucket, key string, v any) error {
	reader, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func putJSON(ctx context.Context, client storage.Client, bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}
