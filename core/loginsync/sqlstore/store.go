package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pass-fxa/core/database"
	"pass-fxa/core/loginsync"
	"pass-fxa/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is the SQL login-sync service.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

var (
	_ loginsync.Dialer         = (*Store)(nil)
	_ loginsync.AccountCreator = (*Store)(nil)
	_ loginsync.Client         = (*AccountClient)(nil)
)

// New creates a store on an open connection.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the accounts and logins tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Account{}, &Login{}); err != nil {
		return fmt.Errorf("failed to migrate login tables: %w", err)
	}
	return nil
}

// VerifySchema checks that the database carries every column the store uses.
func (s *Store) VerifySchema() error {
	tables := make([]string, 0, len(requiredColumns))
	for table := range requiredColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var problems []string
	for _, table := range tables {
		missing, err := database.MissingColumns(s.db, table, requiredColumns[table])
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("%s missing %s", table, strings.Join(missing, ", ")))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("login schema mismatch: %s", strings.Join(problems, "; "))
	}
	return nil
}

// CreateAccount adds an account. A taken username returns loginsync.ErrAccountExists.
func (s *Store) CreateAccount(ctx context.Context, username, password string) error {
	hash, err := loginsync.HashPassword(password)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Account{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up account: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%s: %w", username, loginsync.ErrAccountExists)
		}

		account := Account{
			ID:           uuid.NewString(),
			Username:     username,
			PasswordHash: hash,
		}
		if err := tx.Create(&account).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
}

// Authenticate checks the account password and returns a client on its logins.
func (s *Store) Authenticate(ctx context.Context, username, password string) (loginsync.Client, error) {
	return s.Session(ctx, username, password)
}

// Session is Authenticate returning the concrete client.
func (s *Store) Session(ctx context.Context, username, password string) (*AccountClient, error) {
	var account Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loginsync.ErrAuthFailed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := loginsync.CheckPassword(account.PasswordHash, password); err != nil {
		return nil, err
	}

	return s.Client(account.ID), nil
}

// Client returns the client of an already authenticated account.
func (s *Store) Client(accountID string) *AccountClient {
	return &AccountClient{
		db:        s.db,
		accountID: accountID,
		logger:    s.logger.With(zap.String("account_id", accountID)),
	}
}

// AccountClient operates on one account's logins.
type AccountClient struct {
	db        *gorm.DB
	accountID string
	logger    *zap.Logger
}

// AccountID returns the id of the account the client is bound to.
func (c *AccountClient) AccountID() string {
	return c.accountID
}

// FetchLogins returns the account's logins ordered by creation.
func (c *AccountClient) FetchLogins(ctx context.Context) ([]reconcile.RemoteLogin, error) {
	var rows []Login
	err := c.db.WithContext(ctx).
		Where("account_id = ?", c.accountID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logins: %w", err)
	}

	logins := make([]reconcile.RemoteLogin, 0, len(rows))
	for _, row := range rows {
		logins = append(logins, row.ToRemote())
	}
	return logins, nil
}

// PutLogins applies create and update jobs in one transaction.
func (c *AccountClient) PutLogins(ctx context.Context, jobs []reconcile.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	for _, job := range jobs {
		if err := loginsync.ValidateJob(job); err != nil {
			return err
		}
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for i, job := range jobs {
			switch job.Type {
			case reconcile.JobCreate:
				// Distinct timestamps keep the batch in submission order.
				created := now.Add(time.Duration(i) * time.Microsecond)
				row := Login{
					ID:        uuid.NewString(),
					AccountID: c.accountID,
					Username:  job.Username,
					Password:  job.Password,
					Hostname:  job.Hostname,
					CreatedAt: created,
					UpdatedAt: created,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to create login: %w", err)
				}
			case reconcile.JobUpdate:
				result := tx.Model(&Login{}).
					Where("id = ? AND account_id = ?", job.ID, c.accountID).
					Updates(map[string]any{"password": job.Password, "updated_at": now})
				if result.Error != nil {
					return fmt.Errorf("failed to update login %s: %w", job.ID, result.Error)
				}
				if result.RowsAffected == 0 {
					return fmt.Errorf("%s: %w", job.ID, loginsync.ErrUnknownLogin)
				}
			}
		}
		c.logger.Debug("Applied login batch", zap.Int("jobs", len(jobs)))
		return nil
	})
}

// DeleteLogins removes the account's logins with the given ids in one statement.
// Ids the account does not own are ignored.
func (c *AccountClient) DeleteLogins(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	result := c.db.WithContext(ctx).
		Where("account_id = ? AND id IN ?", c.accountID, ids).
		Delete(&Login{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete logins: %w", result.Error)
	}

	c.logger.Debug("Deleted logins", zap.Int64("rows", result.RowsAffected), zap.Int("requested", len(ids)))
	return nil
}
