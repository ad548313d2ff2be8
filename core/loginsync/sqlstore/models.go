package sqlstore

import (
	"time"

	"pass-fxa/core/reconcile"
)

// Account is a row of the accounts table.
type Account struct {
	ID           string    `gorm:"column:id;primaryKey;size:36"`
	Username     string    `gorm:"column:username;uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Account) TableName() string {
	return "accounts"
}

// Login is a row of the logins table.
type Login struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	AccountID string    `gorm:"column:account_id;index;size:36;not null"`
	Username  string    `gorm:"column:username;size:255;not null"`
	Password  string    `gorm:"column:password;not null"`
	Hostname  string    `gorm:"column:hostname;size:2048;not null"`
	CreatedAt time.Time `gorm:"column:created_at;index;precision:6"`
	UpdatedAt time.Time `gorm:"column:updated_at;precision:6"`
}

// TableName overrides the table name.
func (Login) TableName() string {
	return "logins"
}

// ToRemote converts the row to the reconciliation view.
func (l Login) ToRemote() reconcile.RemoteLogin {
	return reconcile.RemoteLogin{
		ID:       l.ID,
		Username: l.Username,
		Password: l.Password,
		Hostname: l.Hostname,
	}
}

// requiredColumns lists the columns VerifySchema expects per table.
var requiredColumns = map[string][]string{
	"accounts": {"id", "username", "password_hash"},
	"logins":   {"id", "account_id", "username", "password", "hostname", "created_at", "updated_at"},
}
