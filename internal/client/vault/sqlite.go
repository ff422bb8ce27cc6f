package vault

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/revline/revline-go/internal/client/migrations"
	"github.com/revline/revline-go/internal/common"
	"github.com/revline/revline-go/internal/cryptox"
	"github.com/revline/revline-go/internal/dbx"
)

const (
	keySalt  = "storage.salt"
	keyBlob  = "session.blob"
	keyNonce = "session.nonce"
	keyRole  = "session.role"
)

// SQLiteVault stores the encrypted session record in a local SQLite
// database. The storage key is derived once, from the device secret and a
// per-vault random salt created on first open.
type SQLiteVault struct {
	db  *sql.DB
	key []byte
}

// RunMigrations applies the embedded vault migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the vault database at dsn and derives
// the storage key from the device secret.
func Open(ctx context.Context, dsn string, deviceSecret []byte) (*SQLiteVault, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	v := &SQLiteVault{db: db}

	salt, err := v.loadOrCreateSalt(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	v.key = cryptox.DeriveStorageKey(deviceSecret, salt)

	return v, nil
}

func (v *SQLiteVault) loadOrCreateSalt(ctx context.Context) ([]byte, error) {
	salt, err := v.get(ctx, v.db, keySalt)
	if err != nil {
		return nil, err
	}
	if salt != nil {
		return salt, nil
	}

	salt = common.GenerateRandByteArray(32)
	if err := v.set(ctx, v.db, keySalt, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func (v *SQLiteVault) SaveSession(ctx context.Context, rec Record) error {
	ciphertext, nonce, err := cryptox.EncryptRecord(rec, v.key)
	if err != nil {
		return fmt.Errorf("seal session record: %w", err)
	}

	return dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := v.set(ctx, tx, keyBlob, ciphertext); err != nil {
			return err
		}
		if err := v.set(ctx, tx, keyNonce, nonce); err != nil {
			return err
		}
		return v.set(ctx, tx, keyRole, []byte(rec.Role))
	})
}

func (v *SQLiteVault) LoadSession(ctx context.Context) (*Record, error) {
	blob, err := v.get(ctx, v.db, keyBlob)
	if err != nil {
		return nil, err
	}
	nonce, err := v.get(ctx, v.db, keyNonce)
	if err != nil {
		return nil, err
	}
	if blob == nil || nonce == nil {
		return nil, common.ErrSessionNotFound
	}

	var rec Record
	if err := cryptox.DecryptRecord(blob, nonce, v.key, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSessionCorrupted, err)
	}

	// The clear-text role tag is written in the same transaction as the
	// ciphertext; a mismatch means the rows were edited independently.
	roleTag, err := v.get(ctx, v.db, keyRole)
	if err != nil {
		return nil, err
	}
	if string(roleTag) != string(rec.Role) {
		return nil, fmt.Errorf("%w: role tag mismatch", common.ErrSessionCorrupted)
	}
	return &rec, nil
}

func (v *SQLiteVault) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range []string{keyBlob, keyNonce, keyRole} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM vault WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to delete vault[%s]: %w", key, err)
			}
		}
		return nil
	})
}

func (v *SQLiteVault) Close() error {
	return v.db.Close()
}

func (v *SQLiteVault) get(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM vault WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault[%s]: %w", key, err)
	}
	return value, nil
}

func (v *SQLiteVault) set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO vault (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set vault[%s]: %w", key, err)
	}
	return nil
}
