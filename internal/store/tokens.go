package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Revoked JWTs are tracked by JTI until the token itself would have expired;
// past that point the expiry claim alone rejects it.

// RevokeToken puts jti on the revocation list, keeping the entry until
// keepUntil. Revoking the same jti again is a no-op.
func RevokeToken(ctx context.Context, db *sql.DB, jti string, keepUntil time.Time) error {
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, keepUntil,
	); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	PurgeExpiredTokens(ctx, db)
	return nil
}

// PurgeExpiredTokens drops revocation entries for tokens past their own
// expiry. Errors are ignored; a stale row is harmless.
func PurgeExpiredTokens(ctx context.Context, db *sql.DB) {
	_, _ = db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, time.Now())
}

// IsTokenRevoked reports whether jti is on the revocation list.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var revoked bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}
