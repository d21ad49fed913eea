package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Ledger tables denormalize their
// filterable dimensions into indexed columns and keep a JSON value-copy of
// each referenced entity, taken at append time, so historical records stay
// stable when reference data changes.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id               TEXT PRIMARY KEY,
    username         TEXT NOT NULL,
    full_name        TEXT NOT NULL DEFAULT '',
    password_hash    TEXT NOT NULL,
    role             TEXT NOT NULL DEFAULT 'logistics' CHECK (role IN ('admin', 'commander', 'logistics')),
    authorized_bases TEXT NOT NULL DEFAULT '[]',
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at       DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS bases (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    location    TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS equipment_types (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL CHECK (category IN ('ground', 'air', 'consumable', 'heavy_weaponry')),
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS assets (
    id                TEXT PRIMARY KEY,
    equipment_type_id TEXT NOT NULL REFERENCES equipment_types(id),
    model_name        TEXT NOT NULL,
    serial_number     TEXT,
    current_base_id   TEXT NOT NULL REFERENCES bases(id),
    quantity          INTEGER NOT NULL CHECK (quantity >= 0),
    status            TEXT NOT NULL DEFAULT 'operational' CHECK (status IN ('operational', 'maintenance', 'damaged', 'decommissioned')),
    is_fungible       INTEGER NOT NULL DEFAULT 0,
    current_balance   INTEGER NOT NULL CHECK (current_balance >= 0),
    last_updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_assets_base ON assets(current_base_id);

CREATE TABLE IF NOT EXISTS purchases (
    id                    TEXT PRIMARY KEY,
    asset_id              TEXT NOT NULL REFERENCES assets(id),
    equipment_type_id     TEXT NOT NULL,
    receiving_base_id     TEXT NOT NULL REFERENCES bases(id),
    quantity              INTEGER NOT NULL CHECK (quantity > 0),
    unit_cost             TEXT NOT NULL,
    total_cost            TEXT NOT NULL,
    purchase_date         DATETIME NOT NULL,
    supplier_info         TEXT NOT NULL DEFAULT '',
    purchase_order_number TEXT,
    recorded_by_user_id   TEXT NOT NULL,
    asset_snapshot        TEXT NOT NULL,
    base_snapshot         TEXT NOT NULL,
    user_snapshot         TEXT NOT NULL,
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_purchases_date ON purchases(purchase_date);
CREATE INDEX IF NOT EXISTS idx_purchases_base ON purchases(receiving_base_id);

CREATE TABLE IF NOT EXISTS transfers (
    id                   TEXT PRIMARY KEY,
    asset_id             TEXT NOT NULL REFERENCES assets(id),
    equipment_type_id    TEXT NOT NULL,
    source_base_id       TEXT NOT NULL REFERENCES bases(id),
    destination_base_id  TEXT NOT NULL REFERENCES bases(id),
    quantity             INTEGER NOT NULL CHECK (quantity > 0),
    status               TEXT NOT NULL DEFAULT 'initiated' CHECK (status IN ('initiated', 'in_transit', 'received', 'cancelled')),
    transfer_date        DATETIME NOT NULL,
    reason               TEXT NOT NULL DEFAULT '',
    initiated_by_user_id TEXT NOT NULL,
    received_by_user_id  TEXT,
    completed_at         DATETIME,
    asset_snapshot       TEXT NOT NULL,
    source_snapshot      TEXT NOT NULL,
    destination_snapshot TEXT NOT NULL,
    user_snapshot        TEXT NOT NULL,
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (source_base_id <> destination_base_id)
);

CREATE INDEX IF NOT EXISTS idx_transfers_date ON transfers(transfer_date);
CREATE INDEX IF NOT EXISTS idx_transfers_source ON transfers(source_base_id);
CREATE INDEX IF NOT EXISTS idx_transfers_destination ON transfers(destination_base_id);

CREATE TABLE IF NOT EXISTS assignments (
    id                    TEXT PRIMARY KEY,
    asset_id              TEXT NOT NULL REFERENCES assets(id),
    equipment_type_id     TEXT NOT NULL,
    assigned_to_user_id   TEXT NOT NULL,
    base_of_assignment_id TEXT NOT NULL REFERENCES bases(id),
    assignment_date       DATETIME NOT NULL,
    purpose               TEXT NOT NULL DEFAULT '',
    expected_return_date  DATETIME,
    returned_date         DATETIME,
    is_active             INTEGER NOT NULL DEFAULT 1,
    recorded_by_user_id   TEXT NOT NULL,
    asset_snapshot        TEXT NOT NULL,
    base_snapshot         TEXT NOT NULL,
    assignee_snapshot     TEXT NOT NULL,
    user_snapshot         TEXT NOT NULL,
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_assignments_date ON assignments(assignment_date);
CREATE INDEX IF NOT EXISTS idx_assignments_base ON assignments(base_of_assignment_id);

CREATE TABLE IF NOT EXISTS expenditures (
    id                  TEXT PRIMARY KEY,
    asset_id            TEXT NOT NULL REFERENCES assets(id),
    equipment_type_id   TEXT NOT NULL,
    base_id             TEXT NOT NULL REFERENCES bases(id),
    quantity_expended   INTEGER NOT NULL CHECK (quantity_expended > 0),
    expenditure_date    DATETIME NOT NULL,
    reason              TEXT NOT NULL DEFAULT '',
    reported_by_user_id TEXT NOT NULL,
    asset_snapshot      TEXT NOT NULL,
    base_snapshot       TEXT NOT NULL,
    user_snapshot       TEXT NOT NULL,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_expenditures_date ON expenditures(expenditure_date);
CREATE INDEX IF NOT EXISTS idx_expenditures_base ON expenditures(base_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
