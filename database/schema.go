package database

import (
	"fmt"
	"strings"

	"stockledger/models"
)

// schema returns the DDL in dependency order. Foreign keys from details and
// ledger rows to items use RESTRICT: an item with history cannot be removed.
// Headers cascade to their details.
func schema() []string {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS suppliers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL UNIQUE CHECK (code <> ''),
			name TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL UNIQUE CHECK (code <> ''),
			name TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL UNIQUE CHECK (code <> ''),
			name TEXT NOT NULL DEFAULT '',
			unit TEXT NOT NULL DEFAULT '',
			reorder_level INTEGER NOT NULL DEFAULT 0,
			unit_cost TEXT NOT NULL DEFAULT '0',
			unit_price TEXT NOT NULL DEFAULT '0',
			balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TRIGGER IF NOT EXISTS items_code_immutable
			BEFORE UPDATE OF code ON items
			WHEN OLD.code <> NEW.code
		BEGIN
			SELECT RAISE(ABORT, 'item code is immutable');
		END`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS stock_ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN (%s)),
			ref_no TEXT NOT NULL,
			item_code TEXT NOT NULL REFERENCES items(code) ON UPDATE RESTRICT ON DELETE RESTRICT,
			qty_in INTEGER NOT NULL DEFAULT 0 CHECK (qty_in >= 0),
			qty_out INTEGER NOT NULL DEFAULT 0 CHECK (qty_out >= 0),
			stock_after INTEGER NOT NULL CHECK (stock_after >= 0),
			notes TEXT NOT NULL DEFAULT ''
		)`, movementKindList()),
		`CREATE INDEX IF NOT EXISTS idx_stock_ledger_item_time
			ON stock_ledger(item_code, created_at, id)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_ledger_ref
			ON stock_ledger(ref_no)`,
		`CREATE TRIGGER IF NOT EXISTS stock_ledger_no_update
			BEFORE UPDATE ON stock_ledger
		BEGIN
			SELECT RAISE(ABORT, 'stock ledger is append-only');
		END`,
		`CREATE TRIGGER IF NOT EXISTS stock_ledger_no_delete
			BEFORE DELETE ON stock_ledger
		BEGIN
			SELECT RAISE(ABORT, 'stock ledger is append-only');
		END`,
	}

	stmts = append(stmts, headerDetail("receipts", "receipt_lines", "receipt_id",
		"supplier_code TEXT REFERENCES suppliers(code) ON DELETE RESTRICT,",
		`qty INTEGER NOT NULL CHECK (qty > 0),
			unit_cost TEXT NOT NULL DEFAULT '0',
			notes TEXT NOT NULL DEFAULT '',`)...)
	stmts = append(stmts, headerDetail("issues", "issue_lines", "issue_id",
		"customer_code TEXT REFERENCES customers(code) ON DELETE RESTRICT,",
		`qty INTEGER NOT NULL CHECK (qty > 0),
			unit_price TEXT NOT NULL DEFAULT '0',
			notes TEXT NOT NULL DEFAULT '',`)...)
	stmts = append(stmts, headerDetail("adjustments", "adjustment_lines", "adjustment_id",
		"",
		`system_qty INTEGER NOT NULL CHECK (system_qty >= 0),
			physical_qty INTEGER NOT NULL CHECK (physical_qty >= 0),
			difference INTEGER NOT NULL,
			notes TEXT NOT NULL DEFAULT '',`)...)
	stmts = append(stmts, headerDetail("claims", "claim_lines", "claim_id",
		"customer_code TEXT REFERENCES customers(code) ON DELETE RESTRICT,",
		`qty INTEGER NOT NULL CHECK (qty > 0),
			reason TEXT NOT NULL DEFAULT '',`)...)

	return stmts
}

func headerDetail(header, detail, headerFK, counterparty, detailColumns string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			ref_no TEXT NOT NULL UNIQUE CHECK (ref_no <> ''),
			date TEXT NOT NULL CHECK (date <> ''),
			%s
			notes TEXT NOT NULL DEFAULT '',
			created_by INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`, header, counterparty),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			%s INTEGER NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			item_code TEXT NOT NULL REFERENCES items(code) ON UPDATE RESTRICT ON DELETE RESTRICT,
			%s
			created_at DATETIME NOT NULL
		)`, detail, headerFK, header, detailColumns),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)`, detail, headerFK, detail, headerFK),
	}
}

func movementKindList() string {
	quoted := make([]string, 0, len(models.MovementKinds))
	for _, k := range models.MovementKinds {
		quoted = append(quoted, "'"+string(k)+"'")
	}
	return strings.Join(quoted, ", ")
}
