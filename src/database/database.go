package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/tradefolio/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateTradesTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS trading_accounts (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		account_name TEXT NOT NULL,
		broker TEXT,
		environment TEXT NOT NULL DEFAULT 'live',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		account_id TEXT,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		trade_type TEXT DEFAULT 'forex',
		quantity REAL,
		entry_price REAL,
		exit_price REAL,
		stop_loss REAL,
		take_profit_levels TEXT,
		date TEXT NOT NULL,
		entry_time TEXT,
		exit_time TEXT,
		session TEXT,
		timeframe TEXT,
		news_impact TEXT,
		bias TEXT,
		confluences TEXT,
		outcome TEXT,
		pips_or_ticks INTEGER DEFAULT 0,
		profit_loss REAL,
		notes TEXT,
		trade_environment TEXT NOT NULL DEFAULT 'live',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(account_id) REFERENCES trading_accounts(id)
	);

	CREATE INDEX IF NOT EXISTS idx_trades_user_date ON trades(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_trades_user_env ON trades(user_id, trade_environment);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateTradesTable adds columns introduced after the first release to
// existing trades tables. SQLite has no ADD COLUMN IF NOT EXISTS, so
// inspect the schema first.
func migrateTradesTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='trades'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'trades' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'trades' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'trades' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'trades' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(trades)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error reading trades table info", "error", err)
		}
		return
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			continue
		}
		existing[name] = true
	}

	// Columns added after the initial schema, with their definitions.
	added := []struct{ name, definition string }{
		{"trade_type", "trade_type TEXT DEFAULT 'forex'"},
		{"trade_environment", "trade_environment TEXT NOT NULL DEFAULT 'live'"},
		{"take_profit_levels", "take_profit_levels TEXT"},
		{"pips_or_ticks", "pips_or_ticks INTEGER DEFAULT 0"},
	}
	for _, col := range added {
		if existing[col.name] {
			continue
		}
		if _, err := DB.Exec("ALTER TABLE trades ADD COLUMN " + col.definition); err != nil {
			if logger.L != nil {
				logger.L.Error("Failed to add column to trades table", "column", col.name, "error", err)
			}
		} else if logger.L != nil {
			logger.L.Info("Added missing column to trades table", "column", col.name)
		}
	}
}
