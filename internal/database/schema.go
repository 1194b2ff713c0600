package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order by Migrate. Every statement is idempotent.
// Name columns use the default case-insensitive collation, so the
// UNIQUE(owner_id, name) keys reject names differing only in case.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		role          VARCHAR(16)     NOT NULL DEFAULT 'OWNER',
		is_active     TINYINT(1)      NOT NULL DEFAULT 1,
		created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_hash (token_hash),
		KEY idx_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		owner_id   BIGINT UNSIGNED NOT NULL,
		name       VARCHAR(120)    NOT NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_schedules_owner_name (owner_id, name),
		CONSTRAINT fk_schedules_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS issues (
		id           BIGINT UNSIGNED  NOT NULL AUTO_INCREMENT PRIMARY KEY,
		schedule_id  BIGINT UNSIGNED  NOT NULL,
		name         VARCHAR(60)      NOT NULL,
		close_date   DATETIME         NOT NULL,
		sort_order   INT              NOT NULL,
		period_year  SMALLINT         NOT NULL,
		period_month TINYINT UNSIGNED NOT NULL,
		period_seq   SMALLINT         NOT NULL,
		UNIQUE KEY uq_issues_schedule_name (schedule_id, name),
		CONSTRAINT fk_issues_schedule FOREIGN KEY (schedule_id) REFERENCES schedules (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS magazines (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		owner_id    BIGINT UNSIGNED NOT NULL,
		name        VARCHAR(120)    NOT NULL,
		schedule_id BIGINT UNSIGNED NULL,
		archived    TINYINT(1)      NOT NULL DEFAULT 0,
		created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_magazines_owner_name (owner_id, name),
		CONSTRAINT fk_magazines_owner FOREIGN KEY (owner_id) REFERENCES users (id),
		CONSTRAINT fk_magazines_schedule FOREIGN KEY (schedule_id) REFERENCES schedules (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS magazine_pages (
		magazine_id BIGINT UNSIGNED NOT NULL,
		issue_name  VARCHAR(60)     NOT NULL,
		total_pages INT UNSIGNED    NOT NULL,
		PRIMARY KEY (magazine_id, issue_name),
		CONSTRAINT fk_pages_magazine FOREIGN KEY (magazine_id) REFERENCES magazines (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS content_sizes (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		owner_id    BIGINT UNSIGNED NOT NULL,
		description VARCHAR(120)    NOT NULL,
		size        DECIMAL(8,4)    NOT NULL,
		archived    TINYINT(1)      NOT NULL DEFAULT 0,
		created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_content_sizes_owner (owner_id),
		CONSTRAINT fk_content_sizes_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS content_size_prices (
		content_size_id BIGINT UNSIGNED NOT NULL,
		magazine_id     BIGINT UNSIGNED NOT NULL,
		price           DECIMAL(12,2)   NOT NULL,
		PRIMARY KEY (content_size_id, magazine_id),
		CONSTRAINT fk_prices_size FOREIGN KEY (content_size_id) REFERENCES content_sizes (id) ON DELETE CASCADE,
		CONSTRAINT fk_prices_magazine FOREIGN KEY (magazine_id) REFERENCES magazines (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS labels (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		owner_id   BIGINT UNSIGNED NOT NULL,
		kind       ENUM('content_type','business_type') NOT NULL,
		name       VARCHAR(120)    NOT NULL,
		is_default TINYINT(1)      NOT NULL DEFAULT 0,
		archived   TINYINT(1)      NOT NULL DEFAULT 0,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_labels_owner_kind_name (owner_id, kind, name),
		CONSTRAINT fk_labels_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS customers (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		owner_id         BIGINT UNSIGNED NOT NULL,
		name             VARCHAR(160)    NOT NULL,
		contact_name     VARCHAR(160)    NOT NULL DEFAULT '',
		email            VARCHAR(255)    NOT NULL DEFAULT '',
		phone            VARCHAR(40)     NOT NULL DEFAULT '',
		business_type_id BIGINT UNSIGNED NULL,
		archived         TINYINT(1)      NOT NULL DEFAULT 0,
		created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_customers_owner_name (owner_id, name),
		CONSTRAINT fk_customers_owner FOREIGN KEY (owner_id) REFERENCES users (id),
		CONSTRAINT fk_customers_business_type FOREIGN KEY (business_type_id) REFERENCES labels (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id                 BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		owner_id           BIGINT UNSIGNED NOT NULL,
		customer_id        BIGINT UNSIGNED NOT NULL,
		additional_charges DECIMAL(12,2)   NOT NULL DEFAULT 0,
		charge_mode        VARCHAR(8)      NOT NULL DEFAULT 'split',
		notes              TEXT            NULL,
		total              DECIMAL(14,2)   NOT NULL DEFAULT 0,
		created_at         DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_bookings_owner_created (owner_id, created_at),
		CONSTRAINT fk_bookings_owner FOREIGN KEY (owner_id) REFERENCES users (id),
		CONSTRAINT fk_bookings_customer FOREIGN KEY (customer_id) REFERENCES customers (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS booking_entries (
		id                  BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		booking_id          BIGINT UNSIGNED NOT NULL,
		position            INT             NOT NULL,
		magazine_id         BIGINT UNSIGNED NOT NULL,
		content_size_id     BIGINT UNSIGNED NOT NULL,
		content_type_id     BIGINT UNSIGNED NOT NULL,
		list_price          DECIMAL(12,2)   NOT NULL,
		discount_percentage DECIMAL(5,2)    NOT NULL DEFAULT 0,
		discount_value      DECIMAL(12,2)   NOT NULL DEFAULT 0,
		start_issue         VARCHAR(60)     NOT NULL,
		finish_issue        VARCHAR(60)     NOT NULL DEFAULT '',
		is_ongoing          TINYINT(1)      NOT NULL DEFAULT 0,
		additional_charge   DECIMAL(12,2)   NOT NULL DEFAULT 0,
		net_value           DECIMAL(12,2)   NOT NULL,
		KEY idx_entries_booking (booking_id, position),
		KEY idx_entries_magazine (magazine_id),
		CONSTRAINT fk_entries_booking FOREIGN KEY (booking_id) REFERENCES bookings (id) ON DELETE CASCADE,
		CONSTRAINT fk_entries_magazine FOREIGN KEY (magazine_id) REFERENCES magazines (id),
		CONSTRAINT fk_entries_size FOREIGN KEY (content_size_id) REFERENCES content_sizes (id),
		CONSTRAINT fk_entries_type FOREIGN KEY (content_type_id) REFERENCES labels (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables. It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
