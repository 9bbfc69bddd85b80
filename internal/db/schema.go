// Package db holds the MySQL schema and helpers for applying it.
package db

import "database/sql"

// Statements is the full schema, in dependency order. Every statement is
// idempotent so applying twice is safe.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		phone VARCHAR(32),
		role VARCHAR(20) NOT NULL DEFAULT 'customer',
		date_of_birth VARCHAR(10),
		passport_number VARCHAR(20),
		passport_expiry VARCHAR(10),
		nationality VARCHAR(64),
		preferred_airline VARCHAR(64),
		frequent_flyer_numbers JSON,
		dietary_preferences VARCHAR(255),
		special_assistance VARCHAR(255),
		subscription_tier VARCHAR(20) NOT NULL DEFAULT 'none',
		subscription_start DATETIME,
		subscription_end DATETIME,
		monthly_bookings_used INT NOT NULL DEFAULT 0,
		company_name VARCHAR(255),
		company_tax_id VARCHAR(64),
		billing_address TEXT,
		custom_settings JSON,
		email_verified TINYINT(1) NOT NULL DEFAULT 0,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		referral_code VARCHAR(16) UNIQUE,
		referred_by CHAR(36),
		referral_credits_cents BIGINT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		last_login DATETIME,
		INDEX idx_users_role (role),
		INDEX idx_users_referral_code (referral_code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS packages (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL UNIQUE,
		description TEXT,
		destination_city VARCHAR(100) NOT NULL,
		destination_country VARCHAR(100) NOT NULL,
		duration_days INT NOT NULL,
		duration_nights INT NOT NULL,
		starting_price_cents BIGINT NOT NULL,
		price_per_person_cents BIGINT NOT NULL,
		highlights JSON,
		inclusions JSON,
		exclusions JSON,
		itinerary JSON,
		hotel_name VARCHAR(255),
		hotel_rating INT,
		room_type VARCHAR(100),
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		available_from VARCHAR(10),
		available_until VARCHAR(10),
		max_capacity INT,
		min_booking INT NOT NULL DEFAULT 1,
		featured_image VARCHAR(512),
		gallery_images JSON,
		meta_title VARCHAR(255),
		meta_description VARCHAR(512),
		view_count INT NOT NULL DEFAULT 0,
		booking_count INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_packages_destination (destination_city, destination_country),
		INDEX idx_packages_active (is_active)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id CHAR(36) PRIMARY KEY,
		booking_reference VARCHAR(16) NOT NULL UNIQUE,
		user_id CHAR(36) NOT NULL,
		booking_type VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		trip_type VARCHAR(20),
		origin VARCHAR(10),
		destination VARCHAR(10),
		departure_date DATETIME,
		return_date DATETIME,
		airline VARCHAR(10),
		flight_number VARCHAR(10),
		flight_offer JSON,
		travel_class VARCHAR(20),
		num_adults INT NOT NULL DEFAULT 1,
		num_children INT NOT NULL DEFAULT 0,
		num_infants INT NOT NULL DEFAULT 0,
		package_id CHAR(36),
		base_price_cents BIGINT NOT NULL DEFAULT 0,
		service_fee_cents BIGINT NOT NULL DEFAULT 0,
		taxes_cents BIGINT NOT NULL DEFAULT 0,
		discount_cents BIGINT NOT NULL DEFAULT 0,
		total_cents BIGINT NOT NULL DEFAULT 0,
		is_urgent TINYINT(1) NOT NULL DEFAULT 0,
		special_requests TEXT,
		notes TEXT,
		airline_confirmation VARCHAR(64),
		ticket_numbers JSON,
		assigned_agent_id CHAR(36),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		confirmed_at DATETIME,
		cancelled_at DATETIME,
		INDEX idx_bookings_user (user_id),
		INDEX idx_bookings_status (status),
		INDEX idx_bookings_departure (departure_date),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS passengers (
		id CHAR(36) PRIMARY KEY,
		booking_id CHAR(36) NOT NULL,
		title VARCHAR(10),
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		middle_name VARCHAR(100),
		date_of_birth VARCHAR(10) NOT NULL,
		gender VARCHAR(10),
		nationality VARCHAR(64),
		passport_number VARCHAR(20),
		passport_expiry VARCHAR(10),
		passport_country VARCHAR(64),
		passenger_type VARCHAR(10) NOT NULL DEFAULT 'adult',
		ticket_number VARCHAR(32),
		seat_number VARCHAR(8),
		frequent_flyer_number VARCHAR(32),
		meal_preference VARCHAR(64),
		special_assistance VARCHAR(255),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_passengers_booking (booking_id),
		CONSTRAINT fk_passengers_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS payments (
		id CHAR(36) PRIMARY KEY,
		payment_reference VARCHAR(16) NOT NULL UNIQUE,
		booking_id CHAR(36),
		user_id CHAR(36) NOT NULL,
		amount_cents BIGINT NOT NULL,
		currency VARCHAR(3) NOT NULL DEFAULT 'usd',
		payment_method VARCHAR(20),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		stripe_payment_intent_id VARCHAR(64),
		stripe_charge_id VARCHAR(64),
		transaction_id VARCHAR(64),
		card_last4 VARCHAR(4),
		card_brand VARCHAR(20),
		metadata JSON,
		failure_reason VARCHAR(512),
		refund_amount_cents BIGINT NOT NULL DEFAULT 0,
		refund_reason VARCHAR(512),
		refunded_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		paid_at DATETIME,
		INDEX idx_payments_user (user_id),
		INDEX idx_payments_booking (booking_id),
		INDEX idx_payments_intent (stripe_payment_intent_id),
		CONSTRAINT fk_payments_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS quotes (
		id CHAR(36) PRIMARY KEY,
		quote_reference VARCHAR(16) NOT NULL UNIQUE,
		user_id CHAR(36) NOT NULL,
		origin VARCHAR(100) NOT NULL,
		destination VARCHAR(100) NOT NULL,
		flexible_dates VARCHAR(255),
		trip_type VARCHAR(20) NOT NULL DEFAULT 'round_trip',
		num_adults INT NOT NULL DEFAULT 1,
		num_children INT NOT NULL DEFAULT 0,
		additional_details TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		quoted_cents BIGINT NOT NULL DEFAULT 0,
		service_fee_cents BIGINT NOT NULL DEFAULT 0,
		total_cents BIGINT NOT NULL DEFAULT 0,
		agent_notes TEXT,
		quote_details JSON,
		converted_to_booking_id CHAR(36),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME,
		quoted_at DATETIME,
		INDEX idx_quotes_user (user_id),
		INDEX idx_quotes_status (status),
		CONSTRAINT fk_quotes_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		type VARCHAR(32) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		link_url VARCHAR(512),
		booking_id CHAR(36),
		is_read TINYINT(1) NOT NULL DEFAULT 0,
		read_at DATETIME,
		sent_via_email TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_notifications_user (user_id, is_read),
		CONSTRAINT fk_notifications_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS contact_messages (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32),
		subject VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		user_id CHAR(36),
		status VARCHAR(20) NOT NULL DEFAULT 'new',
		priority VARCHAR(10) NOT NULL DEFAULT 'normal',
		assigned_to CHAR(36),
		admin_notes TEXT,
		replied_at DATETIME,
		resolved_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_contact_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS settings (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		setting_key VARCHAR(128) NOT NULL UNIQUE,
		setting_value TEXT NOT NULL,
		data_type VARCHAR(10) NOT NULL DEFAULT 'string',
		description VARCHAR(512),
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS audit_logs (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36),
		action VARCHAR(64) NOT NULL,
		entity_type VARCHAR(32),
		entity_id VARCHAR(64),
		description VARCHAR(512),
		changes JSON,
		ip_address VARCHAR(45),
		user_agent VARCHAR(512),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_audit_user (user_id),
		INDEX idx_audit_action (action)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS user_favorites (
		user_id CHAR(36) NOT NULL,
		package_id CHAR(36) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, package_id),
		CONSTRAINT fk_favorites_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT fk_favorites_package FOREIGN KEY (package_id) REFERENCES packages(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// tableNames in drop order, children first.
var tableNames = []string{
	"user_favorites",
	"audit_logs",
	"settings",
	"contact_messages",
	"notifications",
	"quotes",
	"payments",
	"passengers",
	"bookings",
	"packages",
	"users",
}

// Apply creates every table that does not exist yet.
func Apply(conn *sql.DB) error {
	for _, stmt := range Statements {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Drop removes every table, children first.
func Drop(conn *sql.DB) error {
	for _, name := range tableNames {
		if _, err := conn.Exec("DROP TABLE IF EXISTS " + name); err != nil {
			return err
		}
	}
	return nil
}
