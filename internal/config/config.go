package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration, loaded from environment variables.
type Config struct {
	Port   string
	AppEnv string // development or production
	DBDSN  string

	MidtransServerKey  string
	MidtransClientKey  string
	MidtransProduction bool

	GopayCallbackURL string
	QrisAcquirer     string
	// Allowed bank codes for bank_transfer charges. The set is deployment
	// configuration, not business logic.
	BankTransferBanks []string

	// Sandbox escape hatch for hand-crafted notifications. Never enable in
	// production.
	SkipNotificationSignature bool
}

func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),
		DBDSN:  getEnv("DB_DSN", ""),

		MidtransServerKey:  getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransClientKey:  getEnv("MIDTRANS_CLIENT_KEY", ""),
		MidtransProduction: getEnvAsBool("MIDTRANS_IS_PRODUCTION", false),

		GopayCallbackURL: getEnv("GOPAY_CALLBACK_URL", ""),
		QrisAcquirer:     getEnv("QRIS_ACQUIRER", "gopay"),
		BankTransferBanks: splitCSV(getEnv("BANK_TRANSFER_BANKS",
			"bca,bni,bri,mandiri,permata")),

		SkipNotificationSignature: getEnvAsBool("SKIP_NOTIFICATION_SIGNATURE", false),
	}
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
