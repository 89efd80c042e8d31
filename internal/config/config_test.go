package config

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestDefaults_PassValidationOnceSecretsAreSet(t *testing.T) {
	cfg := Defaults()
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "akavelog"
	cfg.Database.Name = "akavelog"
	cfg.Auth.HMACSecret = "01234567890123456789012345678901"
	cfg.Auth.AdminToken = "98765432109876543210987654321098"

	if err := validator.New().Struct(cfg); err != nil {
		t.Fatalf("validate Defaults() with secrets set: %v", err)
	}
	if cfg.Limits.MaxEventsPerPost == 0 {
		t.Error("Defaults() should seed a non-zero MaxEventsPerPost")
	}
	if cfg.Limits.DefaultRetentionDays == 0 {
		t.Error("Defaults() should seed a non-zero DefaultRetentionDays")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "akavelog",
		Password: "secret",
		Name:     "akavelog",
		SSLMode:  "disable",
	}
	dsn := d.DSN()
	want := "host=db.internal port=5432 user=akavelog password=secret dbname=akavelog sslmode=disable"
	if dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}
