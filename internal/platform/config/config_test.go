package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("unexpected read timeout: %v", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.FeedPath != "data/catalog.json" {
		t.Fatalf("unexpected catalog feed path: %q", cfg.Catalog.FeedPath)
	}
	if cfg.Submission.EndpointURL != "" {
		t.Fatalf("expected empty submission endpoint, got %q", cfg.Submission.EndpointURL)
	}
	if cfg.Submission.HTTPTimeout != 20*time.Second {
		t.Fatalf("unexpected submission timeout: %v", cfg.Submission.HTTPTimeout)
	}
}

func TestLoadEnvMapOverrides(t *testing.T) {
	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"API_SERVER_PORT":             "9090",
			"API_SERVER_WRITE_TIMEOUT":    "45s",
			"API_CATALOG_FEED_PATH":       "/srv/catalog.json",
			"API_SUBMISSION_ENDPOINT_URL": "https://orders.example.com/submit",
			"API_SUBMISSION_HTTP_TIMEOUT": "5s",
		}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 45*time.Second {
		t.Fatalf("unexpected write timeout: %v", cfg.Server.WriteTimeout)
	}
	if cfg.Catalog.FeedPath != "/srv/catalog.json" {
		t.Fatalf("unexpected catalog feed path: %q", cfg.Catalog.FeedPath)
	}
	if cfg.Submission.EndpointURL != "https://orders.example.com/submit" {
		t.Fatalf("unexpected endpoint URL: %q", cfg.Submission.EndpointURL)
	}
	if cfg.Submission.HTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected submission timeout: %v", cfg.Submission.HTTPTimeout)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{"API_SERVER_IDLE_TIMEOUT": "not-a-duration"}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.IdleTimeout != 120*time.Second {
		t.Fatalf("expected fallback idle timeout, got %v", cfg.Server.IdleTimeout)
	}
}

func TestLoadRejectsRelativeEndpoint(t *testing.T) {
	_, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{"API_SUBMISSION_ENDPOINT_URL": "orders/submit"}),
	)
	if err == nil {
		t.Fatal("expected error for relative endpoint URL")
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	contents := "# comment\nexport API_SERVER_PORT=7070\nAPI_CATALOG_FEED_PATH=\"./feed.json\"\nMALFORMED LINE\n"
	if err := os.WriteFile(envPath, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected port 7070 from dotenv, got %q", cfg.Server.Port)
	}
	if cfg.Catalog.FeedPath != "./feed.json" {
		t.Fatalf("expected quoted value stripped, got %q", cfg.Catalog.FeedPath)
	}
}

func TestLoadMissingDotEnvIgnored(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected defaults when dotenv absent, got port %q", cfg.Server.Port)
	}
}
