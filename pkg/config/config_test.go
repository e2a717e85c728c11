package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default, got %q", cfg.App.Env)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected API base URL %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("unexpected API timeout %v", cfg.API.Timeout)
	}
	if cfg.Devserver.Redis.Enabled() {
		t.Fatalf("redis should be disabled without an address")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvAPIBaseURL, "https://shop.goustty.com/api")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatalf("expected production env, got %q", cfg.App.Env)
	}
	if cfg.API.BaseURL != "https://shop.goustty.com/api" {
		t.Fatalf("unexpected API base URL %q", cfg.API.BaseURL)
	}
	if !cfg.Devserver.Redis.Enabled() {
		t.Fatalf("redis should be enabled when a URL is set")
	}
}

func TestResolveTokenPath(t *testing.T) {
	s := SessionConfig{}
	if got := s.ResolveTokenPath("/home/demo"); got != "/home/demo/.goustty/token" {
		t.Fatalf("unexpected default token path %q", got)
	}

	s.TokenPath = "/tmp/tok"
	if got := s.ResolveTokenPath("/home/demo"); got != "/tmp/tok" {
		t.Fatalf("explicit token path not honored: %q", got)
	}
}
