package config

import (
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("mysql:\n  database: lifeline_test\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AgentName != "inbound-agent" {
		t.Errorf("AgentName = %q", cfg.AgentName)
	}
	if cfg.Language != "Tamil" {
		t.Errorf("Language = %q", cfg.Language)
	}
	if cfg.MySQL.Host != "127.0.0.1" || cfg.MySQL.Port != 3306 {
		t.Errorf("MySQL defaults = %s:%d", cfg.MySQL.Host, cfg.MySQL.Port)
	}
	if cfg.Dashboard.Port != 5000 {
		t.Errorf("Dashboard.Port = %d", cfg.Dashboard.Port)
	}
	if cfg.Dispatch.AllowMultiple {
		t.Error("AllowMultiple should default to false")
	}
	if cfg.Watchdog.Schedule != "*/5 * * * *" || cfg.Watchdog.StaleAfterMins != 60 {
		t.Errorf("Watchdog defaults = %q, %d", cfg.Watchdog.Schedule, cfg.Watchdog.StaleAfterMins)
	}
}

func TestParse_Explicit(t *testing.T) {
	data := `
agent_name: triage-agent
language: English
mysql:
  host: db.internal
  port: 3307
  database: emergency
dispatch:
  allow_multiple: true
realtime:
  url: ws://push.internal:4000/ws
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AgentName != "triage-agent" || cfg.Language != "English" {
		t.Errorf("agent = %q/%q", cfg.AgentName, cfg.Language)
	}
	if cfg.MySQL.Host != "db.internal" || cfg.MySQL.Port != 3307 {
		t.Errorf("mysql = %s:%d", cfg.MySQL.Host, cfg.MySQL.Port)
	}
	if !cfg.Dispatch.AllowMultiple {
		t.Error("AllowMultiple not honored")
	}
	if cfg.Realtime.URL != "ws://push.internal:4000/ws" {
		t.Errorf("Realtime.URL = %q", cfg.Realtime.URL)
	}
}

func TestParse_SlackNeedsChannel(t *testing.T) {
	data := "mysql:\n  database: x\nalerts:\n  slack:\n    bot_token: xoxb-test\n"
	_, err := Parse([]byte(data))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "alerts.slack.channel_id") {
		t.Errorf("error = %v", err)
	}
}

func TestParse_BadYAML(t *testing.T) {
	if _, err := Parse([]byte("mysql: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("LIFELINE_MYSQL_PASSWORD", "hunter2")
	cfg, err := Parse([]byte("mysql:\n  database: x\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.MySQL.Password != "hunter2" {
		t.Errorf("Password = %q", cfg.MySQL.Password)
	}
}
