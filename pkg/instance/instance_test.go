package instance

import "testing"

func TestGetIDPrefersEnv(t *testing.T) {
	t.Setenv(EnvWorkerID, " cron-7 ")
	if got := GetID(); got != "cron-7" {
		t.Fatalf("expected cron-7, got %q", got)
	}
}

func TestGetIDFallsBack(t *testing.T) {
	t.Setenv(EnvWorkerID, "")
	if got := GetID(); got == "" {
		t.Fatal("expected a non-empty id")
	}
}
