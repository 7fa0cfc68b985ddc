package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryStoresJobs(t *testing.T) {
	registry := NewRegistry()
	jobA := &stubJob{name: "a"}
	jobB := &stubJob{name: "b"}
	if err := registry.Register(jobA); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := registry.Register(jobB); err != nil {
		t.Fatalf("register b: %v", err)
	}
	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != jobA || jobs[1] != jobB {
		t.Fatalf("jobs returned out of order")
	}
	// ensure caller cannot mutate internal slice
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("registry slice was mutated by caller")
	}
}

func TestRegistryRejectsDuplicatesAndNil(t *testing.T) {
	registry := NewRegistry(&stubJob{name: "dup"}, nil, &stubJob{name: "dup"})
	if got := len(registry.Jobs()); got != 1 {
		t.Fatalf("expected 1 job, got %d", got)
	}
	if err := registry.Register(&stubJob{name: "dup"}); err == nil {
		t.Fatal("expected duplicate name error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatal("expected nil job error")
	}

	var zero Registry
	if err := zero.Register(&stubJob{name: "lazy"}); err != nil {
		t.Fatalf("zero registry register: %v", err)
	}
}
