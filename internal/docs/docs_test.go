package docs

import (
	"strings"
	"testing"

	"github.com/jorge-barreto/folio/internal/integrity"
)

func TestAll_ReturnsTopics(t *testing.T) {
	topics := All()
	if len(topics) == 0 {
		t.Fatal("All() returned no topics")
	}
	if topics[0].Name != "quickstart" {
		t.Errorf("first topic = %q, want %q", topics[0].Name, "quickstart")
	}
}

func TestAll_NoDuplicateNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, topic := range All() {
		if seen[topic.Name] {
			t.Errorf("duplicate topic name: %q", topic.Name)
		}
		seen[topic.Name] = true
	}
}

func TestAll_AllFieldsPopulated(t *testing.T) {
	for _, topic := range All() {
		if topic.Name == "" {
			t.Error("topic has empty Name")
		}
		if topic.Title == "" {
			t.Errorf("topic %q has empty Title", topic.Name)
		}
		if topic.Summary == "" {
			t.Errorf("topic %q has empty Summary", topic.Name)
		}
		if topic.Content == "" {
			t.Errorf("topic %q has empty Content", topic.Name)
		}
	}
}

func TestRegistry_BuildsAndChecksClean(t *testing.T) {
	reg, err := Registry()
	if err != nil {
		t.Fatalf("help topics do not build: %v", err)
	}
	if reg.Len() != len(All()) {
		t.Errorf("Len = %d, want %d", reg.Len(), len(All()))
	}
	if rep := integrity.Check(reg, integrity.Options{}); len(rep.Findings) != 0 {
		t.Errorf("help topics have findings: %+v", rep.Findings)
	}
}

func TestGet_Found(t *testing.T) {
	topic, err := Get("quickstart")
	if err != nil {
		t.Fatalf("Get(quickstart) error: %v", err)
	}
	if topic.Name != "quickstart" || topic.Title != "Quick Start" {
		t.Errorf("topic = %q / %q", topic.Name, topic.Title)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := Get("nonexistent")
	if err == nil {
		t.Fatal("Get(nonexistent) should return error")
	}
}

func TestGet_Suggests(t *testing.T) {
	_, err := Get("confg")
	if err == nil || !strings.Contains(err.Error(), `did you mean "config"`) {
		t.Fatalf("got %v", err)
	}
}
