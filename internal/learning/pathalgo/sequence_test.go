package pathalgo

import (
	"reflect"
	"testing"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

func obj(id string, hours int, prereqs ...string) domain.LearningObjective {
	return domain.LearningObjective{ID: id, Title: id, EstimatedHours: hours, Prerequisites: prereqs}
}

func ids(objs []domain.LearningObjective) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.Key())
	}
	return out
}

func TestSequenceOrdersByPrerequisites(t *testing.T) {
	in := []domain.LearningObjective{
		obj("C", 2, "B"),
		obj("A", 2),
		obj("B", 2, "A"),
	}
	res := Sequence(in, nil)
	if got, want := ids(res.Objectives), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order: got=%v want=%v", got, want)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", res.Warnings)
	}
	for i, o := range res.Objectives {
		if o.SequenceNumber != i+1 {
			t.Fatalf("sequence number %d: got=%d", i, o.SequenceNumber)
		}
		if o.PrerequisitesMet == nil || !*o.PrerequisitesMet {
			t.Fatalf("objective %s should have prerequisites met", o.ID)
		}
	}
	if in[0].SequenceNumber != 0 {
		t.Fatalf("input was mutated")
	}
}

func TestSequenceHonorsCompletedSet(t *testing.T) {
	res := Sequence([]domain.LearningObjective{obj("B", 2, "A")}, []string{"A"})
	if len(res.Objectives) != 1 || len(res.Warnings) != 0 {
		t.Fatalf("got objectives=%v warnings=%v", ids(res.Objectives), res.Warnings)
	}
	if !*res.Objectives[0].PrerequisitesMet {
		t.Fatalf("completed prerequisite not honored")
	}
}

func TestSequenceBreaksCycleWithWarning(t *testing.T) {
	in := []domain.LearningObjective{
		obj("start", 1),
		obj("X", 5, "Y"),
		obj("Y", 3, "X"),
	}
	res := Sequence(in, nil)
	if got, want := ids(res.Objectives), []string{"start", "Y", "X"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order: got=%v want=%v", got, want)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings: got=%d want=1", len(res.Warnings))
	}
	w := res.Warnings[0]
	if w.Kind != domain.WarningCyclicPrerequisites {
		t.Fatalf("kind: got=%s", w.Kind)
	}
	if w.Admitted != "Y" {
		t.Fatalf("admitted: got=%s want=Y (fewest hours)", w.Admitted)
	}
	if len(w.ObjectiveIDs) != 2 {
		t.Fatalf("cycle ids: got=%v", w.ObjectiveIDs)
	}
	if *res.Objectives[1].PrerequisitesMet {
		t.Fatalf("force-admitted objective must report unmet prerequisites")
	}
}

func TestSequenceMissingPrerequisite(t *testing.T) {
	res := Sequence([]domain.LearningObjective{obj("A", 2, "ghost"), obj("B", 2, "A")}, nil)
	if got, want := ids(res.Objectives), []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order: got=%v want=%v", got, want)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != domain.WarningMissingPrerequisites {
		t.Fatalf("warnings: %+v", res.Warnings)
	}
	if res.Warnings[0].Admitted != "A" {
		t.Fatalf("admitted: got=%s", res.Warnings[0].Admitted)
	}
}

func TestSequenceTiesBreakByInputOrder(t *testing.T) {
	res := Sequence([]domain.LearningObjective{obj("P", 2, "Q"), obj("Q", 2, "P")}, nil)
	if res.Warnings[0].Admitted != "P" {
		t.Fatalf("admitted: got=%s want=P", res.Warnings[0].Admitted)
	}
}

func TestFindCycle(t *testing.T) {
	edges := map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a"}, "d": {"a"}}
	got := findCycle([]string{"d", "a", "b", "c"}, edges)
	if len(got) != 3 {
		t.Fatalf("cycle: got=%v", got)
	}
	if findCycle([]string{"a", "b"}, map[string][]string{"b": {"a"}}) != nil {
		t.Fatalf("acyclic graph reported a cycle")
	}
}
