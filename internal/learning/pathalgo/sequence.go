package pathalgo

import (
	"fmt"
	"strings"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

type SequenceResult struct {
	Objectives []domain.LearningObjective
	Warnings   []domain.SequencingWarning
}

// Sequence runs the package-level Sequence and logs any ordering violations.
func (a *Algorithm) Sequence(objectives []domain.LearningObjective, completed []string) SequenceResult {
	res := Sequence(objectives, completed)
	for _, w := range res.Warnings {
		a.log.Warn("Prerequisite ordering violated", "kind", w.Kind, "admitted", w.Admitted, "objectives", w.ObjectiveIDs)
	}
	return res
}

// Sequence orders objectives so each follows its prerequisites, treating ids in
// completed as already satisfied. Objectives are admitted in rounds; every
// objective whose prerequisites are met joins the output in input order.
//
// When a round admits nothing the remaining set contains a cycle or refers to
// an objective that does not exist. The stalled objective with the fewest
// estimated hours (input order on ties) is admitted and a warning describing
// the violation is attached to the result.
func Sequence(objectives []domain.LearningObjective, completed []string) SequenceResult {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}
	placed := map[string]bool{}
	remaining := domain.CloneObjectives(objectives)
	out := make([]domain.LearningObjective, 0, len(objectives))
	var warnings []domain.SequencingWarning

	satisfied := func(o domain.LearningObjective) bool {
		for _, p := range o.Prerequisites {
			if !done[p] && !placed[p] {
				return false
			}
		}
		return true
	}

	for len(remaining) > 0 {
		var ready, blocked []domain.LearningObjective
		for _, o := range remaining {
			if satisfied(o) {
				ready = append(ready, o)
			} else {
				blocked = append(blocked, o)
			}
		}

		if len(ready) == 0 {
			w, admit := breakStall(remaining, done)
			warnings = append(warnings, w)
			ready = []domain.LearningObjective{remaining[admit]}
			blocked = append(append([]domain.LearningObjective(nil), remaining[:admit]...), remaining[admit+1:]...)
		}

		out = append(out, ready...)
		for _, o := range ready {
			placed[o.Key()] = true
		}
		remaining = blocked
	}

	seen := map[string]bool{}
	for i := range out {
		out[i].SequenceNumber = i + 1
		met := true
		for _, p := range out[i].Prerequisites {
			if !done[p] && !seen[p] {
				met = false
				break
			}
		}
		out[i].PrerequisitesMet = &met
		seen[out[i].Key()] = true
	}

	return SequenceResult{Objectives: out, Warnings: warnings}
}

// breakStall picks the objective to force-admit from a stalled remaining set
// and returns its index together with the warning describing why.
func breakStall(remaining []domain.LearningObjective, done map[string]bool) (domain.SequencingWarning, int) {
	present := make(map[string]bool, len(remaining))
	order := make([]string, 0, len(remaining))
	for _, o := range remaining {
		present[o.Key()] = true
		order = append(order, o.Key())
	}
	edges := make(map[string][]string, len(remaining))
	var missing []string
	for _, o := range remaining {
		direct := false
		for _, p := range o.Prerequisites {
			switch {
			case present[p]:
				edges[o.Key()] = append(edges[o.Key()], p)
			case !done[p]:
				direct = true
			}
		}
		if direct {
			missing = append(missing, o.Key())
		}
	}

	kind := domain.WarningMissingPrerequisites
	involved := missing
	if cycle := findCycle(order, edges); len(cycle) > 0 {
		kind = domain.WarningCyclicPrerequisites
		involved = cycle
	}
	if len(involved) == 0 {
		involved = order
	}

	candidates := make(map[string]bool, len(involved))
	for _, id := range involved {
		candidates[id] = true
	}
	admit := -1
	for i, o := range remaining {
		if !candidates[o.Key()] {
			continue
		}
		if admit < 0 || o.EstimatedHours < remaining[admit].EstimatedHours {
			admit = i
		}
	}
	if admit < 0 {
		admit = 0
	}

	admitted := remaining[admit].Key()
	var msg string
	if kind == domain.WarningCyclicPrerequisites {
		msg = fmt.Sprintf("prerequisite cycle among [%s]; %s admitted before its prerequisites", strings.Join(involved, ", "), admitted)
	} else {
		msg = fmt.Sprintf("unresolvable prerequisites for [%s]; %s admitted before its prerequisites", strings.Join(involved, ", "), admitted)
	}
	return domain.SequencingWarning{
		Kind:         kind,
		ObjectiveIDs: append([]string(nil), involved...),
		Admitted:     admitted,
		Message:      msg,
	}, admit
}

// findCycle returns the ids of the first cycle reachable in node order, or nil.
func findCycle(nodes []string, edges map[string][]string) []string {
	const (
		unvisited = iota
		visiting
		finished
	)
	state := make(map[string]int, len(nodes))
	var stack, cycle []string

	var visit func(n string) bool
	visit = func(n string) bool {
		state[n] = visiting
		stack = append(stack, n)
		for _, m := range edges[n] {
			switch state[m] {
			case visiting:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == m {
						cycle = append([]string(nil), stack[i:]...)
						break
					}
				}
				return true
			case unvisited:
				if visit(m) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = finished
		return false
	}

	for _, n := range nodes {
		if state[n] == unvisited && visit(n) {
			return cycle
		}
	}
	return nil
}
