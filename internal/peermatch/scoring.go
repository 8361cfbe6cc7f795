package peermatch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yungbote/lusilearn-ai-service/internal/domain"
)

// skillComplementarity averages per-subject scores over subjects both learners
// rated: 0.8 at the same level, 1.0 one level apart, 0.4 otherwise.
func skillComplementarity(user, peer map[string]domain.DifficultyLevel) float64 {
	if len(user) == 0 || len(peer) == 0 {
		return 0
	}
	total, n := 0.0, 0
	for subject, ul := range user {
		pl, ok := peer[subject]
		if !ok {
			continue
		}
		diff := ul.Rank() - pl.Rank()
		if diff < 0 {
			diff = -diff
		}
		switch diff {
		case 0:
			total += 0.8
		case 1:
			total += 1.0
		default:
			total += 0.4
		}
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func complementarySkills(user, peer map[string]domain.DifficultyLevel) map[string]string {
	out := map[string]string{}
	for subject, ul := range user {
		pl, ok := peer[subject]
		if !ok {
			continue
		}
		switch {
		case ul.Rank() > pl.Rank():
			out[subject] = fmt.Sprintf("You can help with %s", subject)
		case pl.Rank() > ul.Rank():
			out[subject] = fmt.Sprintf("They can help with %s", subject)
		default:
			out[subject] = fmt.Sprintf("Equal level in %s", subject)
		}
	}
	return out
}

// goalAlignment is the Jaccard index of the two goal sets.
func goalAlignment(user, peer []string) float64 {
	if len(user) == 0 || len(peer) == 0 {
		return 0
	}
	us := toSet(user)
	ps := toSet(peer)
	inter := 0
	for g := range us {
		if _, ok := ps[g]; ok {
			inter++
		}
	}
	union := len(us) + len(ps) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// communicationScore is the share of the requester's channels the peer also uses.
func communicationScore(user, peer []string) float64 {
	denom := len(user)
	if denom < 1 {
		denom = 1
	}
	return float64(len(intersect(user, peer))) / float64(denom)
}

// availabilityOverlap lists "{day}: {slot}" for each requester slot that
// intersects a peer slot on the same day. Days are visited in sorted order.
func availabilityOverlap(user, peer map[string][]string) []string {
	days := make([]string, 0, len(user))
	for d := range user {
		days = append(days, d)
	}
	sort.Strings(days)

	out := []string{}
	for _, day := range days {
		peerSlots := peer[day]
		for _, us := range user[day] {
			for _, ps := range peerSlots {
				if timesOverlap(us, ps) {
					out = append(out, day+": "+us)
					break
				}
			}
		}
	}
	return out
}

func totalSlots(availability map[string][]string) int {
	n := 0
	for _, slots := range availability {
		n += len(slots)
	}
	return n
}

// timesOverlap compares "HH:MM-HH:MM" ranges as half-open intervals.
// Slots without a range only match themselves.
func timesOverlap(a, b string) bool {
	s1, e1, ok1 := strings.Cut(a, "-")
	s2, e2, ok2 := strings.Cut(b, "-")
	if !ok1 || !ok2 {
		return a == b
	}
	start1, end1 := toMinutes(s1), toMinutes(e1)
	start2, end2 := toMinutes(s2), toMinutes(e2)
	return !(end1 <= start2 || end2 <= start1)
}

// toMinutes parses "HH:MM". Malformed input counts as midnight.
func toMinutes(hhmm string) int {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return 0
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0
	}
	mins, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return hours*60 + mins
}

// intersect keeps the elements of a that also appear in b, in a's order.
func intersect(a, b []string) []string {
	bs := toSet(b)
	out := []string{}
	seen := map[string]struct{}{}
	for _, v := range a {
		if _, ok := bs[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func toSet(vals []string) map[string]struct{} {
	s := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}
