// Package validation checks stored habits for data that the state machine
// could never have produced.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

type ConflictType string

const (
	ConflictDuplicateTitle ConflictType = "duplicate_title"
	ConflictBlankTitle     ConflictType = "blank_title"
	ConflictInvalidPeriod  ConflictType = "invalid_period"
	ConflictNegativeStreak ConflictType = "negative_streak"
	ConflictMissingDueDate ConflictType = "missing_due_date"
	ConflictDueTooFar      ConflictType = "due_too_far"
)

type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []int64
}

// Blocking reports whether the conflict makes lookups ambiguous or data unusable.
// Duplicate titles are allowed and only worth a warning.
func (c Conflict) Blocking() bool {
	return c.Type != ConflictDuplicateTitle
}

type ValidationResult struct {
	Conflicts []Conflict
}

type FixAction struct {
	Action         string
	SourceConflict Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

func (vr *ValidationResult) HasBlocking() bool {
	for _, c := range vr.Conflicts {
		if c.Blocking() {
			return true
		}
	}
	return false
}

func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks every habit against today's date
func (v *Validator) ValidateHabits(habits []models.Habit, today time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	today = models.Date(today)

	byTitle := make(map[string][]int64)
	var titles []string
	for _, h := range habits {
		if strings.TrimSpace(h.Title) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBlankTitle,
				Description: fmt.Sprintf("Habit %d has a blank title", h.ID),
				HabitIDs:    []int64{h.ID},
			})
			continue
		}
		key := strings.ToLower(h.Title)
		if _, seen := byTitle[key]; !seen {
			titles = append(titles, key)
		}
		byTitle[key] = append(byTitle[key], h.ID)
	}

	sort.Strings(titles)
	for _, key := range titles {
		if ids := byTitle[key]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateTitle,
				Description: fmt.Sprintf("Duplicate title %q (ids %v); title lookups use id %d", key, ids, ids[0]),
				HabitIDs:    ids,
			})
		}
	}

	for _, h := range habits {
		if !h.Period.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidPeriod,
				Description: fmt.Sprintf("Habit %q has invalid period %q", h.Title, h.Period),
				HabitIDs:    []int64{h.ID},
			})
		}
		if h.Streak < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeStreak,
				Description: fmt.Sprintf("Habit %q has negative streak %d", h.Title, h.Streak),
				HabitIDs:    []int64{h.ID},
			})
		}
		if h.DueDate.IsZero() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingDueDate,
				Description: fmt.Sprintf("Habit %q has no due date", h.Title),
				HabitIDs:    []int64{h.ID},
			})
			continue
		}
		if limit := h.CalculateDueDate(today); h.DueDate.After(limit) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDueTooFar,
				Description: fmt.Sprintf("Habit %q is due %s, later than one %s period from today", h.Title, h.DueDateString(), h.Period),
				HabitIDs:    []int64{h.ID},
			})
		}
	}

	return result
}

// Fix repairs what can be repaired without guessing user intent: out-of-range
// due dates and missing due dates are rescheduled from today, negative
// streaks are zeroed. The returned habits must be persisted by the caller.
func (v *Validator) Fix(habits []models.Habit, result ValidationResult, today time.Time) ([]models.Habit, []FixAction) {
	today = models.Date(today)
	index := make(map[int64]int, len(habits))
	for i, h := range habits {
		index[h.ID] = i
	}

	changed := map[int64]bool{}
	var actions []FixAction
	for _, c := range result.Conflicts {
		for _, id := range c.HabitIDs {
			i, ok := index[id]
			if !ok {
				continue
			}
			h := &habits[i]
			switch c.Type {
			case ConflictDueTooFar, ConflictMissingDueDate:
				h.DueDate = h.CalculateDueDate(today)
				actions = append(actions, FixAction{
					Action:         fmt.Sprintf("Rescheduled %q to %s", h.Title, h.DueDateString()),
					SourceConflict: c,
				})
			case ConflictNegativeStreak:
				h.Streak = 0
				actions = append(actions, FixAction{
					Action:         fmt.Sprintf("Reset streak of %q to 0", h.Title),
					SourceConflict: c,
				})
			default:
				continue
			}
			changed[id] = true
		}
	}

	fixed := make([]models.Habit, 0, len(changed))
	for _, h := range habits {
		if changed[h.ID] {
			fixed = append(fixed, h)
		}
	}
	return fixed, actions
}
