package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlanets Phase = iota
	FetchPeople
	FetchVehicles
	InsertPlanets
	InsertCharacters
	InsertVehicles
	ExportFavorites
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchPlanets:
		return "fetch_planets"
	case FetchPeople:
		return "fetch_people"
	case FetchVehicles:
		return "fetch_vehicles"
	case InsertPlanets:
		return "insert_planets"
	case InsertCharacters:
		return "insert_characters"
	case InsertVehicles:
		return "insert_vehicles"
	case ExportFavorites:
		return "export_favorites"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func fetchPhase(r resource) Phase {
	switch r {
	case resourcePeople:
		return FetchPeople
	case resourceVehicles:
		return FetchVehicles
	default:
		return FetchPlanets
	}
}

func fetchPageUpdate(r resource, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   fetchPhase(r),
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetched %s page", step, total, r),
	}
}

func insertUpdate(phase Phase, step, total int, name string, outcome outcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, outcome.symbol(), name),
		Data:    outcome,
	}
}

func importCompleteUpdate(result *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Complete,
		Step:  1,
		Total: 1,
		Message: fmt.Sprintf("Import %s complete: %d planets, %d characters, %d vehicles created",
			result.RunID, result.Planets.Created, result.Characters.Created, result.Vehicles.Created),
		Data: result,
	}
}

func exportCompletedUpdate(step, total int, email string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavorites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d favorites)", step, total, email, count),
	}
}

func exportFailedUpdate(step, total int, userID int64, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavorites,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ user %d: %v", step, total, userID, err),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
