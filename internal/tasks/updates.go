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
	ScanStart Phase = iota
	FetchListing
	FolderScanned
	FolderEmpty
	FolderFailed
	ScanComplete
)

func (p Phase) String() string {
	switch p {
	case ScanStart:
		return "scan_start"
	case FetchListing:
		return "fetch_listing"
	case FolderScanned:
		return "folder_scanned"
	case FolderEmpty:
		return "folder_empty"
	case FolderFailed:
		return "folder_failed"
	case ScanComplete:
		return "scan_complete"
	default:
		return ""
	}
}

func scanStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanStart,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Scanning %d folders...", total),
	}
}

func fetchListingUpdate(step, total int, folder string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Listing %s...", step, total, folder),
	}
}

func folderResultUpdate(step, total int, res FolderResult) ProgressUpdate {
	switch {
	case res.Error != nil:
		return ProgressUpdate{
			Phase:   FolderFailed,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Folder, res.Error),
			Data:    res,
		}
	case len(res.Tracks) == 0:
		return ProgressUpdate{
			Phase:   FolderEmpty,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] - %s: no songs", step, total, res.Folder),
			Data:    res,
		}
	default:
		return ProgressUpdate{
			Phase:   FolderScanned,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✓ %s (%d songs)", step, total, res.Folder, len(res.Tracks)),
			Data:    res,
		}
	}
}

func scanCompleteUpdate(result *ScanResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanComplete,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Scanned %d folders: %d with songs, %d empty, %d failed", result.Total, result.Scanned, result.Empty, result.Failed),
		Data:    result,
	}
}
