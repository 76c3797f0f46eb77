// Package scanlog extracts and classifies access-control scan events
// from the entrypoint's scanner log. This is a best-effort heuristic
// over semi-structured text produced by an external system: it matches
// the documented markers literally and promises nothing beyond that.
package scanlog

import (
	"strings"
)

// Textual markers emitted by the entrypoint's access-control software.
const (
	markerBarcode   = "barcode received"
	markerWait      = "waiting for next scan"
	markerGranted   = "access granted"
	markerSuspended = "ticket suspended"
	markerDenied    = "denied by index"
)

const (
	ResultGranted = "granted"
	ResultDenied  = "denied"
	ResultUnknown = "unknown"
)

const suspendedDetails = "ticket suspended / reentrance"

// ScanResult is the classification of one completed scan cycle.
type ScanResult struct {
	Barcode string
	Result  string
	Details string
	Lines   []string
}

// ExtractLastScan isolates the most recent completed scan cycle from a
// block of log lines. It walks backward to the newest "waiting for
// next scan" line, then backward again to the nearest preceding
// "barcode received" line, and returns the half-open slice between
// them. Unrelated log lines before and after are tolerated. Returns
// false when either marker is missing.
func ExtractLastScan(lines []string) ([]string, bool) {
	end := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], markerWait) {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, false
	}

	start := -1
	for i := end - 1; i >= 0; i-- {
		if strings.Contains(lines[i], markerBarcode) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	return lines[start:end], true
}

// Classify scans a block for the known markers. Markers are evaluated
// in order, so a later line overwrites the classification of an
// earlier one.
func Classify(block []string) ScanResult {
	result := ScanResult{
		Result: ResultUnknown,
		Lines:  block,
	}

	for _, line := range block {
		switch {
		case strings.Contains(line, markerBarcode):
			result.Barcode = quotedValue(line)
		case strings.Contains(line, markerGranted):
			result.Result = ResultGranted
			result.Details = ""
		case strings.Contains(line, markerSuspended):
			result.Result = ResultDenied
			result.Details = suspendedDetails
		case strings.Contains(line, markerDenied):
			result.Result = ResultDenied
			result.Details = afterSeparator(line)
		}
	}

	return result
}

// quotedValue returns the text between the first pair of single quotes.
func quotedValue(line string) string {
	open := strings.Index(line, "'")
	if open < 0 {
		return ""
	}
	rest := line[open+1:]
	end := strings.Index(rest, "'")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// afterSeparator returns the substring after the first " - " separator.
func afterSeparator(line string) string {
	_, after, found := strings.Cut(line, " - ")
	if !found {
		return ""
	}
	return after
}
