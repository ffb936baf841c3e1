// Package scheduler fires named deadlines from a single goroutine. Events sit
// in a min-heap sorted by trigger time and the goroutine never sleeps longer
// than a max-sleep cap (60s by default), so NTP steps, DST transitions and
// system suspend are noticed within one cap interval.
//
// The curfew monitor arms its enforcement deadline here. Nothing is
// persisted; callers re-arm on restart.
package scheduler
