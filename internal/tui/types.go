package tui

import "time"

const anchorResult = "result"

const heroTagline = "Classify an email and draft a reply."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	copyNoticeDuration        = 2 * time.Second
)

const (
	submitIdleLabel = "Classify Email"
	submitBusyLabel = "Analyzing…"
	copyIdleLabel   = "ctrl+y copy reply"
	copyDoneLabel   = "Copied!"
)

const textPlaceholder = "Paste the email text here…"

type probeState int

const (
	probeSkipped probeState = iota
	probePending
	probeOnline
	probeOffline
)
