package models

// Action is the per-file action chosen before execution
type Action string

const (
	// ActionCopyForward copies the source file over the target file
	ActionCopyForward Action = "copy-forward"
	// ActionCopyBackward copies the target file over the source file (two-way only)
	ActionCopyBackward Action = "copy-backward"
	// ActionValidateOnly leaves both files alone but compares their digests
	ActionValidateOnly Action = "validate-only"
	// ActionSkip leaves both files alone
	ActionSkip Action = "skip"
)

// IsCopy reports whether the action moves file content
func (a Action) IsCopy() bool {
	return a == ActionCopyForward || a == ActionCopyBackward
}

// Direction records which scan produced a decision
type Direction string

const (
	// DirectionForward is the source -> target scan
	DirectionForward Direction = "forward"
	// DirectionBackward is the target -> source scan
	DirectionBackward Direction = "backward"
)

// Arrow returns the marker shown in progress messages
func (d Direction) Arrow() string {
	if d == DirectionBackward {
		return "←"
	}
	return "→"
}

// SyncDecision is the Differ's verdict for one file
type SyncDecision struct {
	Action       Action
	Direction    Direction
	RelativePath string
	// SourcePath is the file's absolute path under the pair's source root
	SourcePath string
	// TargetPath is the file's absolute path under the pair's target root
	TargetPath string
}

// From returns the side content is read from for a copy.
// For non-copy actions it is the side the decision was scanned from.
func (d SyncDecision) From() string {
	if d.readsTarget() {
		return d.TargetPath
	}
	return d.SourcePath
}

// To returns the side content is written to for a copy
func (d SyncDecision) To() string {
	if d.readsTarget() {
		return d.SourcePath
	}
	return d.TargetPath
}

func (d SyncDecision) readsTarget() bool {
	if d.Action.IsCopy() {
		return d.Action == ActionCopyBackward
	}
	return d.Direction == DirectionBackward
}
