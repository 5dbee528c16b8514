package model

// WorkflowState is the position of a signup workflow in its lifecycle
type WorkflowState string

const (
	StateCollectingDetails WorkflowState = "collecting_details"
	StateSendingCode       WorkflowState = "sending_code"
	StateAwaitingCode      WorkflowState = "awaiting_code"
	StateVerifyingCode     WorkflowState = "verifying_code"
	StateCompleted         WorkflowState = "completed"
)

// ShowsCodeEntry reports whether the code-entry view is displayed in this state.
// A verification session exists exactly when this is true.
func (s WorkflowState) ShowsCodeEntry() bool {
	return s == StateAwaitingCode || s == StateVerifyingCode
}

// NoticeKind classifies a transient user-facing notice
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)
