package handlers

const (
	SessionCookieName = "session_id"
	CSRFFormField     = "csrf_token"

	ErrInvalidFormData     = "Invalid form data"
	ErrInvalidCSRFToken    = "Invalid CSRF token"
	ErrTooManyRequests     = "Too many requests. Please try again later."
	ErrInternalServerError = "Internal server error"
	ErrInvalidAssignmentID = "Invalid assignment ID"

	MsgLoginFailed            = "Login failed"
	MsgRegistrationFailed     = "Registration failed"
	MsgRegistrationSucceeded  = "Registration successful! Please log in."
	MsgCreateAssignmentFailed = "Failed to create assignment"
	MsgAssignmentCreated      = "Assignment created successfully!"
	MsgLoadAssignmentsFailed  = "Failed to load assignments"
	MsgLoadSubmissionsFailed  = "Failed to load submissions"
	MsgLoadAssignmentFailed   = "Failed to load assignment"
	MsgSubmitQueryFailed      = "Error submitting query"
	MsgSubmitCodeFailed       = "Error submitting code"
	MsgNoCompletionData       = "No completion data available."
)

// maxDraftTestCases bounds the rows parsed from a create-assignment form
const maxDraftTestCases = 200
