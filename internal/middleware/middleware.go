package middleware

// Permission names granted by the auth service.
const (
	// Question management
	WriteQuestionPermission  = "write:question"
	UpdateQuestionPermission = "update:question"
	DeleteQuestionPermission = "delete:question"

	// Assessment management and submission
	WriteAssessmentPermission  = "write:assessment"
	UpdateAssessmentPermission = "update:assessment"
	DeleteAssessmentPermission = "delete:assessment"
	SubmitAssessmentPermission = "submit:assessment"

	// Result listings and analytics
	ReadAllResultPermission     = "read:result:all"
	ReadLearningStatsPermission = "read:learning:analytics"

	// Broad grants; either one satisfies any permission check.
	AdminPermission   = "admin"
	ManagerPermission = "manager"
)
