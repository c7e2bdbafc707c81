package service

import "errors"

var (
	ErrAssessmentNotFound  = errors.New("assessment not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrResultNotFound      = errors.New("assessment result not found")
	ErrHistoryNotFound     = errors.New("cooldown history not found")
	ErrConceptLinkNotFound = errors.New("concept link not found")

	// ErrIneligible is a policy decision, not a fault: the user may not
	// attempt the assessment right now. The wrapped message says why.
	ErrIneligible = errors.New("assessment attempt not allowed")
)
