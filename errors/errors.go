package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error for the protocol boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindFraming
	KindRouting
	KindAuthentication
	KindAuthorization
	KindDomain
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindFraming:
		return "framing"
	case KindRouting:
		return "routing"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindDomain:
		return "domain"
	case KindTransport:
		return "transport"
	default:
		return "internal"
	}
}

var (
	ErrWorkerPanic  = fmt.Errorf("worker panic")
	ErrHandlerPanic = fmt.Errorf("handler panic")
	ErrServerClosed = fmt.Errorf("server closed")

	ErrInvalidMessage = fmt.Errorf("invalid message")
	ErrLineTooLong    = fmt.Errorf("line too long")

	ErrUnknownCommand = fmt.Errorf("unknown command")
	ErrInvalidAction  = fmt.Errorf("invalid action")

	ErrInvalidSession     = fmt.Errorf("invalid or expired session")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	ErrAccessDenied    = fmt.Errorf("access denied to project")
	ErrConsultantOnly  = fmt.Errorf("only consultants may accept projects (apenas consultores podem aceitar projetos)")
	ErrClientOnly      = fmt.Errorf("only clients may create projects")
	ErrAlreadyAssigned = fmt.Errorf("project already assigned to another consultant")
	ErrRoadmapDenied   = fmt.Errorf("only the project's consultant may write its roadmaps")

	ErrInvalidPayload    = fmt.Errorf("invalid payload")
	ErrEmptyContent      = fmt.Errorf("content must not be empty")
	ErrRequestIDReused   = fmt.Errorf("requestId already used with a different payload")
	ErrProjectNotFound   = fmt.Errorf("project not found")
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrPhotoNotFound     = fmt.Errorf("photo not found")
	ErrRoadmapNotFound   = fmt.Errorf("roadmap not found")
	ErrUserAlreadyExists = fmt.Errorf("user already exists")
	ErrInvalidPassword   = fmt.Errorf("invalid password")
	ErrTokenGeneration   = fmt.Errorf("token generation failed")
	ErrEmptyWords        = fmt.Errorf("no words have been found")
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidMessage, KindFraming},
	{ErrLineTooLong, KindFraming},
	{ErrUnknownCommand, KindRouting},
	{ErrInvalidSession, KindAuthentication},
	{ErrInvalidCredentials, KindAuthentication},
	{ErrAccessDenied, KindAuthorization},
	{ErrConsultantOnly, KindAuthorization},
	{ErrClientOnly, KindAuthorization},
	{ErrAlreadyAssigned, KindAuthorization},
	{ErrRoadmapDenied, KindAuthorization},
	{ErrInvalidAction, KindDomain},
	{ErrInvalidPayload, KindDomain},
	{ErrEmptyContent, KindDomain},
	{ErrRequestIDReused, KindDomain},
	{ErrProjectNotFound, KindDomain},
	{ErrUserNotFound, KindDomain},
	{ErrPhotoNotFound, KindDomain},
	{ErrRoadmapNotFound, KindDomain},
	{ErrUserAlreadyExists, KindDomain},
	{ErrInvalidPassword, KindDomain},
	{ErrServerClosed, KindTransport},
}

// KindOf returns the taxonomy entry of err, KindInternal when err wraps none of
// the known sentinels.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if stderrors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func New(text string) error {
	return stderrors.New(text)
}
