package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Every relier validation failure and sign-in error crosses these helpers, so
// "wrapped errors keep their code and field" must hold.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeUnexpected, Message: "account required"}
		s.Equal("account required", err.Error())
	})

	s.Run("returns code and field when message is empty", func() {
		err := &Error{Code: CodeInvalidParameter, Field: "scope"}
		s.Equal("INVALID_PARAMETER: scope", err.Error())
	})

	s.Run("returns code when message and field are empty", func() {
		err := &Error{Code: CodeIncorrectRedirect}
		s.Equal("INCORRECT_REDIRECT", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		s.True(errors.Is(InvalidParameter("scope"), &Error{Code: CodeInvalidParameter}))
	})

	s.Run("does not match different codes", func() {
		s.False(errors.Is(InvalidParameter("scope"), &Error{Code: CodeMissingParameter}))
	})

	s.Run("does not match non-domain errors", func() {
		err := &Error{Code: CodeThrottled}
		s.False(err.Is(errors.New("THROTTLED")))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves code and field of wrapped domain error", func() {
		wrapped := Wrap(InvalidParameter("client_id"), CodeInternal, "registry lookup failed")
		s.True(HasCode(wrapped, CodeInvalidParameter))
		s.Equal("client_id", FieldOf(wrapped))
		s.Equal("registry lookup failed", wrapped.Error())
	})

	s.Run("preserves service errno", func() {
		wrapped := Wrap(&Error{Code: CodeAuthError, Errno: 103}, CodeInternal, "sign-in failed")
		s.True(HasCode(wrapped, CodeAuthError))
		var de *Error
		s.Require().True(errors.As(wrapped, &de))
		s.Equal(103, de.Errno)
	})

	s.Run("uses given code for plain errors", func() {
		wrapped := Wrap(errors.New("dial tcp: refused"), CodeUnavailable, "registry unavailable")
		s.True(HasCode(wrapped, CodeUnavailable))
		s.Equal("", FieldOf(wrapped))
	})
}

func (s *DomainErrorsSuite) TestConstructors() {
	s.Run("unknown client carries client id and cause", func() {
		cause := InvalidParameter("client_id")
		err := UnknownClient("dcdb5ae7add825d2", cause)

		var de *Error
		s.Require().True(errors.As(err, &de))
		s.Equal(CodeUnknownClient, de.Code)
		s.Equal("dcdb5ae7add825d2", de.ClientID)
		s.ErrorIs(err, &Error{Code: CodeInvalidParameter})
	})

	s.Run("missing parameter names the field", func() {
		err := MissingParameter("client_id")
		s.True(HasCode(err, CodeMissingParameter))
		s.Equal("client_id", FieldOf(err))
	})
}

func (s *DomainErrorsSuite) TestIsInvalidParameter() {
	s.True(IsInvalidParameter(InvalidParameter("client_id"), "client_id"))
	s.False(IsInvalidParameter(InvalidParameter("scope"), "client_id"))
	s.False(IsInvalidParameter(MissingParameter("client_id"), "client_id"))
	s.True(IsInvalidParameter(fmt.Errorf("fetch: %w", InvalidParameter("client_id")), "client_id"))
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeThrottled, CodeOf(New(CodeThrottled, "slow down")))
	s.Equal(Code(""), CodeOf(errors.New("plain")))
}
