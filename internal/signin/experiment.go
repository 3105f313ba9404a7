package signin

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"authflow/internal/account"
)

// Experiment groups of the sign-in verification experiment.
const (
	GroupControl       = "control"
	GroupTreatmentCode = "treatment-code"
	GroupTreatmentLink = "treatment-link"
)

// verificationOverride maps an experiment group to the verification method
// it forces. Unknown groups force nothing.
func verificationOverride(group string) account.VerificationMethod {
	switch group {
	case GroupTreatmentCode:
		return account.MethodEmailCode
	case GroupTreatmentLink:
		return account.MethodEmail
	}
	return ""
}

// HashGrouper buckets accounts by a hash of their uid (or email). CodePercent
// of accounts land in treatment-code, the next LinkPercent in
// treatment-link, the rest in control.
type HashGrouper struct {
	CodePercent int
	LinkPercent int
}

func (g HashGrouper) Group(_ context.Context, acct *account.Account) string {
	if acct == nil || g.CodePercent+g.LinkPercent <= 0 {
		return ""
	}
	id := acct.UID
	if id == "" {
		id = acct.Email
	}
	sum := sha256.Sum256([]byte("signin-verification:" + id))
	bucket := int(binary.BigEndian.Uint32(sum[:4]) % 100)
	switch {
	case bucket < g.CodePercent:
		return GroupTreatmentCode
	case bucket < g.CodePercent+g.LinkPercent:
		return GroupTreatmentLink
	}
	return GroupControl
}
