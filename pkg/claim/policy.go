package claim

// Operation identifies an action a caller wants to perform on claims.
type Operation int

const (
	// OpListSubject lists claims where the caller is the subject.
	OpListSubject Operation = iota

	// OpListAttester lists claims where the caller is the attester.
	OpListAttester

	// OpCreate creates a new claim.
	OpCreate

	// OpDelete removes an existing claim.
	OpDelete
)

// Authorize decides whether identity may perform op on record.
//
// Rules:
//   - list operations: any authenticated identity may list its own claims;
//     the service always filters by the caller's identity, so the record
//     argument is nil and only authentication matters.
//   - create: only the claim subject may request its own attestation record.
//   - delete: either the subject or the attester of the existing record.
//
// An empty identity (unauthenticated caller) is denied everything.
func Authorize(identity string, op Operation, record *Claim) bool {
	if identity == "" {
		return false
	}

	switch op {
	case OpListSubject, OpListAttester:
		return true
	case OpCreate:
		return record != nil && record.To == identity
	case OpDelete:
		return record != nil && (record.To == identity || record.Attester == identity)
	}
	return false
}
