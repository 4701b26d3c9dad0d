package auth

import "context"

// FakeVerifier resolves canned tokens for tests. Tokens in Decodable map to
// their payload; tokens in Unverifiable yield a VerificationError; anything
// else yields a DecodeError.
type FakeVerifier struct {
	Decodable    map[string]*TokenPayload
	Unverifiable map[string]bool
}

func (f *FakeVerifier) Verify(ctx context.Context, token string) (*TokenPayload, error) {
	if payload, ok := f.Decodable[token]; ok {
		return payload, nil
	}
	if f.Unverifiable[token] {
		return nil, &VerificationError{Reason: "signature mismatch"}
	}
	return nil, &DecodeError{Reason: "malformed token"}
}
