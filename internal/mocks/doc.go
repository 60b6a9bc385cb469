// Package mocks provides shared test doubles for the ledger's interfaces.
//
// Two styles live here. MemoryLedger and MemoryCache are working in-memory
// implementations that enforce the same ownership, uniqueness and cascade
// rules as the real backends, for tests that exercise whole flows. The
// Mock* types are function-field or testify mocks for tests that need to
// script a single collaborator:
//
//	jwt := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{Subject: "ann@example.com"}, nil
//	    },
//	}
package mocks
