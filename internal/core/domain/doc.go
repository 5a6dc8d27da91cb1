// Package domain defines the core business entities for the Withings CLI.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TokenSet: The access/refresh token pair owned by the token store
//   - AuthorizationRequest: One authorization-code handshake attempt
//   - RedirectResult: The code/state pair captured from the OAuth redirect
//   - MeasureType, CategoryType: Withings measurement classifications
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
