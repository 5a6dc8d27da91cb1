// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them:
//
//   - TokenStore: durable persistence of the current token set
//   - TokenExchanger: the provider's two token-acquiring operations
//   - RedirectListener: one-shot capture of the OAuth redirect
//   - TokenProvider: access-token supply for API clients
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
