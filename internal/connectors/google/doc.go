// Package google implements the document-service client contract against
// the Google Docs and Drive APIs.
//
// This package contains:
//   - Client: the DocsClient implementation (create/read/update/append/
//     list documents, full-text Drive search)
//   - ClientFactory: per-user client construction over a token provider
//   - TokenSource adapter bridging the credential service to
//     oauth2.TokenSource
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
// Clients are built per user through the factory:
//
//	factory := google.NewClientFactory(credentialService)
//	client, err := factory.NewClient(ctx, userID)
//
// Each client holds its own Docs and Drive services; token refresh flows
// through the credential service on every API call, so a client stays
// usable across token rotations.
package google
