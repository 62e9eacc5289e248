// Package gemini implements the generation ports on top of Google's Gemini
// and Veo models through the google.golang.org/genai client.
//
// This package is an infrastructure adapter: it translates poster and video
// requests into genai calls and maps the API's failure modes onto the errors
// declared in the generation package.
//
// Key components:
//
// 1. CredentialProvider:
//   - Selects the API key used for every call
//   - Acts as the capability provider behind the access gate
//
// 2. PosterGenerator:
//   - Sends the product image and a rendered prompt to an image-capable model
//   - Returns the first inline image of the response as a base64 payload
//
// 3. VideoGenerator:
//   - Starts a Veo long-running operation from the poster image
//   - Polls the operation until it finishes or times out
//   - Reports rejected credentials through the caller's callback
//
// 4. Error Handling:
//   - Retries transient errors with exponential backoff and jitter
//   - Maps safety blocks and malformed responses to permanent errors
//
// Clients are created per call from the currently selected key, so selecting
// a new key takes effect without restarting the process.
package gemini
