package boundary

import (
	"encoding/base64"
)

// BasicAuthHeader builds the Authorization header value for an API key.
// Boundary takes the key as the username with an empty password.
func BasicAuthHeader(apiKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":"))
}
