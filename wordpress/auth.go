package wordpress

import "encoding/base64"

// BasicAuth builds the Authorization header value for a WordPress
// application password. Inputs are encoded as given.
func BasicAuth(username, appPassword string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+appPassword))
}
