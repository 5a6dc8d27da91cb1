// Package file provides file-based persistence: the JSON token store and
// the TOML application settings.
//
// The token file holds only the current access/refresh pair and is
// replaced atomically on every save. Settings hold the OAuth app
// configuration (client credentials, endpoint URLs, listener port) and
// are read once at startup.
package file
