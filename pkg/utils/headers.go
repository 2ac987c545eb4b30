// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package utils

import "strings"

const (
	HEADER_AUTH_KEY = "Authorization"
	HEADER_API_KEY  = "x-api-key"

	bearerPrefix = "Bearer "
)

// BearerToken extracts the credential from an Authorization header value.
// Accepts "Bearer <key>" or a raw key.
func BearerToken(headerValue string) string {
	v := strings.TrimSpace(headerValue)
	if strings.EqualFold(v, "Bearer") {
		return ""
	}
	if len(v) > len(bearerPrefix) && strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(v[len(bearerPrefix):])
	}
	return v
}
