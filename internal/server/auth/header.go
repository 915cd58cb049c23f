package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sociopedia/internal/common"
)

// ExtractToken returns the token carried by an Authorization value.
// Surrounding whitespace and an optional "Bearer" scheme (any case) are
// stripped. A blank header yields common.ErrNoToken; a scheme with nothing
// after it yields common.ErrTokenMalformed.
func ExtractToken(header string) (string, error) {
	value := strings.TrimSpace(header)
	if value == "" {
		return "", common.ErrNoToken
	}

	scheme := common.BearerScheme
	if len(value) >= len(scheme) && strings.EqualFold(value[:len(scheme)], scheme) {
		rest := value[len(scheme):]
		switch {
		case rest == "":
			return "", fmt.Errorf("%w: scheme without token", common.ErrTokenMalformed)
		case rest[0] == ' ' || rest[0] == '\t':
			token := strings.TrimSpace(rest)
			if token == "" {
				return "", fmt.Errorf("%w: scheme without token", common.ErrTokenMalformed)
			}
			return token, nil
		}
		// "Bearerxyz" is not a scheme; treat the whole value as the token.
	}

	return value, nil
}
