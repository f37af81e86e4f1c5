package respond

import (
	"regexp"
)

var (
	// Bearer tokens and bare JWTs (three base64url segments).
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._~+/=-]+`)
	jwtPattern    = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Passwords inside a DSN.
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)

	// key=value DSN form.
	dsnPasswordPattern = regexp.MustCompile(`(?i)password=\S+`)

	bcryptHashPattern = regexp.MustCompile(`\$2[aby]\$\d{2}\$[./a-zA-Z0-9]{53}`)
)

// SanitizeError returns the message of err with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	// JWTs first so the bearer pattern sees a masked token.
	msg = jwtPattern.ReplaceAllString(msg, "****")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")

	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = dsnPasswordPattern.ReplaceAllString(msg, "password=****")
	msg = bcryptHashPattern.ReplaceAllString(msg, "$$2a$$****")

	return msg
}
