package handlers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/username/tradefolio/src/logger"
)

const csrfCookieName = "_tradefolio_csrf"

// GetCSRFToken issues a double-submit CSRF token: the raw value goes into
// an HttpOnly cookie and the response body; the client echoes it back in
// the X-CSRF-Token header on mutating requests.
func GetCSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := generateRandomToken()
	if err != nil {
		logger.L.Error("failed to generate CSRF token", "error", err)
		http.Error(w, "Failed to generate CSRF token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   false, // set to true behind HTTPS
		MaxAge:   3600,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-CSRF-Token", token)
	json.NewEncoder(w).Encode(map[string]string{
		"csrfToken": token,
	})
}

func generateRandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// CSRFMiddleware enforces the double-submit check on every non-GET,
// non-OPTIONS request: the X-CSRF-Token header must match the cookie.
// The authKey is reserved for signing the cookie value; comparison is
// constant-time either way.
func CSRFMiddleware(authKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			headerToken := r.Header.Get("X-CSRF-Token")
			cookie, err := r.Cookie(csrfCookieName)
			if headerToken != "" && err == nil && tokensMatch(authKey, headerToken, cookie.Value) {
				next.ServeHTTP(w, r)
				return
			}

			logger.L.Warn("CSRF validation failed",
				"method", r.Method,
				"path", r.URL.Path,
				"hasHeaderToken", headerToken != "",
				"hasCookie", err == nil)
			http.Error(w, "CSRF token validation failed", http.StatusForbidden)
		})
	}
}

func tokensMatch(authKey []byte, headerToken, cookieToken string) bool {
	headerMAC := hmac.New(sha256.New, authKey)
	headerMAC.Write([]byte(headerToken))
	cookieMAC := hmac.New(sha256.New, authKey)
	cookieMAC.Write([]byte(cookieToken))
	return hmac.Equal(headerMAC.Sum(nil), cookieMAC.Sum(nil))
}
