package handler

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bcnelson/stackex/internal/domain"
)

// GenerateETag generates an ETag for a resource based on its ID and updated_at timestamp.
// Format: "<resource_type>-<id>-<updated_at_unix_nano>"
func GenerateETag(resourceType, id string, updatedAt time.Time) string {
	return fmt.Sprintf(`"%s-%s-%d"`, resourceType, id, updatedAt.UnixNano())
}

// SetETagHeader sets the ETag header on the response.
func SetETagHeader(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
}

// CheckIfNoneMatch reports whether the client already holds the current
// representation. A "*" or any listed tag matching etag counts.
func CheckIfNoneMatch(r *http.Request, etag string) bool {
	ifNoneMatch := r.Header.Get("If-None-Match")
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// respondNotModified writes a 304 with the ETag repeated.
func respondNotModified(w http.ResponseWriter, etag string) {
	SetETagHeader(w, etag)
	w.WriteHeader(http.StatusNotModified)
}

// catalogETag is fixed for the life of the process; the catalog is compiled in.
var catalogETag = func() string {
	data, _ := json.Marshal(domain.Catalog())
	sum := sha256.Sum256(data)
	return fmt.Sprintf(`"catalog-%x"`, sum[:8])
}()

// SavedStacksETag tags a user's saved-stack listing. Every save adds a newer
// record and every delete lowers the count, so either changes the tag.
func SavedStacksETag(userID string, records []*domain.SavedStackRecord) string {
	var newest time.Time
	for _, r := range records {
		if r.CreatedAt.After(newest) {
			newest = r.CreatedAt
		}
	}
	return GenerateETag("stacks", fmt.Sprintf("%s-%d", userID, len(records)), newest)
}
