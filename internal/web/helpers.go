package web

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/validation"
)

// itemParam encodes a stack item as name@version for preview links.
func itemParam(it domain.StackItem) string {
	if it.Version == "" || it.Version == domain.LatestVersion {
		return it.Name
	}
	return it.Name + "@" + it.Version
}

// parseItemParam is the inverse of itemParam. Names may contain "@" only
// before the last one.
func parseItemParam(s string) domain.StackItem {
	if i := strings.LastIndex(s, "@"); i > 0 {
		return domain.StackItem{Name: s[:i], Version: s[i+1:]}
	}
	return domain.StackItem{Name: s}
}

// previewURL builds the preview link for a selection.
func previewURL(sel domain.Selection, os domain.OS) string {
	q := url.Values{}
	for _, it := range sel {
		q.Add("item", itemParam(it))
	}
	q.Set("os", string(os))
	return "/preview?" + q.Encode()
}

// previewTextURL builds the preview link for a free-text stack.
func previewTextURL(text string, os domain.OS) string {
	q := url.Values{}
	q.Set("stack", text)
	q.Set("os", string(os))
	return "/preview?" + q.Encode()
}

// requestFromQuery reads a stack request from preview query parameters:
// either stack=<text> or one item=<name[@version]> per technology, plus os.
func requestFromQuery(q url.Values) (domain.StackRequest, error) {
	var req domain.StackRequest

	if err := validation.ValidateOS(q.Get("os")); err != nil {
		return req, fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.MsgMissingFields)
	}
	req.OS, _ = domain.ParseOS(q.Get("os"))

	if items := q["item"]; len(items) > 0 {
		parsed := make([]domain.StackItem, 0, len(items))
		for _, it := range items {
			parsed = append(parsed, parseItemParam(it))
		}
		req.Input = domain.FromItems(parsed)
	} else {
		req.Input = domain.FreeText(q.Get("stack"))
	}

	if errs := validation.ValidateStackInput(req.Input); errs.HasErrors() {
		if req.Input.Empty() {
			return req, fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.MsgMissingFields)
		}
		return req, errs
	}
	return req, nil
}
