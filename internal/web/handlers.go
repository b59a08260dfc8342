package web

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/preview"
	"github.com/bcnelson/stackex/internal/validation"
	"github.com/go-chi/chi/v5"
)

// HomeData holds data for the prompt page.
type HomeData struct {
	Stack string
	OS    domain.OS
	AllOS []domain.OS
}

// handleHome renders the free-text prompt page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r, "Describe your stack", "home")

	os, err := domain.ParseOS(r.URL.Query().Get("os"))
	if err != nil {
		os = domain.OSLinux
	}
	data.Content = HomeData{
		Stack: r.URL.Query().Get("stack"),
		OS:    os,
		AllOS: domain.AllOS,
	}

	s.render(w, "base", "home", data)
}

// CategoryView is one catalog category on the selection page.
type CategoryView struct {
	Name  domain.Category
	Techs []domain.Tech
}

// PopularLink is a trending stack with its preview link.
type PopularLink struct {
	Name string
	URL  string
}

// SavedView is a saved stack with its preview link.
type SavedView struct {
	Record *domain.SavedStackRecord
	URL    string
}

// SelectData holds data for the catalog selection page.
type SelectData struct {
	Categories   []CategoryView
	Presets      []domain.Preset
	Popular      []PopularLink
	PopularError string
	Saved        []SavedView
	OS           domain.OS
	AllOS        []domain.OS
}

// handleSelectPage renders the catalog, presets, popular and saved stacks.
func (s *Server) handleSelectPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := s.pageData(r, "Select your stack", "select")

	os, err := domain.ParseOS(r.URL.Query().Get("os"))
	if err != nil {
		os = domain.OSLinux
	}

	content := SelectData{
		Presets: domain.Presets,
		OS:      os,
		AllOS:   domain.AllOS,
	}
	for _, c := range domain.Categories {
		content.Categories = append(content.Categories, CategoryView{Name: c, Techs: domain.TechsIn(c)})
	}

	popular, err := s.popular.Get(ctx, browseSession(r))
	if err != nil {
		log.Printf("Fetching popular stacks failed: %v", err)
		content.PopularError = domain.MsgPopularStacksFailed
	}
	for _, name := range popular {
		content.Popular = append(content.Popular, PopularLink{Name: name, URL: previewTextURL(name, os)})
	}

	if u, ok := currentUser(r); ok {
		records, err := s.stacks.List(ctx, u.ID)
		if err != nil {
			log.Printf("Listing saved stacks failed: %v", err)
			if data.Flash == nil {
				data.Flash = &FlashMessage{Type: "error", Message: domain.MsgFetchFailed}
			}
		}
		for _, rec := range records {
			content.Saved = append(content.Saved, SavedView{
				Record: rec,
				URL:    previewURL(domain.FromNames(rec.Stacks).Selection, os),
			})
		}
	}

	data.Content = content
	s.render(w, "base", "select", data)
}

// handleSelect turns the submitted selection into a preview. Signed-in users
// get the selection saved in the background.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/select?error="+url.QueryEscape("Invalid form data"), http.StatusSeeOther)
		return
	}

	os, err := domain.ParseOS(r.FormValue("os"))
	if err != nil {
		http.Redirect(w, r, "/select?error="+url.QueryEscape(domain.MsgMissingFields), http.StatusSeeOther)
		return
	}

	var items []domain.StackItem
	if name := r.FormValue("preset"); name != "" {
		for _, p := range domain.Presets {
			if p.Name == name {
				for _, t := range p.Techs {
					items = append(items, t.Item())
				}
			}
		}
	} else {
		for _, name := range r.Form["item"] {
			items = append(items, domain.StackItem{Name: name, Version: r.FormValue("version_" + name)})
		}
	}

	sel := domain.NewSelection(items)
	if len(sel) == 0 {
		http.Redirect(w, r, "/select?os="+string(os)+"&error="+url.QueryEscape(domain.MsgMissingFields), http.StatusSeeOther)
		return
	}

	if u, ok := currentUser(r); ok {
		s.stacks.SaveAsync(u.ID, sel.Names())
	}

	http.Redirect(w, r, previewURL(sel, os), http.StatusSeeOther)
}

// handleSavedDelete deletes a saved stack of the signed-in user.
func (s *Server) handleSavedDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		http.Redirect(w, r, "/auth/login?return_to=/select", http.StatusSeeOther)
		return
	}

	if err := s.stacks.Delete(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		log.Printf("Deleting saved stack failed: %v", err)
		http.Redirect(w, r, "/select?error="+url.QueryEscape(domain.MsgDeleteFailed), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/select?notice="+url.QueryEscape("Stack deleted"), http.StatusSeeOther)
}

// PreviewData holds data for the preview page.
type PreviewData struct {
	preview.Snapshot
	Loading  bool
	Ready    bool
	Failed   bool
	OSLabel  string
	Language string
}

// handlePreview starts (or reuses) the generation for the requested stack and
// renders its current state. While loading the page reloads itself.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r.URL.Query())
	if err != nil {
		data := s.pageData(r, "Preview", "preview")
		data.Flash = &FlashMessage{Type: "error", Message: previewInputMessage(err)}
		s.renderStatus(w, http.StatusBadRequest, "base", "error", data)
		return
	}

	// The loading page reloads itself with refresh=1; only a fresh submission
	// retries a failed attempt.
	var c *preview.Controller
	if r.URL.Query().Get("refresh") != "" {
		c = s.previews.Follow(browseSession(r), req)
	} else {
		c = s.previews.Open(browseSession(r), req)
	}
	c.Start(r.Context())
	snap := c.Snapshot()

	data := s.pageData(r, "Your install script", "preview")
	data.Content = PreviewData{
		Snapshot: snap,
		Loading:  snap.State == preview.Loading,
		Ready:    snap.State == preview.Ready,
		Failed:   snap.State == preview.Failed,
		OSLabel:  snap.OS.Label(),
		Language: languageClass(snap.OS),
	}
	if snap.State == preview.Loading {
		q := r.URL.Query()
		q.Set("refresh", "1")
		data.Refresh = 1
		data.RefreshURL = "/preview?" + q.Encode()
	}

	s.render(w, "base", "preview", data)
}

// previewInputMessage maps a bad preview request to the message shown.
func previewInputMessage(err error) string {
	var errs validation.ValidationErrors
	if errors.As(err, &errs) {
		return errs.Error()
	}
	return domain.MsgMissingFields
}

// languageClass is the highlight.js class of the script dialect.
func languageClass(os domain.OS) string {
	if os == domain.OSWindows {
		return "language-powershell"
	}
	return "language-bash"
}

// handleDownload sends the ready script as an attachment. The body is written
// byte for byte.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	c, ok := s.previews.Current(browseSession(r))
	if !ok {
		s.renderError(w, "No script to download", http.StatusNotFound)
		return
	}

	artifact, err := c.Download()
	if err != nil {
		s.renderError(w, "The script is not ready yet", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+artifact.Filename())
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(artifact.Body))
}

// handleRaw returns the ready script as plain text for the copy button.
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	c, ok := s.previews.Current(browseSession(r))
	if !ok {
		http.Error(w, "No script to copy", http.StatusNotFound)
		return
	}

	text, err := c.Copy()
	if err != nil {
		http.Error(w, "The script is not ready yet", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

// handleDiscard drops the current script and goes back to the selection.
func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	s.previews.Discard(browseSession(r))
	http.Redirect(w, r, "/select", http.StatusSeeOther)
}

// render renders a page with the given base template.
func (s *Server) render(w http.ResponseWriter, base, page string, data PageData) {
	s.renderStatus(w, http.StatusOK, base, page, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, status int, base, page string, data PageData) {
	tmpl, ok := s.templates[page]
	if !ok {
		http.Error(w, "Template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, base, data); err != nil {
		log.Printf("Template error rendering %s: %v", page, err)
	}
}

// renderError renders an error message.
func (s *Server) renderError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(`<div class="flash flash-error">` + template.HTMLEscapeString(message) + `</div>`))
}
