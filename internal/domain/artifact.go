package domain

// ScriptArtifact is a generated installation script. It lives in memory for
// the duration of a preview and is never persisted.
type ScriptArtifact struct {
	Body string `json:"script"`
	OS   OS     `json:"os"`
}

// Filename returns the download filename for the artifact.
func (a *ScriptArtifact) Filename() string {
	return "install" + a.OS.ScriptExtension()
}

// GenerateScriptResponse is the response body of a successful generation.
type GenerateScriptResponse struct {
	Script string `json:"script"`
}

// PopularStacksResponse is the response body of the popular stacks endpoint.
type PopularStacksResponse struct {
	PopularStacks []string `json:"popularStacks"`
}
