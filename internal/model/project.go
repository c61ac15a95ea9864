package model

import (
	"encoding/json"
	"strings"
)

// Project statuses
const (
	ProjectActive    = "active"
	ProjectPaused    = "paused"
	ProjectCompleted = "completed"
)

// Project is a named grouping of tasks. Lab is the owning client or lab;
// tasks resolve their client through it unless they carry an override.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Lab          string `json:"lab,omitempty"`
	Path         string `json:"path,omitempty"`
	Status       string `json:"status"`
	LastAccessed string `json:"last_accessed,omitempty"`
	HasClaudeMD  bool   `json:"has_claude_md"`
	HasReadme    bool   `json:"has_readme"`
	HasDocs      bool   `json:"has_docs"`
	Description  string `json:"description,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var projectKnownFields = map[string]bool{
	"id": true, "name": true, "code": true, "lab": true, "path": true,
	"status": true, "last_accessed": true, "has_claude_md": true,
	"has_readme": true, "has_docs": true, "description": true,
}

// UnmarshalJSON decodes a project record, stashing unknown fields in Extra.
func (p *Project) UnmarshalJSON(data []byte) error {
	type alias Project
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw {
		if projectKnownFields[key] {
			continue
		}
		if known.Extra == nil {
			known.Extra = make(map[string]json.RawMessage)
		}
		known.Extra[key] = raw[key]
	}

	*p = Project(known)
	return nil
}

// MarshalJSON encodes the project, merging preserved unknown fields back in.
func (p Project) MarshalJSON() ([]byte, error) {
	type alias Project
	data, err := json.Marshal(alias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range p.Extra {
		if _, owned := merged[key]; owned {
			continue
		}
		merged[key] = value
	}
	return json.Marshal(merged)
}

// ProjectSet is the loaded project collection, keyed by project ID.
type ProjectSet struct {
	Projects map[string]Project `json:"projects"`
}

// NewProjectSet creates an empty project set.
func NewProjectSet() *ProjectSet {
	return &ProjectSet{Projects: make(map[string]Project)}
}

// Get returns the project with the given ID.
func (ps *ProjectSet) Get(id string) (Project, bool) {
	p, ok := ps.Projects[id]
	return p, ok
}

// Resolve maps a project identifier (ID, or code case-insensitively) to a
// project ID.
func (ps *ProjectSet) Resolve(identifier string) (string, bool) {
	if _, ok := ps.Projects[identifier]; ok {
		return identifier, true
	}
	for id, p := range ps.Projects {
		if strings.EqualFold(p.Code, identifier) {
			return id, true
		}
	}
	return "", false
}

// CodeInUse reports whether any project already uses the given code.
func (ps *ProjectSet) CodeInUse(code string) bool {
	for _, p := range ps.Projects {
		if strings.EqualFold(p.Code, code) {
			return true
		}
	}
	return false
}

// Codes returns the project ID to code mapping.
func (ps *ProjectSet) Codes() map[string]string {
	codes := make(map[string]string, len(ps.Projects))
	for id, p := range ps.Projects {
		code := p.Code
		if code == "" && len(id) >= 5 {
			code = id[:5]
		} else if code == "" {
			code = id
		}
		codes[id] = code
	}
	return codes
}

// ClientFor resolves the client for a task: the task-level override wins,
// otherwise the owning project's lab is inherited.
func (ps *ProjectSet) ClientFor(t *Task) string {
	if t.ClientOverride != "" {
		return t.ClientOverride
	}
	if p, ok := ps.Projects[t.Project]; ok {
		return p.Lab
	}
	return ""
}
