package models

import (
	"strings"
)

// Статусы проекта.
const (
	ProjectActive   = "active"
	ProjectInactive = "inactive"
	ProjectArchived = "archived"
)

// ProjectContent — разделы описания проекта; каждое поле хранит HTML из редактора.
type ProjectContent struct {
	About         string `json:"about"`
	Features      string `json:"features"`
	Challenges    string `json:"challenges"`
	Achievements  string `json:"achievements"`
	Accessibility string `json:"accessibility"`
}

type PipelineTool struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
	Note string `json:"note"`
}

// PipelineStep — шаг процесса разработки, встроен в проект.
type PipelineStep struct {
	ID              string         `json:"id"`
	StepNumber      int            `json:"stepNumber"`
	Order           int            `json:"order"`
	Phase           string         `json:"phase"`
	Priority        string         `json:"priority"`
	Status          string         `json:"status"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Tools           []PipelineTool `json:"tools"`
	Icon            string         `json:"icon"`
	Duration        string         `json:"duration"`
	ProTip          string         `json:"proTip,omitempty"`
	CodeExampleLink string         `json:"codeExampleLink,omitempty"`
}

type ProjectPayload struct {
	Title               string         `json:"title"`
	Slug                string         `json:"slug,omitempty"`
	Summary             string         `json:"summary,omitempty"`
	Status              string         `json:"status,omitempty"`
	Category            string         `json:"category,omitempty"`
	Technologies        []string       `json:"technologies"`
	Content             ProjectContent `json:"content"`
	DevelopmentPipeline []PipelineStep `json:"developmentPipeline"`
	CoverImage          string         `json:"coverImage,omitempty"`
	Screenshots         []string       `json:"screenshots,omitempty"`
	GithubURL           string         `json:"githubUrl,omitempty"`
	LiveURL             string         `json:"liveUrl,omitempty"`
	Visible             bool           `json:"visible"`
	Order               int            `json:"order"`
}

var (
	projectStatuses = map[string]bool{ProjectActive: true, ProjectInactive: true, ProjectArchived: true}
	stepPriorities  = map[string]bool{"high": true, "medium": true, "low": true}
	stepStatuses    = map[string]bool{"completed": true, "in-progress": true, "optional": true}
)

func (p ProjectPayload) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return Validationf("project title is required")
	}
	if p.Status != "" && !projectStatuses[p.Status] {
		return Validationf("unknown project status %q", p.Status)
	}
	for _, u := range append([]string{p.CoverImage, p.GithubURL, p.LiveURL}, p.Screenshots...) {
		if err := checkURL(u); err != nil {
			return err
		}
	}
	for i, s := range p.DevelopmentPipeline {
		if strings.TrimSpace(s.Title) == "" {
			return Validationf("pipeline step %d: title is required", i+1)
		}
		if s.Priority != "" && !stepPriorities[s.Priority] {
			return Validationf("pipeline step %d: unknown priority %q", i+1, s.Priority)
		}
		if s.Status != "" && !stepStatuses[s.Status] {
			return Validationf("pipeline step %d: unknown status %q", i+1, s.Status)
		}
		if err := checkURL(s.CodeExampleLink); err != nil {
			return err
		}
	}
	return nil
}

// ReorderPipelineSteps переносит шаг from на позицию to и перенумеровывает
// stepNumber и order (с единицы), чтобы они не расходились.
func ReorderPipelineSteps(steps []PipelineStep, from, to int) ([]PipelineStep, error) {
	if from < 0 || from >= len(steps) || to < 0 || to >= len(steps) {
		return nil, Validationf("pipeline step index out of range")
	}
	out := make([]PipelineStep, 0, len(steps))
	out = append(out, steps[:from]...)
	out = append(out, steps[from+1:]...)

	moved := steps[from]
	out = append(out[:to], append([]PipelineStep{moved}, out[to:]...)...)

	RenumberPipelineSteps(out)
	return out, nil
}

// RenumberPipelineSteps выставляет stepNumber и order по позиции.
func RenumberPipelineSteps(steps []PipelineStep) {
	for i := range steps {
		steps[i].StepNumber = i + 1
		steps[i].Order = i + 1
	}
}
