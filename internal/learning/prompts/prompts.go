package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

type PromptName string

const (
	PromptLearningPath           PromptName = "learning_path"
	PromptContentRecommendations PromptName = "content_recommendations"
	PromptHealthProbe            PromptName = "health_probe"
)

// Input carries every field a prompt may reference. Unset fields render empty.
type Input struct {
	EducationLevel string

	Subject          string
	CurrentLevel     string
	LearningGoalsCSV string
	TimeCommitment   int
	LearningStyle    string
	PrerequisitesCSV string

	CurrentTopic        string
	SkillLevel          string
	LearningContext     string
	PreferredFormatsCSV string
	MaxDuration         int
}

// Prompt is a rendered system/user pair plus the JSON shape the reply should take.
type Prompt struct {
	Name       PromptName
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

type compiled struct {
	def  definition
	user *template.Template
}

var catalog = mustCompile(definitions)

func mustCompile(defs []definition) map[PromptName]compiled {
	out := make(map[PromptName]compiled, len(defs))
	for _, d := range defs {
		t, err := template.New(string(d.name)).Option("missingkey=zero").Parse(d.user)
		if err != nil {
			panic(fmt.Sprintf("prompt %s: %v", d.name, err))
		}
		out[d.name] = compiled{def: d, user: t}
	}
	return out
}

// Build renders name for in. Required fields that are blank fail before rendering.
func Build(name PromptName, in Input) (Prompt, error) {
	c, ok := catalog[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", name)
	}
	for _, field := range c.def.required {
		if strings.TrimSpace(field.get(in)) == "" {
			return Prompt{}, fmt.Errorf("%s: missing %s", name, field.name)
		}
	}
	var b bytes.Buffer
	if err := c.user.Execute(&b, in); err != nil {
		return Prompt{}, fmt.Errorf("%s: render: %w", name, err)
	}
	p := Prompt{
		Name:       name,
		System:     c.def.system,
		User:       strings.TrimSpace(b.String()),
		SchemaName: c.def.schemaName,
	}
	if c.def.schema != nil {
		p.Schema = c.def.schema()
	}
	return p, nil
}
