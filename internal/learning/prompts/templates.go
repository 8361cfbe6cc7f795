package prompts

type requiredField struct {
	name string
	get  func(Input) string
}

type definition struct {
	name       PromptName
	system     string
	user       string
	schemaName string
	schema     func() map[string]any
	required   []requiredField
}

var definitions = []definition{
	{
		name:       PromptLearningPath,
		schemaName: "learning_path",
		schema:     LearningPathSchema,
		system:     "You are an expert educational AI that creates personalized learning paths.",
		user: `
Create a personalized learning path for a {{.EducationLevel}} student with the following profile:

Subject: {{.Subject}}
Current Skill Level: {{.CurrentLevel}}
Learning Goals: {{.LearningGoalsCSV}}
Available Time: {{.TimeCommitment}} hours per week
Learning Style: {{.LearningStyle}}
{{- if .PrerequisitesCSV}}
Already Completed: {{.PrerequisitesCSV}}
{{- end}}

Please provide a structured learning path with:
1. 5-7 main learning objectives
2. Estimated hours for each objective
3. Prerequisite objective ids
4. Recommended content types
5. Assessment milestones

Format the response as a single JSON object.`,
		required: []requiredField{
			{"subject", func(in Input) string { return in.Subject }},
		},
	},
	{
		name:       PromptContentRecommendations,
		schemaName: "content_recommendations",
		schema:     RecommendationsSchema,
		system:     "You are an expert educational content curator that recommends learning materials.",
		user: `
Recommend educational content for a {{.EducationLevel}} learner with:

Current Topic: {{.CurrentTopic}}
Skill Level: {{.SkillLevel}}
Learning Context: {{.LearningContext}}
Preferred Formats: {{.PreferredFormatsCSV}}
Maximum Duration: {{.MaxDuration}} minutes

Provide 5-10 specific content recommendations including:
1. Content title and description
2. Difficulty level
3. Estimated duration
4. Topics covered
5. Content format (video, article, interactive, audio, document)

Focus on high-quality, age-appropriate content that builds on current knowledge.
Format as a JSON array.`,
		required: []requiredField{
			{"current_topic", func(in Input) string { return in.CurrentTopic }},
		},
	},
	{
		name:   PromptHealthProbe,
		system: "Reply with OK.",
		user:   "Health check",
	},
}
