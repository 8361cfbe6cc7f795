package prompts

func stringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func enumSchema(values ...string) map[string]any {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return map[string]any{"type": "string", "enum": arr}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

var difficulties = []string{"beginner", "intermediate", "advanced"}

func LearningPathSchema() map[string]any {
	objective := objectSchema(map[string]any{
		"id":              map[string]any{"type": "string"},
		"title":           map[string]any{"type": "string"},
		"description":     map[string]any{"type": "string"},
		"difficulty":      enumSchema(difficulties...),
		"estimated_hours": map[string]any{"type": "integer"},
		"prerequisites":   stringArraySchema(),
		"topics":          stringArraySchema(),
		"content_types":   stringArraySchema(),
	}, "title", "difficulty", "estimated_hours")
	milestone := objectSchema(map[string]any{
		"title":         map[string]any{"type": "string"},
		"description":   map[string]any{"type": "string"},
		"objective_ids": stringArraySchema(),
	}, "title")
	return objectSchema(map[string]any{
		"objectives":             map[string]any{"type": "array", "items": objective},
		"milestones":             map[string]any{"type": "array", "items": milestone},
		"difficulty_progression": map[string]any{"type": "string"},
		"timeline":               map[string]any{"type": "string"},
	}, "objectives")
}

func RecommendationsSchema() map[string]any {
	item := objectSchema(map[string]any{
		"title":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"difficulty":  enumSchema(difficulties...),
		"duration":    map[string]any{"type": []any{"string", "integer"}},
		"format":      enumSchema("video", "article", "interactive", "audio", "document"),
		"topics":      stringArraySchema(),
		"url":         map[string]any{"type": "string"},
	}, "title", "difficulty", "format")
	return map[string]any{"type": "array", "items": item}
}
