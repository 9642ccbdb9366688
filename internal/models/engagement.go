package models

// EngagementSets is the per-user metadata blob held by the identity store:
// the complete id-sets of saved and upvoted tools.
type EngagementSets struct {
	SavedToolIDs   []string `json:"saved_tool_ids" bson:"saved_tool_ids"`
	UpvotedToolIDs []string `json:"upvoted_tool_ids" bson:"upvoted_tool_ids"`
}

// EngagementState is the acting user's flags for a single tool.
type EngagementState struct {
	Saved   bool `json:"saved"`
	Upvoted bool `json:"upvoted"`
}

// ToggleResult reports the confirmed flag value after a toggle, plus the
// catalog-owned vote counter when the mutation adjusted it. Votes is nil for
// save toggles: the counter and the flag are different facts.
type ToggleResult struct {
	ToolID  string `json:"tool_id"`
	Saved   bool   `json:"saved"`
	Upvoted bool   `json:"upvoted"`
	Votes   *int64 `json:"votes,omitempty"`
}
